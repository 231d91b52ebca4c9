package handlers

import (
	"net/http"

	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/usuarios
func GetUsuarios(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT id, nombre, apellido, email, rol, activo
		FROM usuarios
		ORDER BY nombre ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo la consulta de usuarios: " + err.Error()})
		return
	}
	defer rows.Close()

	usuarios := []models.Usuario{}
	for rows.Next() {
		var u models.Usuario
		var rol string
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &rol, &u.Activo); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo leyendo usuarios: " + err.Error()})
			return
		}
		u.Rol = domain.Rol(rol)
		usuarios = append(usuarios, u)
	}
	c.JSON(http.StatusOK, gin.H{"usuarios": usuarios})
}

type activoRequest struct {
	Activo bool `json:"activo"`
}

// PUT /api/usuarios/:id/activo
func SetUsuarioActivo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req activoRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := intconfig.DB.Exec(`UPDATE usuarios SET activo=? WHERE id=?`, req.Activo, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo actualizar el usuario: " + err.Error()})
		return
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		RespondDomainError(c, domain.NotFoundError{Resource: "usuario"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "usuario actualizado"})
}
