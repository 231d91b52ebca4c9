package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("super-secret-key-change-me")

// ConfigureAuth installs the signing secret from the environment.
func ConfigureAuth(env intconfig.Env) {
	if env.JWTSecret != "" {
		jwtSecret = []byte(env.JWTSecret)
	}
}

// JWTSecret exposes the active signing secret for the auth middleware.
func JWTSecret() []byte {
	return jwtSecret
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         models.Usuario
		passwordHash string
		rol          string
	)

	err := intconfig.DB.QueryRow(`
        SELECT id, nombre, apellido, email, password_hash, rol, activo
        FROM usuarios
        WHERE email = ?
    `, strings.TrimSpace(req.Email)).Scan(
		&user.ID,
		&user.Nombre,
		&user.Apellido,
		&user.Email,
		&passwordHash,
		&rol,
		&user.Activo,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email o contraseña incorrectos"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo la consulta de usuario: " + err.Error()})
		}
		return
	}

	if !user.Activo {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "usuario desactivado"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email o contraseña incorrectos"})
		return
	}

	user.Rol = domain.Rol(rol)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Rol),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo generar el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Password) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "email", Msg: "email y contraseña son obligatorios"})
		return
	}

	rol := domain.Rol(strings.ToUpper(strings.TrimSpace(req.Rol)))
	if rol == "" {
		rol = domain.RolCapturista
	}
	switch rol {
	case domain.RolCapturista, domain.RolAdmin, domain.RolDirector, domain.RolSistemas:
	default:
		RespondDomainError(c, domain.ValidationError{Field: "rol", Msg: "rol desconocido"})
		return
	}

	var exists int
	if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM usuarios WHERE email = ?`, req.Email).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo la verificación de usuario: " + err.Error()})
		return
	}
	if exists > 0 {
		RespondDomainError(c, domain.ConflictError{Resource: "usuario", Msg: "el email ya está registrado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo cifrar la contraseña"})
		return
	}

	res, err := intconfig.DB.Exec(`
        INSERT INTO usuarios (nombre, apellido, email, password_hash, rol, activo, created_at)
        VALUES (?,?,?,?,?,1,NOW())
    `, strings.TrimSpace(req.Nombre), strings.TrimSpace(req.Apellido), req.Email, string(hash), string(rol))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo crear el usuario: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"user": models.Usuario{
			ID:       id,
			Nombre:   req.Nombre,
			Apellido: req.Apellido,
			Email:    req.Email,
			Rol:      rol,
			Activo:   true,
		},
	})
}
