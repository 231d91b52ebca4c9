package handlers

import (
	"net/http"
	"strings"

	"liquidaciones/internal/calculo"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/http/middleware"
	"liquidaciones/internal/services"

	"github.com/gin-gonic/gin"
)

func liquidacionService(c *gin.Context) services.LiquidacionService {
	return services.LiquidacionService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/liquidaciones?estado=APROBADA
func GetLiquidaciones(c *gin.Context) {
	liqs, err := liquidacionService(c).List(c.Query("estado"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liquidaciones": liqs})
}

// GET /api/liquidaciones/:id
func GetLiquidacionByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	liq, err := liquidacionService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, liq)
}

// POST /api/liquidaciones
func CreateLiquidacion(c *gin.Context) {
	var liq models.Liquidacion
	if !BindJSONOrError(c, &liq) {
		return
	}
	out, err := liquidacionService(c).Crear(liq, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/liquidaciones/:id
func UpdateLiquidacion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var liq models.Liquidacion
	if !BindJSONOrError(c, &liq) {
		return
	}
	liq.ID = id
	out, err := liquidacionService(c).ActualizarDatos(liq, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/liquidaciones/:id
func DeleteLiquidacion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := liquidacionService(c).Eliminar(id, middleware.GetRequestContext(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "liquidación eliminada"})
}

// POST /api/liquidaciones/:id/preview
// Recalcula en memoria con los parámetros propuestos; no persiste nada.
func PreviewLiquidacion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p calculo.Propuesta
	if !BindJSONOrError(c, &p) {
		return
	}
	tot, err := liquidacionService(c).Preview(id, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tot)
}

type ajustarRequest struct {
	calculo.AjusteParametros
	UpdatedAt string `json:"updated_at"`
}

// PUT /api/liquidaciones/:id/ajustar
func AjustarLiquidacion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ajustarRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.UpdatedAt) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "updated_at", Msg: "se requiere la versión leída"})
		return
	}
	out, err := liquidacionService(c).AplicarAjuste(id, req.AjusteParametros, req.UpdatedAt, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type modificarPagoRequest struct {
	calculo.ModificacionTotal
	UpdatedAt string `json:"updated_at"`
}

// POST /api/liquidaciones/:id/modificar-pago/preview
func PreviewModificarPago(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req modificarPagoRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	prev, err := liquidacionService(c).PreviewModificacion(id, req.NuevoTotal)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, prev)
}

// PUT /api/liquidaciones/:id/modificar-pago
func ModificarPago(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req modificarPagoRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.UpdatedAt) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "updated_at", Msg: "se requiere la versión leída"})
		return
	}
	out, err := liquidacionService(c).ModificarTotal(id, req.ModificacionTotal, req.UpdatedAt, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type estadoRequest struct {
	Estado    string `json:"estado"`
	UpdatedAt string `json:"updated_at"`
}

// PUT /api/liquidaciones/:id/estado
func CambiarEstadoLiquidacion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req estadoRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.UpdatedAt) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "updated_at", Msg: "se requiere la versión leída"})
		return
	}
	nuevo := domain.Estado(strings.ToUpper(strings.TrimSpace(req.Estado)))
	out, err := liquidacionService(c).CambiarEstado(id, nuevo, req.UpdatedAt, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
