package handlers

import (
	"net/http"

	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/http/middleware"
	"liquidaciones/internal/services"

	"github.com/gin-gonic/gin"
)

// Las seis colecciones de movimientos comparten los mismos handlers; el
// segmento de ruta selecciona la clase.
var clasesPorRuta = map[string]models.Clase{
	"fletes":      models.ClaseFlete,
	"combustible": models.ClaseCombustible,
	"casetas":     models.ClaseCaseta,
	"varios":      models.ClaseVario,
	"deducciones": models.ClaseDeduccion,
	"anticipos":   models.ClaseAnticipo,
}

func movimientoService(c *gin.Context) services.MovimientoService {
	return services.MovimientoService{RequestID: middleware.GetRequestID(c)}
}

func claseParam(c *gin.Context) (models.Clase, bool) {
	clase, ok := clasesPorRuta[c.Param("clase")]
	if !ok {
		RespondDomainError(c, domain.ValidationError{Field: "clase", Msg: "colección de movimientos desconocida"})
		return "", false
	}
	return clase, true
}

// GET /api/liquidaciones/:id/movimientos/:clase
func GetMovimientos(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	clase, ok := claseParam(c)
	if !ok {
		return
	}
	movs, err := movimientoService(c).Listar(id, clase)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movimientos": movs})
}

// POST /api/liquidaciones/:id/movimientos/:clase
// Devuelve la liquidación recalculada para que la pantalla se refresque de
// un solo viaje.
func CreateMovimiento(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	clase, ok := claseParam(c)
	if !ok {
		return
	}
	var m models.Movimiento
	if !BindJSONOrError(c, &m) {
		return
	}
	m.LiquidacionID = id
	m.Clase = clase

	liq, err := movimientoService(c).Agregar(m, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, liq)
}

// PUT /api/liquidaciones/:id/movimientos/:clase/:movId
func UpdateMovimiento(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	clase, ok := claseParam(c)
	if !ok {
		return
	}
	movID, ok := idParam(c, "movId")
	if !ok {
		return
	}
	var m models.Movimiento
	if !BindJSONOrError(c, &m) {
		return
	}
	m.ID = movID
	m.LiquidacionID = id
	m.Clase = clase

	liq, err := movimientoService(c).Actualizar(m, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, liq)
}

// DELETE /api/liquidaciones/:id/movimientos/:clase/:movId
func DeleteMovimiento(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	clase, ok := claseParam(c)
	if !ok {
		return
	}
	movID, ok := idParam(c, "movId")
	if !ok {
		return
	}
	liq, err := movimientoService(c).Eliminar(clase, id, movID, middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, liq)
}
