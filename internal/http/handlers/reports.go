package handlers

import (
	"net/http"

	"liquidaciones/internal/http/middleware"
	"liquidaciones/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/liquidaciones/:id/pdf
func GetLiquidacionPDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerarRecibo(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
