package services

import (
	"bytes"
	"testing"

	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
)

func TestDocsServiceGenerarRecibo(t *testing.T) {
	loader := func(id int64) (models.Liquidacion, error) {
		sugerido := 660.0
		return models.Liquidacion{
			ID:                         id,
			FolioLiquidacion:           "LIQ-2026-007",
			Cliente:                    "Cliente SA",
			Operador:                   "Juan Pérez",
			UnidadNo:                   "U-12",
			UnidadTipo:                 "TRACTOCAMION",
			UnidadPlacas:               "ABC-123",
			FechaInicio:                "2026-08-01",
			FechaFin:                   "2026-08-05",
			RendimientoTabulado:        2.5,
			DieselAFavor:               500,
			ComisionPorcentaje:         18,
			TotalCostoFletes:           20000,
			TotalCombustible:           8000,
			TotalCasetas:               1500,
			TotalNetoPagar:             700,
			TotalNetoSugerido:          &sugerido,
			TotalModificadoManualmente: true,
			Estado:                     domain.EstadoAprobada,
			Anticipos:                  []models.Movimiento{{Monto: 2000, Tipo: "ANTICIPO"}},
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerarRecibo(7)
	if err != nil {
		t.Fatalf("GenerarRecibo: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("PDF vacío")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("salida no es un PDF")
	}
	if filename != "LIQUIDACION_LIQ-2026-007.pdf" {
		t.Fatalf("nombre de archivo inesperado: %s", filename)
	}
}
