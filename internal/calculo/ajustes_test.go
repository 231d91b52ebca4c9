package calculo

import (
	"math"
	"testing"

	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
)

func TestAutorizarAjuste(t *testing.T) {
	cases := []struct {
		name   string
		estado domain.Estado
		rol    domain.Rol
		ok     bool
	}{
		{"director sobre aprobada", domain.EstadoAprobada, domain.RolDirector, true},
		{"admin sobre aprobada", domain.EstadoAprobada, domain.RolAdmin, true},
		{"sistemas sobre aprobada", domain.EstadoAprobada, domain.RolSistemas, true},
		{"capturista sobre aprobada", domain.EstadoAprobada, domain.RolCapturista, false},
		{"director sobre borrador", domain.EstadoBorrador, domain.RolDirector, false},
		{"director sobre pagada", domain.EstadoPagada, domain.RolDirector, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AutorizarAjuste(tc.estado, tc.rol)
			if tc.ok && err != nil {
				t.Fatalf("esperaba permitido, obtuve %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("esperaba PermissionError")
				}
				if !domain.IsPermission(err) {
					t.Fatalf("esperaba PermissionError, obtuve %T", err)
				}
			}
		})
	}
}

func TestAjusteManualRequiereMotivo(t *testing.T) {
	a := AjusteParametros{RendimientoTabulado: 4.5, ComisionPorcentaje: 18, AjusteManual: 300}
	err := a.Validar()
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("ajuste sin motivo debe fallar validación, obtuve %v", err)
	}

	a.MotivoAjuste = "Daño en unidad"
	if err := a.Validar(); err != nil {
		t.Fatalf("con motivo el ajuste es válido, obtuve %v", err)
	}

	// Sin ajuste manual el motivo es opcional.
	sin := AjusteParametros{RendimientoTabulado: 4.5, ComisionPorcentaje: 18}
	if err := sin.Validar(); err != nil {
		t.Fatalf("sin ajuste no se exige motivo, obtuve %v", err)
	}
}

func TestAjustePorcentajeFueraDeRango(t *testing.T) {
	a := AjusteParametros{ComisionPorcentaje: 120}
	if err := a.Validar(); err == nil || !domain.IsValidation(err) {
		t.Fatalf("porcentaje 120 debe fallar, obtuve %v", err)
	}
	a = AjusteParametros{ComisionPorcentaje: -1}
	if err := a.Validar(); err == nil {
		t.Fatal("porcentaje negativo debe fallar")
	}
}

func TestModificacionTotalNegativaSeRechaza(t *testing.T) {
	m := ModificacionTotal{NuevoTotal: -50}
	err := m.Validar()
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("total negativo tecleado debe rechazarse, obtuve %v", err)
	}

	if err := (ModificacionTotal{NuevoTotal: math.NaN()}).Validar(); err == nil {
		t.Fatal("NaN debe rechazarse")
	}
	if err := (ModificacionTotal{NuevoTotal: 1500}).Validar(); err != nil {
		t.Fatalf("total válido rechazado: %v", err)
	}
}

func TestNetoNegativoPorFormulaSeAcepta(t *testing.T) {
	// El mismo -50 que se rechaza tecleado es válido si sale de la fórmula.
	liq := models.Liquidacion{
		TotalCostoFletes:   10000,
		TotalCombustible:   8000,
		ComisionPorcentaje: 18,
		Anticipos:          []models.Movimiento{{Monto: 410}},
	}
	tot := CalcularTotales(liq, Propuesta{})
	if !casiIgual(tot.TotalNeto, -50) {
		t.Fatalf("total neto = %v, esperaba -50", tot.TotalNeto)
	}
	if !tot.OperadorDebe {
		t.Fatal("neto negativo derivado debe marcarse operador_debe, no rechazarse")
	}
}

func TestPreviewModificacion(t *testing.T) {
	sugerido := 660.0
	liq := models.Liquidacion{
		TotalNetoPagar:             900,
		TotalNetoSugerido:          &sugerido,
		TotalModificadoManualmente: true,
	}

	p := PreviewModificacion(liq, 1000)
	if !casiIgual(p.DiferenciaVsSugerido, 340) {
		t.Fatalf("dif vs sugerido = %v, esperaba 340", p.DiferenciaVsSugerido)
	}
	if !casiIgual(p.DiferenciaVsActual, 100) {
		t.Fatalf("dif vs actual = %v, esperaba 100", p.DiferenciaVsActual)
	}
	if !p.HayCambio {
		t.Fatal("esperaba hay_cambio")
	}

	// Sugerido en cero jamás produce NaN.
	p = PreviewModificacion(models.Liquidacion{}, 100)
	if math.IsNaN(p.DiferenciaPorcentaje) || math.IsInf(p.DiferenciaPorcentaje, 0) {
		t.Fatalf("porcentaje = %v", p.DiferenciaPorcentaje)
	}
	if p.DiferenciaPorcentaje != 0 {
		t.Fatalf("porcentaje con sugerido 0 = %v, esperaba 0", p.DiferenciaPorcentaje)
	}
}
