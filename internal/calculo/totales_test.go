package calculo

import (
	"math"
	"testing"

	"liquidaciones/internal/domain/models"
)

func casiIgual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func liquidacionBase() models.Liquidacion {
	return models.Liquidacion{
		ID:                  1,
		TotalCostoFletes:    20000,
		TotalCombustible:    8000,
		ComisionPorcentaje:  18,
		RendimientoTabulado: 4.5,
		DieselAFavor:        500,
		Anticipos: []models.Movimiento{
			{Clase: models.ClaseAnticipo, Tipo: "ANTICIPO", Monto: 2000},
		},
	}
}

func TestCalcularTotalesConBonoDiesel(t *testing.T) {
	tot := CalcularTotales(liquidacionBase(), Propuesta{})

	if !casiIgual(tot.BaseComision, 12000) {
		t.Fatalf("base comision = %v, esperaba 12000", tot.BaseComision)
	}
	if !casiIgual(tot.ComisionNominal, 2160) {
		t.Fatalf("comision nominal = %v, esperaba 2160", tot.ComisionNominal)
	}
	if !casiIgual(tot.TotalBruto, 2660) {
		t.Fatalf("total bruto = %v, esperaba 2660", tot.TotalBruto)
	}
	if !casiIgual(tot.TotalNeto, 660) {
		t.Fatalf("total neto = %v, esperaba 660", tot.TotalNeto)
	}
	if tot.RendimientoTipo != RendimientoBono {
		t.Fatalf("rendimiento tipo = %s, esperaba BONO", tot.RendimientoTipo)
	}
	if tot.OperadorDebe || tot.BaseNegativa {
		t.Fatalf("no esperaba banderas de anomalía: %+v", tot)
	}
}

func TestCalcularTotalesConAjusteManual(t *testing.T) {
	ajuste := 300.0
	tot := CalcularTotales(liquidacionBase(), Propuesta{AjusteManual: &ajuste})

	if !casiIgual(tot.TotalBruto, 2360) {
		t.Fatalf("total bruto = %v, esperaba 2360", tot.TotalBruto)
	}
	if !casiIgual(tot.TotalNeto, 360) {
		t.Fatalf("total neto = %v, esperaba 360", tot.TotalNeto)
	}

	// Ajuste negativo es un bono: se suma.
	bono := -300.0
	tot = CalcularTotales(liquidacionBase(), Propuesta{AjusteManual: &bono})
	if !casiIgual(tot.TotalBruto, 2960) {
		t.Fatalf("total bruto con bono = %v, esperaba 2960", tot.TotalBruto)
	}
}

func TestCalcularTotalesEsIdempotente(t *testing.T) {
	liq := liquidacionBase()
	pct := 15.0
	p := Propuesta{ComisionPorcentaje: &pct}

	primero := CalcularTotales(liq, p)
	segundo := CalcularTotales(liq, p)
	if primero != segundo {
		t.Fatalf("recalcular con los mismos datos cambió el resultado:\n%+v\n%+v", primero, segundo)
	}
}

func TestBaseNegativaNoSeRecorta(t *testing.T) {
	liq := models.Liquidacion{
		TotalCostoFletes:   1000,
		TotalCombustible:   1500,
		ComisionPorcentaje: 18,
	}
	tot := CalcularTotales(liq, Propuesta{})

	if !casiIgual(tot.BaseComision, -500) {
		t.Fatalf("base comision = %v, esperaba -500", tot.BaseComision)
	}
	if !casiIgual(tot.ComisionNominal, -90) {
		t.Fatalf("comision nominal = %v, esperaba -90 (sin recortar a cero)", tot.ComisionNominal)
	}
	if !tot.BaseNegativa {
		t.Fatal("esperaba bandera base_negativa")
	}
	if !tot.OperadorDebe {
		t.Fatal("neto negativo debe marcar operador_debe")
	}
}

func TestComisionCeroEsValida(t *testing.T) {
	liq := liquidacionBase()
	liq.ComisionPorcentaje = 0
	liq.DieselAFavor = 0
	liq.Anticipos = nil

	tot := CalcularTotales(liq, Propuesta{})
	if tot.ComisionNominal != 0 || tot.ComisionEfectiva != 0 {
		t.Fatalf("comision con 0%% = %v / %v, esperaba 0", tot.ComisionNominal, tot.ComisionEfectiva)
	}
	if !casiIgual(tot.UtilidadViaje, 12000) {
		t.Fatalf("utilidad viaje = %v, esperaba 12000 aun con comisión cero", tot.UtilidadViaje)
	}
}

func TestUtilidadViajeDescuentaComisionEfectiva(t *testing.T) {
	liq := liquidacionBase()
	liq.TotalCasetas = 1200
	liq.TotalGastosVarios = 300
	liq.TotalDeduccionesComerciales = 500

	// (20000-500) - (8000+1200+300) - 2160 = 7840
	tot := CalcularTotales(liq, Propuesta{})
	if !casiIgual(tot.UtilidadViaje, 7840) {
		t.Fatalf("utilidad viaje = %v, esperaba 7840", tot.UtilidadViaje)
	}

	pagada := 2500.0
	liq.ComisionPagada = &pagada
	tot = CalcularTotales(liq, Propuesta{})
	if !casiIgual(tot.UtilidadViaje, 7500) {
		t.Fatalf("utilidad con comisión pagada = %v, esperaba 7500", tot.UtilidadViaje)
	}
}

func TestDieselEnContraNoSeNetea(t *testing.T) {
	liq := liquidacionBase()
	liq.DieselAFavor = 0
	liq.DieselEnContra = 400

	tot := CalcularTotales(liq, Propuesta{})
	if !casiIgual(tot.TotalBruto, 2160) {
		t.Fatalf("total bruto = %v, el cargo por exceso no debe restarse", tot.TotalBruto)
	}
	if tot.RendimientoTipo != RendimientoCargo || !casiIgual(tot.DieselEnContra, 400) {
		t.Fatalf("el cargo debe quedar expuesto como informativo: %+v", tot)
	}
}

func TestDiferenciaPorcentajeConSugeridoCero(t *testing.T) {
	liq := liquidacionBase()
	liq.TotalNetoPagar = 0

	tot := CalcularTotales(liq, Propuesta{})
	if math.IsNaN(tot.DiferenciaPorcentaje) || math.IsInf(tot.DiferenciaPorcentaje, 0) {
		t.Fatalf("porcentaje con sugerido cero = %v, nunca debe ser NaN/Inf", tot.DiferenciaPorcentaje)
	}
	if tot.DiferenciaPorcentaje != 0 {
		t.Fatalf("porcentaje con sugerido cero = %v, esperaba 0", tot.DiferenciaPorcentaje)
	}
}

func TestDiferenciaContraSugeridoPreservado(t *testing.T) {
	liq := liquidacionBase()
	sugerido := 660.0
	liq.TotalNetoSugerido = &sugerido
	liq.TotalNetoPagar = 900 // ya fue modificado a mano
	liq.TotalModificadoManualmente = true

	tot := CalcularTotales(liq, Propuesta{})
	// el diff siempre es contra la sugerencia original del algoritmo
	if !casiIgual(tot.DiferenciaVsSugerido, tot.TotalNeto-660) {
		t.Fatalf("diferencia = %v, esperaba contra el sugerido 660", tot.DiferenciaVsSugerido)
	}
}
