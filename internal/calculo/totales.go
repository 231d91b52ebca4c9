package calculo

import "liquidaciones/internal/domain/models"

// Propuesta carries the parameters a director is editing in the adjust dialog.
// Nil fields keep the snapshot's current value. The UI calls CalcularTotales
// on every keystroke with the same snapshot and a fresh Propuesta.
type Propuesta struct {
	RendimientoTabulado *float64 `json:"rendimiento_tabulado"`
	ComisionPorcentaje  *float64 `json:"comision_porcentaje"`
	AjusteManual        *float64 `json:"ajuste_manual"`
	MotivoAjuste        *string  `json:"motivo_ajuste"`
}

// Totales is the computed bundle rendered by the preview and persisted by the
// recompute pipeline. It must match what the adjust endpoint will store, or
// the preview misleads the director.
type Totales struct {
	BaseComision     float64 `json:"base_comision"`
	ComisionNominal  float64 `json:"comision_nominal"`
	ComisionEfectiva float64 `json:"comision_efectiva"`
	ComisionAjustada bool    `json:"comision_ajustada"`

	RendimientoTipo  TipoRendimiento `json:"rendimiento_tipo"`
	RendimientoMonto float64         `json:"rendimiento_monto"`
	SinRendimiento   bool            `json:"sin_rendimiento"`
	// Informativo: el cargo por exceso de diesel se muestra pero no se resta
	// del total bruto.
	DieselEnContra float64 `json:"diesel_en_contra"`

	AjusteManual float64 `json:"ajuste_manual"`

	TotalBruto     float64 `json:"total_bruto"`
	TotalAnticipos float64 `json:"total_anticipos"`
	TotalNeto      float64 `json:"total_neto"`
	UtilidadViaje  float64 `json:"utilidad_viaje"`

	DiferenciaVsSugerido float64 `json:"diferencia_vs_sugerido"`
	DiferenciaPorcentaje float64 `json:"diferencia_porcentaje"`

	BaseNegativa bool `json:"base_negativa"`
	OperadorDebe bool `json:"operador_debe"`
}

// TotalAnticipos sums the advances already handed to the operator.
func TotalAnticipos(anticipos []models.Movimiento) float64 {
	var total float64
	for _, a := range anticipos {
		total += a.Monto
	}
	return total
}

// TotalSugerido is the amount the algorithm last proposed: the preserved
// suggestion once the total has been overridden, the live total otherwise.
func TotalSugerido(liq models.Liquidacion) float64 {
	if liq.TotalModificadoManualmente && liq.TotalNetoSugerido != nil {
		return *liq.TotalNetoSugerido
	}
	return liq.TotalNetoPagar
}

// CalcularTotales runs the settlement chain in fixed order:
//
//	base = fletes - combustible
//	comision = base * pct/100
//	bruto = comision + diesel_a_favor - ajuste_manual
//	neto = bruto - anticipos
//	utilidad = (fletes - deducciones) - (combustible + casetas + varios) - comision efectiva
//
// Pure and idempotent; nothing is rounded mid-chain. A negative base or a
// negative neto is legitimate data and only gets flagged, never clamped.
func CalcularTotales(liq models.Liquidacion, p Propuesta) Totales {
	porcentaje := liq.ComisionPorcentaje
	if p.ComisionPorcentaje != nil {
		porcentaje = *p.ComisionPorcentaje
	}
	ajuste := liq.AjusteManual
	if p.AjusteManual != nil {
		ajuste = *p.AjusteManual
	}
	if p.RendimientoTabulado != nil {
		liq.RendimientoTabulado = *p.RendimientoTabulado
	}

	com := CalcularComision(liq.TotalCostoFletes, liq.TotalCombustible, porcentaje, liq.ComisionPagada)
	rend := EvaluarRendimiento(liq)

	// Ajuste positivo = cargo al operador (se resta); negativo = bono.
	bruto := com.Nominal + liq.DieselAFavor - ajuste
	anticipos := TotalAnticipos(liq.Anticipos)
	neto := bruto - anticipos

	utilidad := (liq.TotalCostoFletes - liq.TotalDeduccionesComerciales) -
		(liq.TotalCombustible + liq.TotalCasetas + liq.TotalGastosVarios) -
		com.Efectiva

	sugerido := TotalSugerido(liq)
	diferencia := neto - sugerido
	var porcentajeDif float64
	if sugerido != 0 {
		porcentajeDif = diferencia / sugerido * 100
	}

	return Totales{
		BaseComision:     com.Base,
		ComisionNominal:  com.Nominal,
		ComisionEfectiva: com.Efectiva,
		ComisionAjustada: com.AjustadaManualmente,

		RendimientoTipo:  rend.Tipo,
		RendimientoMonto: rend.Monto,
		SinRendimiento:   rend.SinTabular,
		DieselEnContra:   liq.DieselEnContra,

		AjusteManual: ajuste,

		TotalBruto:     bruto,
		TotalAnticipos: anticipos,
		TotalNeto:      neto,
		UtilidadViaje:  utilidad,

		DiferenciaVsSugerido: diferencia,
		DiferenciaPorcentaje: porcentajeDif,

		BaseNegativa: com.Base < 0,
		OperadorDebe: neto < 0,
	}
}
