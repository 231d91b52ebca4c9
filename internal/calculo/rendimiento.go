package calculo

import "liquidaciones/internal/domain/models"

// TipoRendimiento classifies the fuel-performance outcome of a trip.
type TipoRendimiento string

const (
	RendimientoBono    TipoRendimiento = "BONO"
	RendimientoCargo   TipoRendimiento = "CARGO"
	RendimientoNinguno TipoRendimiento = "NINGUNO"
)

// AjusteRendimiento is the evaluated fuel-performance adjustment. SinTabular
// means the unit has no tabulated efficiency configured, so the screen must
// say "sin configurar" instead of showing a silent zero.
type AjusteRendimiento struct {
	Tipo       TipoRendimiento `json:"tipo"`
	Monto      float64         `json:"monto"`
	SinTabular bool            `json:"sin_tabular"`
}

// EvaluarRendimiento derives the bono/cargo classification from the snapshot.
// diesel_a_favor and diesel_en_contra are mutually exclusive upstream; a favor
// wins if both ever arrive positive.
func EvaluarRendimiento(liq models.Liquidacion) AjusteRendimiento {
	out := AjusteRendimiento{Tipo: RendimientoNinguno, SinTabular: liq.RendimientoTabulado <= 0}
	switch {
	case liq.DieselAFavor > 0:
		out.Tipo = RendimientoBono
		out.Monto = liq.DieselAFavor
	case liq.DieselEnContra > 0:
		out.Tipo = RendimientoCargo
		out.Monto = liq.DieselEnContra
	}
	return out
}
