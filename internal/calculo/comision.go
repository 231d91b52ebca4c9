package calculo

import "math"

// toleranciaMonto is the cent-level tolerance used whenever two currency
// amounts are compared for equality.
const toleranciaMonto = 0.01

// Comision is the commission breakdown for one settlement.
type Comision struct {
	Base                float64 `json:"base"`
	Nominal             float64 `json:"nominal"`
	Efectiva            float64 `json:"efectiva"`
	AjustadaManualmente bool    `json:"ajustada_manualmente"`
}

// CalcularComision computes base, nominal and effective commission.
// base = fletes - combustible and may go negative; it is never clamped so a
// data-entry problem upstream stays visible. porcentaje 0 is a valid agreement
// (camionetas) and yields zero commission. pagada, when present and differing
// from the nominal by more than a cent, replaces it.
func CalcularComision(totalFletes, totalCombustible, porcentaje float64, pagada *float64) Comision {
	base := totalFletes - totalCombustible
	nominal := base * (porcentaje / 100)

	c := Comision{Base: base, Nominal: nominal, Efectiva: nominal}
	if pagada != nil && math.Abs(*pagada-nominal) > toleranciaMonto {
		c.Efectiva = *pagada
		c.AjustadaManualmente = true
	}
	return c
}
