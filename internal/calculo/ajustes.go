package calculo

import (
	"math"
	"strings"

	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
)

// Los dos caminos de corrección son independientes y nunca se mezclan:
// AjusteParametros cambia los parámetros y deja que la fórmula recalcule;
// ModificacionTotal reemplaza el total neto directamente.

// AjusteParametros is the adjust-dialog payload.
type AjusteParametros struct {
	RendimientoTabulado float64 `json:"rendimiento_tabulado"`
	ComisionPorcentaje  float64 `json:"comision_porcentaje"`
	AjusteManual        float64 `json:"ajuste_manual"`
	MotivoAjuste        string  `json:"motivo_ajuste"`
}

// ModificacionTotal is the modify-payment payload: the director types the
// final amount, bypassing the formula.
type ModificacionTotal struct {
	NuevoTotal float64 `json:"total_neto_pagar"`
}

// rolesAjuste may override settlements.
var rolesAjuste = map[domain.Rol]bool{
	domain.RolDirector: true,
	domain.RolAdmin:    true,
	domain.RolSistemas: true,
}

// AutorizarAjuste is the authoritative gate for both override paths: only a
// director-level role may touch an APROBADA settlement.
func AutorizarAjuste(estado domain.Estado, rol domain.Rol) error {
	if !rolesAjuste[rol] {
		return domain.PermissionError{Msg: "tu rol no permite ajustar liquidaciones"}
	}
	if estado != domain.EstadoAprobada {
		return domain.PermissionError{Msg: "solo se puede ajustar una liquidación APROBADA"}
	}
	return nil
}

// Validar checks the parameter-override payload. The resulting total
// may be negative; that is the formula speaking and it is allowed.
func (a AjusteParametros) Validar() error {
	if a.RendimientoTabulado < 0 {
		return domain.ValidationError{Field: "rendimiento_tabulado", Msg: "no puede ser negativo"}
	}
	if a.ComisionPorcentaje < 0 || a.ComisionPorcentaje > 100 {
		return domain.ValidationError{Field: "comision_porcentaje", Msg: "debe estar entre 0 y 100"}
	}
	if a.AjusteManual != 0 && strings.TrimSpace(a.MotivoAjuste) == "" {
		return domain.ValidationError{Field: "motivo_ajuste", Msg: "debe indicar el motivo del ajuste"}
	}
	return nil
}

// Validar rejects a typed total that is not a number or is negative. A human
// typing a negative payable is always a mistake; a negative payable derived
// from legitimate deductions goes through the parameter path instead.
func (m ModificacionTotal) Validar() error {
	if math.IsNaN(m.NuevoTotal) || math.IsInf(m.NuevoTotal, 0) {
		return domain.ValidationError{Field: "total_neto_pagar", Msg: "ingresa un monto válido"}
	}
	if m.NuevoTotal < 0 {
		return domain.ValidationError{Field: "total_neto_pagar", Msg: "el total no puede ser negativo"}
	}
	return nil
}

// PreviewTotal is the live diff report for the modify-payment dialog:
// difference of the typed total against the system suggestion, with the
// percentage guarded against a zero suggestion.
type PreviewTotal struct {
	TotalSugerido        float64 `json:"total_sugerido"`
	TotalActual          float64 `json:"total_actual"`
	DiferenciaVsSugerido float64 `json:"diferencia_vs_sugerido"`
	DiferenciaVsActual   float64 `json:"diferencia_vs_actual"`
	DiferenciaPorcentaje float64 `json:"diferencia_porcentaje"`
	HayCambio            bool    `json:"hay_cambio"`
}

func PreviewModificacion(liq models.Liquidacion, nuevoTotal float64) PreviewTotal {
	sugerido := TotalSugerido(liq)
	actual := liq.TotalNetoPagar

	difSugerido := nuevoTotal - sugerido
	difActual := nuevoTotal - actual
	var pct float64
	if sugerido != 0 {
		pct = difSugerido / sugerido * 100
	}

	return PreviewTotal{
		TotalSugerido:        sugerido,
		TotalActual:          actual,
		DiferenciaVsSugerido: difSugerido,
		DiferenciaVsActual:   difActual,
		DiferenciaPorcentaje: pct,
		HayCambio:            math.Abs(difActual) > toleranciaMonto,
	}
}
