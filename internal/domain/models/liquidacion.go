package models

import "liquidaciones/internal/domain"

// Liquidacion mirrors the liquidaciones table. Monetary columns are DECIMAL in
// MySQL and arrive as strings; repositories parse them with utils.ParseMonto
// before they reach this struct.
type Liquidacion struct {
	ID               int64  `json:"id"`
	FolioLiquidacion string `json:"folio_liquidacion"`
	Cliente          string `json:"cliente"`

	UnidadNo     string `json:"no_unidad"`
	UnidadTipo   string `json:"tipo_unidad"`
	UnidadPlacas string `json:"u_placas"`
	Operador     string `json:"operador"`

	FechaInicio  string `json:"fecha_inicio"`
	FechaFin     string `json:"fecha_fin"`
	FechaLlegada string `json:"fecha_llegada"`

	KilometrosRecorridos float64  `json:"kilometros_recorridos"`
	RendimientoReal      *float64 `json:"rendimiento_real"`
	RendimientoTabulado  float64  `json:"rendimiento_tabulado"`

	// A lo más uno de los dos es positivo: el operador ahorró diesel o lo
	// excedió, nunca ambos.
	DieselAFavor   float64 `json:"diesel_a_favor"`
	DieselEnContra float64 `json:"diesel_en_contra"`

	ComisionPorcentaje float64  `json:"comision_porcentaje"`
	ComisionEstimada   float64  `json:"comision_estimada"`
	ComisionPagada     *float64 `json:"comision_pagada"`

	AjusteManual float64 `json:"ajuste_manual"`
	MotivoAjuste string  `json:"motivo_ajuste"`

	TotalCostoFletes            float64 `json:"total_costo_fletes"`
	TotalCombustible            float64 `json:"total_combustible"`
	TotalCasetas                float64 `json:"total_casetas"`
	TotalGastosVarios           float64 `json:"total_gastos_varios"`
	TotalDeduccionesComerciales float64 `json:"total_deducciones_comerciales"`

	TotalBruto        float64  `json:"total_bruto"`
	TotalNetoSugerido *float64 `json:"total_neto_sugerido"`
	TotalNetoPagar    float64  `json:"total_neto_pagar"`
	UtilidadViaje     float64  `json:"utilidad_viaje"`

	TotalModificadoManualmente bool   `json:"total_modificado_manualmente"`
	UsuarioModificadorID       *int64 `json:"usuario_modificador_id"`
	FechaModificacionTotal     string `json:"fecha_modificacion_total,omitempty"`

	Estado domain.Estado `json:"estado"`

	UsuarioCreadorID   int64  `json:"usuario_creador_id"`
	UsuarioEditorID    *int64 `json:"usuario_editor_id"`
	UsuarioAprobadorID *int64 `json:"usuario_aprobador_id"`
	UsuarioPagadorID   *int64 `json:"usuario_pagador_id"`
	FechaPago          string `json:"fecha_pago,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Anticipos []Movimiento `json:"anticipos,omitempty"`
}

// ComisionDefaultUnidad returns the commission percentage agreed per unit type.
// CAMIONETA legitimately pays 0%.
func ComisionDefaultUnidad(tipoUnidad string) float64 {
	switch tipoUnidad {
	case "TRACTOCAMION":
		return 18
	case "MUDANCERO":
		return 20
	case "CAMIONETA":
		return 0
	default:
		return 0
	}
}
