package models

// Movimiento is one money line attached to a liquidación: a freight charge,
// a fuel/toll/misc expense, a commercial deduction or an advance. The Clase
// selects the table; Tipo/Concepto carry the class-specific detail.
type Movimiento struct {
	ID            int64   `json:"id"`
	LiquidacionID int64   `json:"liquidacion_id"`
	Clase         Clase   `json:"clase"`
	Monto         float64 `json:"monto"`

	// Combustible
	Litros      float64 `json:"litros,omitempty"`
	PrecioLitro float64 `json:"precio_litro,omitempty"`
	MetodoPago  string  `json:"metodo_pago,omitempty"`

	// Varios / fletes
	Concepto      string `json:"concepto,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`

	// Deducciones (SEGURO, MANIOBRA, REPARTO, OTROS, ESTADIAS) y
	// anticipos (ANTICIPO, GIRO)
	Tipo string `json:"tipo,omitempty"`
}

// Clase distinguishes the movement tables.
type Clase string

const (
	ClaseFlete       Clase = "FLETE"
	ClaseCombustible Clase = "COMBUSTIBLE"
	ClaseCaseta      Clase = "CASETA"
	ClaseVario       Clase = "VARIO"
	ClaseDeduccion   Clase = "DEDUCCION"
	ClaseAnticipo    Clase = "ANTICIPO"
)

// ClaseValida reports whether c names a known movement class.
func ClaseValida(c Clase) bool {
	switch c {
	case ClaseFlete, ClaseCombustible, ClaseCaseta, ClaseVario, ClaseDeduccion, ClaseAnticipo:
		return true
	}
	return false
}

var tiposDeduccion = map[string]bool{
	"SEGURO": true, "MANIOBRA": true, "REPARTO": true, "OTROS": true, "ESTADIAS": true,
}

var tiposAnticipo = map[string]bool{
	"ANTICIPO": true, "GIRO": true,
}

// TipoValido validates the class-specific Tipo value.
func TipoValido(c Clase, tipo string) bool {
	switch c {
	case ClaseDeduccion:
		return tiposDeduccion[tipo]
	case ClaseAnticipo:
		return tiposAnticipo[tipo]
	default:
		return true
	}
}
