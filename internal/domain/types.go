package domain

// ID is used across domain entities.
type ID int64

// Rol identifies what an authenticated user may do.
type Rol string

const (
	RolCapturista Rol = "CAPTURISTA"
	RolAdmin      Rol = "ADMIN"
	RolDirector   Rol = "DIRECTOR"
	RolSistemas   Rol = "SISTEMAS"
)

// Estado is the lifecycle state of a liquidación. It is mutated only through
// explicit transition actions, never by the computation core.
type Estado string

const (
	EstadoBorrador   Estado = "BORRADOR"
	EstadoEnRevision Estado = "EN_REVISION"
	EstadoAprobada   Estado = "APROBADA"
	EstadoPagada     Estado = "PAGADA"
	EstadoCancelada  Estado = "CANCELADA"
)

// EstadoValido reports whether s is one of the known lifecycle states.
func EstadoValido(s Estado) bool {
	switch s {
	case EstadoBorrador, EstadoEnRevision, EstadoAprobada, EstadoPagada, EstadoCancelada:
		return true
	}
	return false
}

// RequestContext carries authenticated user info when available. The role is
// passed explicitly into every policy check so nothing reads ambient session
// state.
type RequestContext struct {
	UserID ID  `json:"userId"`
	Role   Rol `json:"role"`
}
