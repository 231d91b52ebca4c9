package calculo

import "liquidaciones/internal/domain"

// transiciones válidas del ciclo de vida. EN_REVISION y APROBADA son
// reversibles (rechazar / reabrir); CANCELADA se alcanza desde cualquier
// estado no pagado.
var transiciones = map[domain.Estado][]domain.Estado{
	domain.EstadoBorrador:   {domain.EstadoEnRevision, domain.EstadoCancelada},
	domain.EstadoEnRevision: {domain.EstadoAprobada, domain.EstadoBorrador, domain.EstadoCancelada},
	domain.EstadoAprobada:   {domain.EstadoPagada, domain.EstadoEnRevision, domain.EstadoCancelada},
	domain.EstadoPagada:     {},
	domain.EstadoCancelada:  {},
}

// PuedeTransicion reports whether the lifecycle allows moving de → a.
func PuedeTransicion(de, a domain.Estado) bool {
	for _, s := range transiciones[de] {
		if s == a {
			return true
		}
	}
	return false
}

// AutorizarTransicion checks both the lifecycle edge and the role allowed to
// take it. The computation core never performs the transition itself.
func AutorizarTransicion(de, a domain.Estado, rol domain.Rol) error {
	if !domain.EstadoValido(a) {
		return domain.ValidationError{Field: "estado", Msg: "estado desconocido"}
	}
	if !PuedeTransicion(de, a) {
		return domain.ValidationError{Field: "estado", Msg: string(de) + " no puede pasar a " + string(a)}
	}

	switch a {
	case domain.EstadoCancelada:
		if rol != domain.RolSistemas {
			return domain.PermissionError{Msg: "solo SISTEMAS puede cancelar una liquidación"}
		}
	case domain.EstadoAprobada, domain.EstadoPagada:
		if !rolesAjuste[rol] {
			return domain.PermissionError{Msg: "tu rol no permite aprobar o pagar liquidaciones"}
		}
	}
	return nil
}

// PuedeEditar mirrors the capture-screen rule: capturistas work on settlements
// that are still open; SISTEMAS can always intervene.
func PuedeEditar(estado domain.Estado, rol domain.Rol) bool {
	if rol == domain.RolSistemas {
		return true
	}
	switch estado {
	case domain.EstadoAprobada, domain.EstadoPagada, domain.EstadoCancelada:
		return false
	}
	return rol == domain.RolCapturista || rol == domain.RolAdmin || rol == domain.RolDirector
}
