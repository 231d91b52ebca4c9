package calculo

import (
	"testing"

	"liquidaciones/internal/domain"
)

func TestTransicionesDeEstado(t *testing.T) {
	permitidas := [][2]domain.Estado{
		{domain.EstadoBorrador, domain.EstadoEnRevision},
		{domain.EstadoEnRevision, domain.EstadoAprobada},
		{domain.EstadoAprobada, domain.EstadoEnRevision}, // reabrir
		{domain.EstadoEnRevision, domain.EstadoBorrador}, // rechazar
		{domain.EstadoAprobada, domain.EstadoPagada},
		{domain.EstadoBorrador, domain.EstadoCancelada},
		{domain.EstadoEnRevision, domain.EstadoCancelada},
		{domain.EstadoAprobada, domain.EstadoCancelada},
	}
	for _, p := range permitidas {
		if !PuedeTransicion(p[0], p[1]) {
			t.Fatalf("%s -> %s debería permitirse", p[0], p[1])
		}
	}

	prohibidas := [][2]domain.Estado{
		{domain.EstadoBorrador, domain.EstadoAprobada},
		{domain.EstadoBorrador, domain.EstadoPagada},
		{domain.EstadoPagada, domain.EstadoCancelada},
		{domain.EstadoPagada, domain.EstadoAprobada},
		{domain.EstadoCancelada, domain.EstadoBorrador},
	}
	for _, p := range prohibidas {
		if PuedeTransicion(p[0], p[1]) {
			t.Fatalf("%s -> %s no debería permitirse", p[0], p[1])
		}
	}
}

func TestAutorizarTransicion(t *testing.T) {
	if err := AutorizarTransicion(domain.EstadoAprobada, domain.EstadoCancelada, domain.RolDirector); err == nil {
		t.Fatal("cancelar requiere SISTEMAS")
	}
	if err := AutorizarTransicion(domain.EstadoAprobada, domain.EstadoCancelada, domain.RolSistemas); err != nil {
		t.Fatalf("SISTEMAS puede cancelar: %v", err)
	}
	if err := AutorizarTransicion(domain.EstadoEnRevision, domain.EstadoAprobada, domain.RolCapturista); err == nil {
		t.Fatal("capturista no aprueba")
	}
	if err := AutorizarTransicion(domain.EstadoEnRevision, domain.EstadoAprobada, domain.RolDirector); err != nil {
		t.Fatalf("director aprueba: %v", err)
	}
	if err := AutorizarTransicion(domain.EstadoBorrador, "RARA", domain.RolSistemas); err == nil {
		t.Fatal("estado desconocido debe fallar validación")
	}
}

func TestPuedeEditar(t *testing.T) {
	if !PuedeEditar(domain.EstadoBorrador, domain.RolCapturista) {
		t.Fatal("capturista edita borradores")
	}
	if PuedeEditar(domain.EstadoAprobada, domain.RolCapturista) {
		t.Fatal("aprobada está bloqueada para capturista")
	}
	if !PuedeEditar(domain.EstadoPagada, domain.RolSistemas) {
		t.Fatal("SISTEMAS siempre puede intervenir")
	}
}
