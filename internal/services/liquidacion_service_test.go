package services

import (
	"testing"

	"liquidaciones/internal/calculo"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var columnasLiquidacion = []string{
	"id", "folio_liquidacion", "cliente",
	"no_unidad", "tipo_unidad", "u_placas", "operador",
	"fecha_inicio", "fecha_fin", "fecha_llegada",
	"kilometros_recorridos", "rendimiento_real", "rendimiento_tabulado",
	"diesel_a_favor", "diesel_en_contra",
	"comision_porcentaje", "comision_estimada", "comision_pagada",
	"ajuste_manual", "motivo_ajuste",
	"total_costo_fletes", "total_combustible", "total_casetas", "total_gastos_varios", "total_deducciones_comerciales",
	"total_bruto", "total_neto_sugerido", "total_neto_pagar", "utilidad_viaje",
	"total_modificado_manualmente", "usuario_modificador_id", "fecha_modificacion_total",
	"estado",
	"usuario_creador_id", "usuario_editor_id", "usuario_aprobador_id", "usuario_pagador_id",
	"fecha_pago", "created_at", "updated_at",
}

// filaLiquidacion arma una fila con montos como texto, igual que llegan los
// DECIMAL de MySQL.
func filaLiquidacion(estado string) *sqlmock.Rows {
	return sqlmock.NewRows(columnasLiquidacion).AddRow(
		int64(7), "LIQ-2026-007", "Cliente SA",
		"U-12", "TRACTOCAMION", "ABC-123", "Juan Pérez",
		"2026-08-01", "2026-08-05", "2026-08-05",
		"1200.00", nil, "2.50",
		"500.00", "0.00",
		"18.00", "2160.00", nil,
		"0.00", "",
		"$20,000.00", "8000.00", "1500.00", "300.00", "0.00",
		"2660.00", nil, "660.00", "7840.00",
		false, nil, "",
		estado,
		int64(1), nil, nil, nil,
		"", "2026-08-05 10:00:00", "2026-08-05 10:00:00",
	)
}

func expectGetLiquidacion(mock sqlmock.Sqlmock, estado string) {
	mock.ExpectQuery("FROM liquidaciones WHERE id").
		WillReturnRows(filaLiquidacion(estado))
	mock.ExpectQuery("FROM anticipos WHERE liquidacion_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "liquidacion_id", "monto", "tipo", "concepto"}).
			AddRow(int64(1), int64(7), "2,000.00", "ANTICIPO", "efectivo"))
}

func nuevoMock(t *testing.T) (sqlmock.Sqlmock, LiquidacionService, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	svc := LiquidacionService{DB: db}
	return mock, svc, func() { db.Close() }
}

func TestGetParseaMontosDeTexto(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")

	liq, err := svc.Get(7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if liq.TotalCostoFletes != 20000 {
		t.Fatalf("fletes con $ y comas debió parsear a 20000, fue %v", liq.TotalCostoFletes)
	}
	if liq.ComisionPagada != nil {
		t.Fatal("comision_pagada NULL debió quedar nil")
	}
	if len(liq.Anticipos) != 1 || liq.Anticipos[0].Monto != 2000 {
		t.Fatalf("anticipos mal cargados: %+v", liq.Anticipos)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAplicarAjusteRechazaRolSinPermiso(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")

	_, err := svc.AplicarAjuste(7,
		calculo.AjusteParametros{RendimientoTabulado: 2.5, ComisionPorcentaje: 18},
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 2, Role: domain.RolCapturista},
	)
	if !domain.IsPermission(err) {
		t.Fatalf("capturista debió ser rechazado, err=%v", err)
	}
}

func TestAplicarAjusteRequiereEstadoAprobada(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "BORRADOR")

	_, err := svc.AplicarAjuste(7,
		calculo.AjusteParametros{RendimientoTabulado: 2.5, ComisionPorcentaje: 18},
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 2, Role: domain.RolDirector},
	)
	if !domain.IsPermission(err) {
		t.Fatalf("borrador no se ajusta, err=%v", err)
	}
}

func TestAplicarAjustePersisteTotalesRecalculados(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")
	// base 12000, 20% = 2400; bruto 2400+500-300 = 2600
	mock.ExpectExec("UPDATE liquidaciones SET\\s+rendimiento_tabulado").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetLiquidacion(mock, "APROBADA")

	_, err := svc.AplicarAjuste(7,
		calculo.AjusteParametros{RendimientoTabulado: 2.5, ComisionPorcentaje: 20, AjusteManual: 300, MotivoAjuste: "daño a caja"},
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 2, Role: domain.RolDirector},
	)
	if err != nil {
		t.Fatalf("AplicarAjuste: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAplicarAjusteDetectaConcurrencia(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")
	mock.ExpectExec("UPDATE liquidaciones SET\\s+rendimiento_tabulado").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM liquidaciones WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))

	_, err := svc.AplicarAjuste(7,
		calculo.AjusteParametros{RendimientoTabulado: 2.5, ComisionPorcentaje: 18},
		"2026-08-05 09:00:00",
		domain.RequestContext{UserID: 2, Role: domain.RolDirector},
	)
	if !domain.IsStale(err) {
		t.Fatalf("updated_at viejo debió dar StaleError, err=%v", err)
	}
}

func TestModificarTotalPreservaSugeridoUnaVez(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")
	// El IF en SQL captura el sugerido solo en la primera sobrescritura.
	mock.ExpectExec("total_neto_sugerido = IF\\(total_modificado_manualmente").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetLiquidacion(mock, "APROBADA")

	_, err := svc.ModificarTotal(7,
		calculo.ModificacionTotal{NuevoTotal: 700},
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 3, Role: domain.RolSistemas},
	)
	if err != nil {
		t.Fatalf("ModificarTotal: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestModificarTotalRechazaNegativo(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "APROBADA")

	_, err := svc.ModificarTotal(7,
		calculo.ModificacionTotal{NuevoTotal: -100},
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 3, Role: domain.RolDirector},
	)
	if !domain.IsValidation(err) {
		t.Fatalf("total negativo tecleado debió rechazarse, err=%v", err)
	}
}

func TestActualizarDatosExigeDieselExcluyente(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "BORRADOR")

	liq := models.Liquidacion{ID: 7, FolioLiquidacion: "LIQ-2026-007", Operador: "Juan Pérez", DieselAFavor: 300, DieselEnContra: 150}
	_, err := svc.ActualizarDatos(liq, domain.RequestContext{UserID: 1, Role: domain.RolCapturista})
	if !domain.IsValidation(err) {
		t.Fatalf("diesel a favor y en contra a la vez debió rechazarse, err=%v", err)
	}
}

func TestCambiarEstadoValidaTransicion(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "BORRADOR")

	_, err := svc.CambiarEstado(7, domain.EstadoPagada,
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 1, Role: domain.RolSistemas},
	)
	if !domain.IsValidation(err) {
		t.Fatalf("BORRADOR -> PAGADA debió rechazarse, err=%v", err)
	}
}

func TestCambiarEstadoAprobar(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "EN_REVISION")
	mock.ExpectExec("UPDATE liquidaciones SET estado=.+usuario_aprobador_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetLiquidacion(mock, "APROBADA")

	liq, err := svc.CambiarEstado(7, domain.EstadoAprobada,
		"2026-08-05 10:00:00",
		domain.RequestContext{UserID: 4, Role: domain.RolDirector},
	)
	if err != nil {
		t.Fatalf("CambiarEstado: %v", err)
	}
	if liq.Estado != domain.EstadoAprobada {
		t.Fatalf("estado esperado APROBADA, fue %s", liq.Estado)
	}
}

func TestRecalcularSumaTablasDeMovimientos(t *testing.T) {
	mock, svc, cierra := nuevoMock(t)
	defer cierra()

	expectGetLiquidacion(mock, "BORRADOR")
	for _, tabla := range []string{"costos_fletes", "gastos_combustible", "gastos_caseta", "gastos_varios", "deducciones", "anticipos"} {
		mock.ExpectQuery("SUM\\(monto\\).+FROM " + tabla).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("100.00"))
	}
	mock.ExpectExec("UPDATE liquidaciones SET\\s+total_costo_fletes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetLiquidacion(mock, "BORRADOR")

	if _, err := svc.Recalcular(7); err != nil {
		t.Fatalf("Recalcular: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
