package repositories

import (
	"database/sql"
	"strings"

	"liquidaciones/internal/calculo"
	intconfig "liquidaciones/internal/config"
	intdb "liquidaciones/internal/db"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/utils"
)

// LiquidacionRepository reads and writes the liquidaciones table. Los montos
// son DECIMAL en MySQL; se escanean como texto y pasan por utils.ParseMonto
// una sola vez, aquí.
type LiquidacionRepository struct {
	DB *sql.DB
}

func (r LiquidacionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const liquidacionColumns = `
	id, folio_liquidacion, cliente,
	no_unidad, tipo_unidad, u_placas, operador,
	COALESCE(fecha_inicio,''), COALESCE(fecha_fin,''), COALESCE(fecha_llegada,''),
	kilometros_recorridos, rendimiento_real, rendimiento_tabulado,
	diesel_a_favor, diesel_en_contra,
	comision_porcentaje, comision_estimada, comision_pagada,
	ajuste_manual, COALESCE(motivo_ajuste,''),
	total_costo_fletes, total_combustible, total_casetas, total_gastos_varios, total_deducciones_comerciales,
	total_bruto, total_neto_sugerido, total_neto_pagar, utilidad_viaje,
	total_modificado_manualmente, usuario_modificador_id,
	COALESCE(DATE_FORMAT(fecha_modificacion_total,'%Y-%m-%d %H:%i:%s'),''),
	estado,
	usuario_creador_id, usuario_editor_id, usuario_aprobador_id, usuario_pagador_id,
	COALESCE(DATE_FORMAT(fecha_pago,'%Y-%m-%d %H:%i:%s'),''),
	COALESCE(DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s'),''),
	COALESCE(DATE_FORMAT(updated_at,'%Y-%m-%d %H:%i:%s'),'')`

func scanLiquidacion(row interface{ Scan(...any) error }) (models.Liquidacion, error) {
	var (
		liq models.Liquidacion

		kilometros, rendTab, dieselFavor, dieselContra    sql.NullString
		rendReal, comisionPagada, netoSugerido            sql.NullString
		comisionPct, comisionEst, ajuste                  sql.NullString
		fletes, combustible, casetas, varios, deducciones sql.NullString
		bruto, netoPagar, utilidad                        sql.NullString
		usuarioModificador, editor, aprobador, pagador    sql.NullInt64
		estado                                            string
	)

	err := row.Scan(
		&liq.ID, &liq.FolioLiquidacion, &liq.Cliente,
		&liq.UnidadNo, &liq.UnidadTipo, &liq.UnidadPlacas, &liq.Operador,
		&liq.FechaInicio, &liq.FechaFin, &liq.FechaLlegada,
		&kilometros, &rendReal, &rendTab,
		&dieselFavor, &dieselContra,
		&comisionPct, &comisionEst, &comisionPagada,
		&ajuste, &liq.MotivoAjuste,
		&fletes, &combustible, &casetas, &varios, &deducciones,
		&bruto, &netoSugerido, &netoPagar, &utilidad,
		&liq.TotalModificadoManualmente, &usuarioModificador,
		&liq.FechaModificacionTotal,
		&estado,
		&liq.UsuarioCreadorID, &editor, &aprobador, &pagador,
		&liq.FechaPago,
		&liq.CreatedAt, &liq.UpdatedAt,
	)
	if err != nil {
		return liq, err
	}

	liq.Estado = domain.Estado(estado)
	liq.UsuarioModificadorID = nullInt(usuarioModificador)
	liq.UsuarioEditorID = nullInt(editor)
	liq.UsuarioAprobadorID = nullInt(aprobador)
	liq.UsuarioPagadorID = nullInt(pagador)

	for _, field := range []struct {
		dst *float64
		src sql.NullString
	}{
		{&liq.KilometrosRecorridos, kilometros},
		{&liq.RendimientoTabulado, rendTab},
		{&liq.DieselAFavor, dieselFavor},
		{&liq.DieselEnContra, dieselContra},
		{&liq.ComisionPorcentaje, comisionPct},
		{&liq.ComisionEstimada, comisionEst},
		{&liq.AjusteManual, ajuste},
		{&liq.TotalCostoFletes, fletes},
		{&liq.TotalCombustible, combustible},
		{&liq.TotalCasetas, casetas},
		{&liq.TotalGastosVarios, varios},
		{&liq.TotalDeduccionesComerciales, deducciones},
		{&liq.TotalBruto, bruto},
		{&liq.TotalNetoPagar, netoPagar},
		{&liq.UtilidadViaje, utilidad},
	} {
		v, err := utils.ParseMonto(field.src.String)
		if err != nil {
			return liq, domain.InternalError{Msg: "monto corrupto en liquidación", Err: err}
		}
		*field.dst = v
	}

	liq.RendimientoReal, err = montoPtr(rendReal)
	if err != nil {
		return liq, err
	}
	liq.ComisionPagada, err = montoPtr(comisionPagada)
	if err != nil {
		return liq, err
	}
	liq.TotalNetoSugerido, err = montoPtr(netoSugerido)
	if err != nil {
		return liq, err
	}

	return liq, nil
}

func montoPtr(ns sql.NullString) (*float64, error) {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil, nil
	}
	v, err := utils.ParseMonto(ns.String)
	if err != nil {
		return nil, domain.InternalError{Msg: "monto corrupto en liquidación", Err: err}
	}
	return &v, nil
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// GetByID loads one settlement with its advances.
func (r LiquidacionRepository) GetByID(id int64) (models.Liquidacion, error) {
	row := r.db().QueryRow(`SELECT `+liquidacionColumns+` FROM liquidaciones WHERE id = ?`, id)
	liq, err := scanLiquidacion(row)
	if err == sql.ErrNoRows {
		return liq, domain.NotFoundError{Resource: "liquidación"}
	}
	if err != nil {
		return liq, err
	}

	anticipos, err := MovimientoRepository{DB: r.DB}.ListByLiquidacion(id, models.ClaseAnticipo)
	if err != nil {
		return liq, err
	}
	liq.Anticipos = anticipos
	return liq, nil
}

// List returns settlements newest-first, optionally filtered by estado for the
// kanban columns.
func (r LiquidacionRepository) List(estado string) ([]models.Liquidacion, error) {
	query := `SELECT ` + liquidacionColumns + ` FROM liquidaciones`
	args := []any{}
	if estado = strings.TrimSpace(estado); estado != "" {
		query += ` WHERE estado = ?`
		args = append(args, strings.ToUpper(estado))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Liquidacion{}
	for rows.Next() {
		liq, err := scanLiquidacion(rows)
		if err != nil {
			return out, err
		}
		out = append(out, liq)
	}
	return out, rows.Err()
}

// Create inserts a new settlement in BORRADOR with the default commission for
// its unit type.
func (r LiquidacionRepository) Create(liq models.Liquidacion) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO liquidaciones (
			folio_liquidacion, cliente, no_unidad, tipo_unidad, u_placas, operador,
			fecha_inicio, fecha_fin, fecha_llegada,
			kilometros_recorridos, rendimiento_real, rendimiento_tabulado,
			comision_porcentaje, estado, usuario_creador_id,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
	`,
		liq.FolioLiquidacion, liq.Cliente, liq.UnidadNo, liq.UnidadTipo, liq.UnidadPlacas, liq.Operador,
		liq.FechaInicio, liq.FechaFin, liq.FechaLlegada,
		liq.KilometrosRecorridos, intdb.NullFloat(liq.RendimientoReal), liq.RendimientoTabulado,
		liq.ComisionPorcentaje, string(domain.EstadoBorrador), liq.UsuarioCreadorID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateDatos updates the capture fields (trip facts), never the computed
// totals.
func (r LiquidacionRepository) UpdateDatos(liq models.Liquidacion, editorID int64) error {
	res, err := r.db().Exec(`
		UPDATE liquidaciones SET
			folio_liquidacion=?, cliente=?, no_unidad=?, tipo_unidad=?, u_placas=?, operador=?,
			fecha_inicio=?, fecha_fin=?, fecha_llegada=?,
			kilometros_recorridos=?, rendimiento_real=?, rendimiento_tabulado=?,
			diesel_a_favor=?, diesel_en_contra=?,
			usuario_editor_id=?, updated_at=NOW()
		WHERE id=?
	`,
		liq.FolioLiquidacion, liq.Cliente, liq.UnidadNo, liq.UnidadTipo, liq.UnidadPlacas, liq.Operador,
		liq.FechaInicio, liq.FechaFin, liq.FechaLlegada,
		liq.KilometrosRecorridos, intdb.NullFloat(liq.RendimientoReal), liq.RendimientoTabulado,
		liq.DieselAFavor, liq.DieselEnContra,
		editorID, liq.ID,
	)
	if err != nil {
		return err
	}
	return r.requireHit(res, liq.ID)
}

// AplicarAjuste persists the adjusted parameters together with the recomputed
// totals, guarded against concurrent edits by updated_at.
func (r LiquidacionRepository) AplicarAjuste(id int64, a calculo.AjusteParametros, tot calculo.Totales, editorID int64, vistoEn string) error {
	res, err := r.db().Exec(`
		UPDATE liquidaciones SET
			rendimiento_tabulado=?, comision_porcentaje=?, ajuste_manual=?, motivo_ajuste=?,
			comision_estimada=?, total_bruto=?, total_neto_pagar=?, utilidad_viaje=?,
			usuario_editor_id=?, updated_at=NOW()
		WHERE id=? AND updated_at=?
	`,
		a.RendimientoTabulado, a.ComisionPorcentaje, a.AjusteManual, intdb.NullIfEmpty(a.MotivoAjuste),
		tot.ComisionNominal, tot.TotalBruto, tot.TotalNeto, tot.UtilidadViaje,
		editorID, id, vistoEn,
	)
	if err != nil {
		return err
	}
	return r.requireFresh(res, id)
}

// ModificarTotal overrides the net payable directly. The system suggestion is
// preserved only on the first override so later diffs keep comparing against
// the original algorithmic value.
func (r LiquidacionRepository) ModificarTotal(id int64, nuevoTotal float64, userID int64, vistoEn string) error {
	res, err := r.db().Exec(`
		UPDATE liquidaciones SET
			total_neto_sugerido = IF(total_modificado_manualmente, total_neto_sugerido, total_neto_pagar),
			total_neto_pagar = ?,
			total_modificado_manualmente = 1,
			usuario_modificador_id = ?,
			fecha_modificacion_total = NOW(),
			updated_at = NOW()
		WHERE id=? AND updated_at=?
	`, nuevoTotal, userID, id, vistoEn)
	if err != nil {
		return err
	}
	return r.requireFresh(res, id)
}

// ActualizarTotales persists a recomputation after expense mutations.
func (r LiquidacionRepository) ActualizarTotales(id int64, sumas map[models.Clase]float64, tot calculo.Totales) error {
	_, err := r.db().Exec(`
		UPDATE liquidaciones SET
			total_costo_fletes=?, total_combustible=?, total_casetas=?, total_gastos_varios=?, total_deducciones_comerciales=?,
			comision_estimada=?, total_bruto=?, total_neto_pagar=?, utilidad_viaje=?,
			updated_at=NOW()
		WHERE id=?
	`,
		sumas[models.ClaseFlete], sumas[models.ClaseCombustible], sumas[models.ClaseCaseta],
		sumas[models.ClaseVario], sumas[models.ClaseDeduccion],
		tot.ComisionNominal, tot.TotalBruto, tot.TotalNeto, tot.UtilidadViaje,
		id,
	)
	return err
}

// CambiarEstado moves the lifecycle and stamps the matching audit column.
func (r LiquidacionRepository) CambiarEstado(id int64, nuevo domain.Estado, userID int64, vistoEn string) error {
	set := `estado=?, updated_at=NOW()`
	args := []any{string(nuevo)}
	switch nuevo {
	case domain.EstadoAprobada:
		set += `, usuario_aprobador_id=?`
		args = append(args, userID)
	case domain.EstadoPagada:
		set += `, usuario_pagador_id=?, fecha_pago=NOW()`
		args = append(args, userID)
	default:
		set += `, usuario_editor_id=?`
		args = append(args, userID)
	}
	args = append(args, id, vistoEn)

	res, err := r.db().Exec(`UPDATE liquidaciones SET `+set+` WHERE id=? AND updated_at=?`, args...)
	if err != nil {
		return err
	}
	return r.requireFresh(res, id)
}

func (r LiquidacionRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM liquidaciones WHERE id=?`, id)
	if err != nil {
		return err
	}
	return r.requireHit(res, id)
}

// requireHit maps zero affected rows to NotFound.
func (r LiquidacionRepository) requireHit(res sql.Result, id int64) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return domain.NotFoundError{Resource: "liquidación"}
	}
	return nil
}

// requireFresh distinguishes "row gone" from "row changed underneath us".
func (r LiquidacionRepository) requireFresh(res sql.Result, id int64) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff > 0 {
		return nil
	}

	var existe int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM liquidaciones WHERE id=?`, id).Scan(&existe); err != nil {
		return err
	}
	if existe == 0 {
		return domain.NotFoundError{Resource: "liquidación"}
	}
	return domain.StaleError{Resource: "liquidación"}
}
