package repositories

import (
	"database/sql"

	intconfig "liquidaciones/internal/config"
	intdb "liquidaciones/internal/db"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/utils"
)

// MovimientoRepository covers the six movement tables with one generic layer.
// Each class has its own table but they share id, liquidacion_id and monto,
// which is all the recompute needs.
type MovimientoRepository struct {
	DB *sql.DB
}

func (r MovimientoRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

type tablaMovimiento struct {
	nombre string
	extras []string
}

var tablasPorClase = map[models.Clase]tablaMovimiento{
	models.ClaseFlete:       {nombre: "costos_fletes", extras: []string{"concepto", "observaciones"}},
	models.ClaseCombustible: {nombre: "gastos_combustible", extras: []string{"litros", "precio_litro", "metodo_pago"}},
	models.ClaseCaseta:      {nombre: "gastos_caseta", extras: []string{"concepto"}},
	models.ClaseVario:       {nombre: "gastos_varios", extras: []string{"concepto", "observaciones"}},
	models.ClaseDeduccion:   {nombre: "deducciones", extras: []string{"tipo", "concepto"}},
	models.ClaseAnticipo:    {nombre: "anticipos", extras: []string{"tipo", "concepto"}},
}

func tabla(clase models.Clase) (tablaMovimiento, error) {
	t, ok := tablasPorClase[clase]
	if !ok {
		return t, domain.ValidationError{Field: "clase", Msg: "clase de movimiento desconocida"}
	}
	return t, nil
}

func (t tablaMovimiento) selectCols() string {
	cols := "id, liquidacion_id, monto"
	for _, c := range t.extras {
		switch c {
		case "litros", "precio_litro":
			cols += ", " + c
		default:
			cols += ", COALESCE(" + c + ",'')"
		}
	}
	return cols
}

func (t tablaMovimiento) valores(m models.Movimiento) []any {
	vals := []any{}
	for _, c := range t.extras {
		switch c {
		case "litros":
			vals = append(vals, m.Litros)
		case "precio_litro":
			vals = append(vals, m.PrecioLitro)
		case "metodo_pago":
			vals = append(vals, intdb.NullIfEmpty(m.MetodoPago))
		case "tipo":
			vals = append(vals, m.Tipo)
		case "concepto":
			vals = append(vals, intdb.NullIfEmpty(m.Concepto))
		case "observaciones":
			vals = append(vals, intdb.NullIfEmpty(m.Observaciones))
		}
	}
	return vals
}

func (t tablaMovimiento) scan(row interface{ Scan(...any) error }, clase models.Clase) (models.Movimiento, error) {
	m := models.Movimiento{Clase: clase}

	var monto sql.NullString
	dests := []any{&m.ID, &m.LiquidacionID, &monto}
	for _, c := range t.extras {
		switch c {
		case "litros":
			dests = append(dests, &m.Litros)
		case "precio_litro":
			dests = append(dests, &m.PrecioLitro)
		case "metodo_pago":
			dests = append(dests, &m.MetodoPago)
		case "tipo":
			dests = append(dests, &m.Tipo)
		case "concepto":
			dests = append(dests, &m.Concepto)
		case "observaciones":
			dests = append(dests, &m.Observaciones)
		}
	}

	if err := row.Scan(dests...); err != nil {
		return m, err
	}

	v, err := utils.ParseMonto(monto.String)
	if err != nil {
		return m, domain.InternalError{Msg: "monto corrupto en movimiento", Err: err}
	}
	m.Monto = v
	return m, nil
}

// ListByLiquidacion returns all movements of one class for a settlement.
func (r MovimientoRepository) ListByLiquidacion(liquidacionID int64, clase models.Clase) ([]models.Movimiento, error) {
	t, err := tabla(clase)
	if err != nil {
		return nil, err
	}

	rows, err := r.db().Query(
		`SELECT `+t.selectCols()+` FROM `+t.nombre+` WHERE liquidacion_id = ? ORDER BY id ASC`,
		liquidacionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Movimiento{}
	for rows.Next() {
		m, err := t.scan(rows, clase)
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Insert adds one movement and returns its id.
func (r MovimientoRepository) Insert(m models.Movimiento) (int64, error) {
	t, err := tabla(m.Clase)
	if err != nil {
		return 0, err
	}

	cols := "liquidacion_id, monto"
	marks := "?,?"
	args := []any{m.LiquidacionID, m.Monto}
	for _, c := range t.extras {
		cols += ", " + c
		marks += ",?"
	}
	args = append(args, t.valores(m)...)

	res, err := r.db().Exec(
		`INSERT INTO `+t.nombre+` (`+cols+`) VALUES (`+marks+`)`,
		args...,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites one movement in place. The liquidacion_id guard keeps a
// movement from being reassigned to another settlement by a stale client.
func (r MovimientoRepository) Update(m models.Movimiento) error {
	t, err := tabla(m.Clase)
	if err != nil {
		return err
	}

	set := "monto=?"
	args := []any{m.Monto}
	for _, c := range t.extras {
		set += ", " + c + "=?"
	}
	args = append(args, t.valores(m)...)
	args = append(args, m.ID, m.LiquidacionID)

	res, err := r.db().Exec(
		`UPDATE `+t.nombre+` SET `+set+` WHERE id=? AND liquidacion_id=?`,
		args...,
	)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return domain.NotFoundError{Resource: "movimiento"}
	}
	return nil
}

// Delete removes one movement.
func (r MovimientoRepository) Delete(clase models.Clase, liquidacionID, id int64) error {
	t, err := tabla(clase)
	if err != nil {
		return err
	}

	res, err := r.db().Exec(
		`DELETE FROM `+t.nombre+` WHERE id=? AND liquidacion_id=?`,
		id, liquidacionID,
	)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return domain.NotFoundError{Resource: "movimiento"}
	}
	return nil
}

// Sum totals one class for a settlement. Empty tables sum to zero.
func (r MovimientoRepository) Sum(liquidacionID int64, clase models.Clase) (float64, error) {
	t, err := tabla(clase)
	if err != nil {
		return 0, err
	}

	var total sql.NullString
	err = r.db().QueryRow(
		`SELECT COALESCE(SUM(monto),0) FROM `+t.nombre+` WHERE liquidacion_id = ?`,
		liquidacionID,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return utils.ParseMonto(total.String)
}

// Sumas totals every expense class in one pass, for the recompute after a
// movement changes.
func (r MovimientoRepository) Sumas(liquidacionID int64) (map[models.Clase]float64, error) {
	out := map[models.Clase]float64{}
	for clase := range tablasPorClase {
		s, err := r.Sum(liquidacionID, clase)
		if err != nil {
			return nil, err
		}
		out[clase] = s
	}
	return out, nil
}
