package services

import (
	"database/sql"
	"math"
	"strconv"

	"liquidaciones/internal/calculo"
	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/repositories"
	"liquidaciones/internal/utils"
)

// MovimientoService handles the expense/advance lines of a settlement. Every
// mutation passes the edit gate of the parent and triggers a recompute so the
// stored totals always match the lines.
type MovimientoService struct {
	Repo            repositories.MovimientoRepository
	LiquidacionRepo repositories.LiquidacionRepository
	DB              *sql.DB
	RequestID       string
}

func (s MovimientoService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s MovimientoService) repo() repositories.MovimientoRepository {
	if s.Repo.DB == nil {
		return repositories.MovimientoRepository{DB: s.db()}
	}
	return s.Repo
}

func (s MovimientoService) liqService() LiquidacionService {
	return LiquidacionService{
		Repo:           s.liqRepo(),
		MovimientoRepo: s.repo(),
		DB:             s.db(),
		RequestID:      s.RequestID,
	}
}

func (s MovimientoService) liqRepo() repositories.LiquidacionRepository {
	if s.LiquidacionRepo.DB == nil {
		return repositories.LiquidacionRepository{DB: s.db()}
	}
	return s.LiquidacionRepo
}

func validarMovimiento(m models.Movimiento) error {
	if !models.ClaseValida(m.Clase) {
		return domain.ValidationError{Field: "clase", Msg: "clase de movimiento desconocida"}
	}
	if math.IsNaN(m.Monto) || math.IsInf(m.Monto, 0) {
		return domain.ValidationError{Field: "monto", Msg: "ingresa un monto válido"}
	}
	if m.Monto < 0 {
		return domain.ValidationError{Field: "monto", Msg: "el monto no puede ser negativo"}
	}
	if !models.TipoValido(m.Clase, m.Tipo) {
		return domain.ValidationError{Field: "tipo", Msg: "tipo no válido para " + string(m.Clase)}
	}
	if m.Clase == models.ClaseCombustible && m.Litros < 0 {
		return domain.ValidationError{Field: "litros", Msg: "los litros no pueden ser negativos"}
	}
	return nil
}

// abrirParaEdicion loads the parent and enforces the edit gate.
func (s MovimientoService) abrirParaEdicion(liquidacionID int64, rol domain.Rol) error {
	liq, err := s.liqRepo().GetByID(liquidacionID)
	if err != nil {
		return err
	}
	if !calculo.PuedeEditar(liq.Estado, rol) {
		return domain.PermissionError{Msg: "la liquidación ya no es editable en estado " + string(liq.Estado)}
	}
	return nil
}

// Listar returns the lines of one class.
func (s MovimientoService) Listar(liquidacionID int64, clase models.Clase) ([]models.Movimiento, error) {
	if !models.ClaseValida(clase) {
		return nil, domain.ValidationError{Field: "clase", Msg: "clase de movimiento desconocida"}
	}
	return s.repo().ListByLiquidacion(liquidacionID, clase)
}

// Agregar inserts a line and returns the recomputed settlement.
func (s MovimientoService) Agregar(m models.Movimiento, ctx domain.RequestContext) (models.Liquidacion, error) {
	if err := validarMovimiento(m); err != nil {
		return models.Liquidacion{}, err
	}
	if err := s.abrirParaEdicion(m.LiquidacionID, ctx.Role); err != nil {
		return models.Liquidacion{}, err
	}

	id, err := s.repo().Insert(m)
	if err != nil {
		return models.Liquidacion{}, err
	}
	utils.LogEvent(s.RequestID, "movimientos", "agregar",
		string(m.Clase)+" id="+strconv.FormatInt(id, 10)+" liq="+strconv.FormatInt(m.LiquidacionID, 10))
	return s.liqService().Recalcular(m.LiquidacionID)
}

// Actualizar rewrites a line and returns the recomputed settlement.
func (s MovimientoService) Actualizar(m models.Movimiento, ctx domain.RequestContext) (models.Liquidacion, error) {
	if err := validarMovimiento(m); err != nil {
		return models.Liquidacion{}, err
	}
	if err := s.abrirParaEdicion(m.LiquidacionID, ctx.Role); err != nil {
		return models.Liquidacion{}, err
	}

	if err := s.repo().Update(m); err != nil {
		return models.Liquidacion{}, err
	}
	utils.LogEvent(s.RequestID, "movimientos", "actualizar",
		string(m.Clase)+" id="+strconv.FormatInt(m.ID, 10))
	return s.liqService().Recalcular(m.LiquidacionID)
}

// Eliminar removes a line and returns the recomputed settlement.
func (s MovimientoService) Eliminar(clase models.Clase, liquidacionID, id int64, ctx domain.RequestContext) (models.Liquidacion, error) {
	if !models.ClaseValida(clase) {
		return models.Liquidacion{}, domain.ValidationError{Field: "clase", Msg: "clase de movimiento desconocida"}
	}
	if err := s.abrirParaEdicion(liquidacionID, ctx.Role); err != nil {
		return models.Liquidacion{}, err
	}

	if err := s.repo().Delete(clase, liquidacionID, id); err != nil {
		return models.Liquidacion{}, err
	}
	utils.LogEvent(s.RequestID, "movimientos", "eliminar",
		string(clase)+" id="+strconv.FormatInt(id, 10))
	return s.liqService().Recalcular(liquidacionID)
}
