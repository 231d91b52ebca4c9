package services

import (
	"database/sql"
	"strconv"
	"strings"

	"liquidaciones/internal/calculo"
	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/repositories"
	"liquidaciones/internal/utils"
)

// LiquidacionService orquesta las reglas sobre liquidaciones: lecturas,
// captura, los dos caminos de corrección y el ciclo de vida. Toda la
// aritmética vive en el paquete calculo; aquí solo se autoriza, se valida y
// se persiste.
type LiquidacionService struct {
	Repo           repositories.LiquidacionRepository
	MovimientoRepo repositories.MovimientoRepository
	DB             *sql.DB
	RequestID      string
}

func (s LiquidacionService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s LiquidacionService) repo() repositories.LiquidacionRepository {
	if s.Repo.DB == nil {
		return repositories.LiquidacionRepository{DB: s.db()}
	}
	return s.Repo
}

func (s LiquidacionService) movRepo() repositories.MovimientoRepository {
	if s.MovimientoRepo.DB == nil {
		return repositories.MovimientoRepository{DB: s.db()}
	}
	return s.MovimientoRepo
}

// Get returns the settlement snapshot with its advances loaded.
func (s LiquidacionService) Get(id int64) (models.Liquidacion, error) {
	return s.repo().GetByID(id)
}

// List returns settlements, optionally filtered by estado.
func (s LiquidacionService) List(estado string) ([]models.Liquidacion, error) {
	return s.repo().List(estado)
}

// Crear registers a new settlement in BORRADOR. The commission percentage
// defaults from the unit type when the capturista leaves it at zero.
func (s LiquidacionService) Crear(liq models.Liquidacion, ctx domain.RequestContext) (models.Liquidacion, error) {
	if strings.TrimSpace(liq.FolioLiquidacion) == "" {
		return liq, domain.ValidationError{Field: "folio_liquidacion", Msg: "el folio es obligatorio"}
	}
	if strings.TrimSpace(liq.Operador) == "" {
		return liq, domain.ValidationError{Field: "operador", Msg: "el operador es obligatorio"}
	}
	if liq.ComisionPorcentaje == 0 {
		liq.ComisionPorcentaje = models.ComisionDefaultUnidad(liq.UnidadTipo)
	}
	if liq.ComisionPorcentaje < 0 || liq.ComisionPorcentaje > 100 {
		return liq, domain.ValidationError{Field: "comision_porcentaje", Msg: "debe estar entre 0 y 100"}
	}
	liq.UsuarioCreadorID = int64(ctx.UserID)

	id, err := s.repo().Create(liq)
	if err != nil {
		return liq, err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "crear", "id="+strconv.FormatInt(id, 10)+" folio="+liq.FolioLiquidacion)
	return s.repo().GetByID(id)
}

// ActualizarDatos edits the capture fields of an open settlement.
func (s LiquidacionService) ActualizarDatos(liq models.Liquidacion, ctx domain.RequestContext) (models.Liquidacion, error) {
	actual, err := s.repo().GetByID(liq.ID)
	if err != nil {
		return liq, err
	}
	if !calculo.PuedeEditar(actual.Estado, ctx.Role) {
		return liq, domain.PermissionError{Msg: "la liquidación ya no es editable en estado " + string(actual.Estado)}
	}
	if liq.DieselAFavor < 0 || liq.DieselEnContra < 0 {
		return liq, domain.ValidationError{Field: "diesel", Msg: "los montos de diesel no pueden ser negativos"}
	}
	// El operador ahorró diesel o lo excedió, nunca ambos.
	if liq.DieselAFavor > 0 && liq.DieselEnContra > 0 {
		return liq, domain.ValidationError{Field: "diesel", Msg: "diesel a favor y en contra son excluyentes"}
	}
	if liq.RendimientoTabulado < 0 {
		return liq, domain.ValidationError{Field: "rendimiento_tabulado", Msg: "no puede ser negativo"}
	}

	if err := s.repo().UpdateDatos(liq, int64(ctx.UserID)); err != nil {
		return liq, err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "actualizar", "id="+strconv.FormatInt(liq.ID, 10))
	return s.Recalcular(liq.ID)
}

// Eliminar removes a settlement. Only drafts go away; anything further along
// is history and gets cancelled instead.
func (s LiquidacionService) Eliminar(id int64, ctx domain.RequestContext) error {
	actual, err := s.repo().GetByID(id)
	if err != nil {
		return err
	}
	if actual.Estado != domain.EstadoBorrador && ctx.Role != domain.RolSistemas {
		return domain.PermissionError{Msg: "solo se eliminan borradores; usa cancelar"}
	}
	if err := s.repo().Delete(id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "eliminar", "id="+strconv.FormatInt(id, 10))
	return nil
}

// Preview computes what the totals would be under the proposed parameters
// without persisting anything. It is the same function the apply path uses.
func (s LiquidacionService) Preview(id int64, p calculo.Propuesta) (calculo.Totales, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return calculo.Totales{}, err
	}
	return calculo.CalcularTotales(liq, p), nil
}

// AplicarAjuste runs the parameter-override path: gate, validate, recompute
// with the new parameters and persist totals and parameters together.
func (s LiquidacionService) AplicarAjuste(id int64, a calculo.AjusteParametros, vistoEn string, ctx domain.RequestContext) (models.Liquidacion, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return liq, err
	}
	if err := calculo.AutorizarAjuste(liq.Estado, ctx.Role); err != nil {
		return liq, err
	}
	if err := a.Validar(); err != nil {
		return liq, err
	}

	tot := calculo.CalcularTotales(liq, calculo.Propuesta{
		RendimientoTabulado: &a.RendimientoTabulado,
		ComisionPorcentaje:  &a.ComisionPorcentaje,
		AjusteManual:        &a.AjusteManual,
	})

	if err := s.repo().AplicarAjuste(id, a, tot, int64(ctx.UserID), vistoEn); err != nil {
		return liq, err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "ajustar",
		"id="+strconv.FormatInt(id, 10)+" neto="+utils.FormatMoney(tot.TotalNeto))
	return s.repo().GetByID(id)
}

// PreviewModificacion reports the live diff for the modify-payment dialog.
func (s LiquidacionService) PreviewModificacion(id int64, nuevoTotal float64) (calculo.PreviewTotal, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return calculo.PreviewTotal{}, err
	}
	return calculo.PreviewModificacion(liq, nuevoTotal), nil
}

// ModificarTotal runs the direct-override path. The system suggestion is
// captured on the first override only; see the repository.
func (s LiquidacionService) ModificarTotal(id int64, m calculo.ModificacionTotal, vistoEn string, ctx domain.RequestContext) (models.Liquidacion, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return liq, err
	}
	if err := calculo.AutorizarAjuste(liq.Estado, ctx.Role); err != nil {
		return liq, err
	}
	if err := m.Validar(); err != nil {
		return liq, err
	}

	if err := s.repo().ModificarTotal(id, m.NuevoTotal, int64(ctx.UserID), vistoEn); err != nil {
		return liq, err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "modificar_total",
		"id="+strconv.FormatInt(id, 10)+" total="+utils.FormatMoney(m.NuevoTotal))
	return s.repo().GetByID(id)
}

// CambiarEstado moves the lifecycle after checking the edge and the role.
func (s LiquidacionService) CambiarEstado(id int64, nuevo domain.Estado, vistoEn string, ctx domain.RequestContext) (models.Liquidacion, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return liq, err
	}
	if err := calculo.AutorizarTransicion(liq.Estado, nuevo, ctx.Role); err != nil {
		return liq, err
	}

	if err := s.repo().CambiarEstado(id, nuevo, int64(ctx.UserID), vistoEn); err != nil {
		return liq, err
	}
	utils.LogEvent(s.RequestID, "liquidaciones", "estado",
		"id="+strconv.FormatInt(id, 10)+" "+string(liq.Estado)+"->"+string(nuevo))
	return s.repo().GetByID(id)
}

// Recalcular re-sums the movement tables and persists the totals chain. It
// runs after every movement mutation so the stored totals never drift from
// the lines that back them.
func (s LiquidacionService) Recalcular(id int64) (models.Liquidacion, error) {
	liq, err := s.repo().GetByID(id)
	if err != nil {
		return liq, err
	}

	sumas, err := s.movRepo().Sumas(id)
	if err != nil {
		return liq, err
	}
	liq.TotalCostoFletes = sumas[models.ClaseFlete]
	liq.TotalCombustible = sumas[models.ClaseCombustible]
	liq.TotalCasetas = sumas[models.ClaseCaseta]
	liq.TotalGastosVarios = sumas[models.ClaseVario]
	liq.TotalDeduccionesComerciales = sumas[models.ClaseDeduccion]

	tot := calculo.CalcularTotales(liq, calculo.Propuesta{})

	// Un total sobrescrito a mano no se pisa con el recálculo; el sugerido
	// guardado sigue siendo la referencia.
	if liq.TotalModificadoManualmente {
		tot.TotalNeto = liq.TotalNetoPagar
	}

	if err := s.repo().ActualizarTotales(id, sumas, tot); err != nil {
		return liq, err
	}
	return s.repo().GetByID(id)
}
