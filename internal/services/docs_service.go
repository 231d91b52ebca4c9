package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"liquidaciones/internal/calculo"
	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain/models"
	"liquidaciones/internal/repositories"
	"liquidaciones/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService genera el recibo de liquidación en PDF que firma el operador.
type DocsService struct {
	Repo      repositories.LiquidacionRepository
	DB        *sql.DB
	RequestID string
	Loader    func(int64) (models.Liquidacion, error)
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) load(id int64) (models.Liquidacion, error) {
	if s.Loader != nil {
		return s.Loader(id)
	}
	repo := s.Repo
	if repo.DB == nil {
		repo = repositories.LiquidacionRepository{DB: s.db()}
	}
	return repo.GetByID(id)
}

// GenerarRecibo builds the settlement receipt PDF and its suggested filename.
func (s DocsService) GenerarRecibo(id int64) ([]byte, string, error) {
	liq, err := s.load(id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generar_recibo", fmt.Sprintf("liquidacion_id=%d", id))
	return buildReciboPDF(liq)
}

func buildReciboPDF(liq models.Liquidacion) ([]byte, string, error) {
	tot := calculo.CalcularTotales(liq, calculo.Propuesta{})

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Recibo de Liquidación", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECIBO DE LIQUIDACIÓN")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	encabezado := []string{
		fmt.Sprintf("Folio        : %s", safe(liq.FolioLiquidacion, "-")),
		fmt.Sprintf("Cliente      : %s", safe(liq.Cliente, "-")),
		fmt.Sprintf("Operador     : %s", safe(liq.Operador, "-")),
		fmt.Sprintf("Unidad       : %s %s (%s)", safe(liq.UnidadNo, "-"), safe(liq.UnidadTipo, "-"), safe(liq.UnidadPlacas, "-")),
		fmt.Sprintf("Periodo      : %s a %s", safe(dateOnly(liq.FechaInicio), "-"), safe(dateOnly(liq.FechaFin), "-")),
		fmt.Sprintf("Estado       : %s", string(liq.Estado)),
	}
	for _, l := range encabezado {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Comisión del operador:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	renglones := []string{
		fmt.Sprintf("Fletes del viaje        : %s", utils.FormatCurrency(liq.TotalCostoFletes)),
		fmt.Sprintf("Combustible             : %s", utils.FormatCurrency(liq.TotalCombustible)),
		fmt.Sprintf("Base de comisión        : %s", utils.FormatCurrency(tot.BaseComision)),
		fmt.Sprintf("Comisión (%s%%)         : %s", utils.FormatMoney(liq.ComisionPorcentaje), utils.FormatCurrency(tot.ComisionNominal)),
	}
	if tot.RendimientoTipo == calculo.RendimientoBono {
		renglones = append(renglones, fmt.Sprintf("Bono por rendimiento    : %s", utils.FormatCurrency(tot.RendimientoMonto)))
	}
	if tot.DieselEnContra > 0 {
		renglones = append(renglones, fmt.Sprintf("Diesel en contra (inf.) : %s", utils.FormatCurrency(tot.DieselEnContra)))
	}
	if tot.AjusteManual != 0 {
		renglones = append(renglones,
			fmt.Sprintf("Ajuste manual           : %s", utils.FormatCurrency(-tot.AjusteManual)),
			fmt.Sprintf("Motivo                  : %s", safe(liq.MotivoAjuste, "-")),
		)
	}
	renglones = append(renglones,
		fmt.Sprintf("Total bruto             : %s", utils.FormatCurrency(tot.TotalBruto)),
		fmt.Sprintf("Anticipos entregados    : %s", utils.FormatCurrency(-tot.TotalAnticipos)),
	)
	for _, l := range renglones {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total neto a pagar: "+utils.FormatCurrency(liq.TotalNetoPagar))
	pdf.Ln(8)

	if liq.TotalModificadoManualmente && liq.TotalNetoSugerido != nil {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Total ajustado manualmente; sugerido por sistema: "+utils.FormatCurrency(*liq.TotalNetoSugerido))
		pdf.Ln(8)
	}
	if tot.OperadorDebe {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "SALDO A CARGO DEL OPERADOR")
		pdf.Ln(8)
	}

	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(90, 7, "_________________________")
	pdf.Cell(90, 7, "_________________________")
	pdf.Ln(7)
	pdf.Cell(90, 7, "Firma del operador")
	pdf.Cell(90, 7, "Autorizó")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generado el "+time.Now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("LIQUIDACION_%s.pdf", safeFilenamePart(liq.FolioLiquidacion))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
