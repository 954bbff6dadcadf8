package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// QuoteSheetRenderer renders an approved quote as a one-page A4 PDF using
// the core Helvetica font. It implements port.QuoteSheetRenderer.
type QuoteSheetRenderer struct {
	currency money.Currency
	scale    int32
	now      func() time.Time
}

// NewQuoteSheetRenderer creates a renderer that prints amounts at scale.
func NewQuoteSheetRenderer(currency money.Currency, scale int32) *QuoteSheetRenderer {
	return &QuoteSheetRenderer{currency: currency, scale: scale, now: time.Now}
}

func (r *QuoteSheetRenderer) Render(_ context.Context, state model.QuoteState) ([]byte, error) {
	pa, ok := state.PreApproval()
	if !ok {
		return nil, fmt.Errorf("%w: quote has no pre-approval", model.ErrNoPreApproval)
	}
	generatedAt := r.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Cotización Cuota Kiwi", true)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Cotización de préstamo"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Nro. %s", state.ID()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Fecha: %s", generatedAt.Format("02/01/2006 15:04")))
	pdf.Ln(10)

	r.summaryRow(pdf, tr("Monto máximo aprobado"), r.amount(pa.MaxApprovedAmount))
	r.summaryRow(pdf, "Monto solicitado", r.amount(state.RequestedAmount()))
	r.summaryRow(pdf, "TEA", pa.RateProfile.AnnualEffectiveRate.StringFixed(2)+"%")
	if pa.RateProfile.AnnualEffectiveCostRate.IsPositive() {
		r.summaryRow(pdf, "TCEA", pa.RateProfile.AnnualEffectiveCostRate.StringFixed(2)+"%")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(20, 7, "", "B", 0, "C", false, 0, "")
	pdf.CellFormat(70, 7, "Plan", "B", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Cuota mensual", "B", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, o := range state.Options() {
		mark := ""
		if o.Selected {
			mark = "X"
		}
		plan := fmt.Sprintf("%d meses", o.TermMonths)
		if o.IsCampaign {
			plan += " (sin intereses)"
		}
		pdf.CellFormat(20, 6, mark, "", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, tr(plan), "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, r.amount(o.MonthlyPayment), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, r.amount(o.TotalPayment), "", 1, "R", false, 0, "")
	}

	if selected, ok := state.SelectedOption(); ok && selected.Label != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, tr("Opción elegida: "+selected.Label))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, tr("Cotización referencial sujeta a evaluación crediticia. "+
		"Las cuotas incluyen seguro de desgravamen e impuestos."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write quote sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *QuoteSheetRenderer) summaryRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "", 1, "R", false, 0, "")
}

func (r *QuoteSheetRenderer) amount(v decimal.Decimal) string {
	return money.New(v, r.currency).Display(r.scale)
}
