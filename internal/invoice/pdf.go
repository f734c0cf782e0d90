// Package invoice renders payment invoices (factures) as PDF documents.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Document is everything printed on an invoice. Lines holds the
// type-specific details, for example the reserved space and period.
type Document struct {
	PaymentID uint64
	Date      time.Time
	Amount    decimal.Decimal
	Status    string
	Type      string
	Customer  string
	Lines     []string
}

// FileName is the attachment name used for the document.
func (d Document) FileName() string {
	return fmt.Sprintf("facture_%d.pdf", d.PaymentID)
}

// Render lays the document out on one A4 page.
func Render(d Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Facture %d", d.PaymentID), true)
	pdf.SetAuthor("Coworking Space", true)
	pdf.SetCreationDate(d.Date)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, tr("Facture"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(45, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr(value), "", 1, "L", false, 0, "")
	}
	line("Numéro:", fmt.Sprintf("%d", d.PaymentID))
	line("Date:", d.Date.Format("02/01/2006 15:04"))
	if d.Customer != "" {
		line("Client:", d.Customer)
	}
	line("Type:", d.Type)
	line("Montant:", d.Amount.StringFixed(2)+" TND")
	line("Statut:", d.Status)

	if len(d.Lines) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, tr("Détails"), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		for _, l := range d.Lines {
			pdf.MultiCell(0, 7, tr(l), "", "L", false)
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, tr("Merci pour votre confiance. Coworking Space"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", d.PaymentID, err)
	}
	return buf.Bytes(), nil
}
