package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-space/internal/model"
)

// InvoiceRepo persists invoice metadata (factures). The PDF itself is
// rendered on demand.
type InvoiceRepo struct{ db *sql.DB }

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceSelect = "SELECT id, paiement_id, pdf_url, date_envoi, email_destinataire FROM invoices"

func scanInvoice(row interface{ Scan(...any) error }) (model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.PaymentID, &inv.PDFURL, &inv.SentAt, &inv.RecipientEmail)
	return inv, mapErr(err)
}

// Create inserts inv. A second invoice for one payment yields ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO invoices (paiement_id, pdf_url, date_envoi, email_destinataire) VALUES (?,?,?,?)",
		inv.PaymentID, inv.PDFURL, inv.SentAt.UTC(), inv.RecipientEmail)
	if err != nil {
		return mapErr(err)
	}
	inv.ID, err = insertID(res)
	return err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (model.Invoice, error) {
	return scanInvoice(r.db.QueryRowContext(ctx, invoiceSelect+" WHERE id=?", id))
}

func (r *InvoiceRepo) GetByPaymentID(ctx context.Context, paymentID uint64) (model.Invoice, error) {
	return scanInvoice(r.db.QueryRowContext(ctx, invoiceSelect+" WHERE paiement_id=?", paymentID))
}

func (r *InvoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, invoiceSelect+" ORDER BY date_envoi DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id=?", id))
}
