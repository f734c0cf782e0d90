package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/coworking-space/internal/invoice"
	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/mail"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// InvoiceSubject is the subject of invoice emails.
const InvoiceSubject = "Votre facture Coworking Space"

// InvoiceService issues invoices for payments. PDFs are rendered on
// demand and never stored.
type InvoiceService struct {
	payments      PaymentStore
	reservations  ReservationStore
	subscriptions SubscriptionStore
	events        EventStore
	invoices      InvoiceStore
	mailer        Mailer
	baseURL       string
	now           clock
}

func NewInvoiceService(st Stores, mailer Mailer, baseURL string) *InvoiceService {
	return &InvoiceService{
		payments:      st.Payments,
		reservations:  st.Reservations,
		subscriptions: st.Subscriptions,
		events:        st.Events,
		invoices:      st.Invoices,
		mailer:        mailer,
		baseURL:       strings.TrimRight(baseURL, "/"),
		now:           utcNow,
	}
}

// PDFURL is the stable download link of the invoice of a payment.
func (s *InvoiceService) PDFURL(paymentID uint64) string {
	return fmt.Sprintf("%s/api/factures/%d/pdf", s.baseURL, paymentID)
}

const periodLayout = "02/01/2006 15:04"

// document gathers everything printed on the invoice of a payment.
func (s *InvoiceService) document(ctx context.Context, p model.Payment) (invoice.Document, error) {
	doc := invoice.Document{
		PaymentID: p.ID,
		Date:      p.Date,
		Amount:    p.Amount,
		Status:    string(p.Status),
	}
	switch {
	case p.Type == model.PaymentReservation && p.ReservationID != nil:
		doc.Type = "Réservation d'espace privé"
		r, err := s.reservations.GetDetail(ctx, *p.ReservationID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return doc, err
		}
		if err == nil {
			doc.Customer = strings.TrimSpace(r.UserFirstName + " " + r.UserLastName)
			doc.Lines = append(doc.Lines,
				"Espace: "+r.SpaceName,
				"Période: "+r.Start.UTC().Format(periodLayout)+" - "+r.End.UTC().Format(periodLayout))
		}
	case p.Type == model.PaymentSubscription && p.SubscriptionID != nil:
		doc.Type = "Abonnement espace ouvert"
		sub, err := s.subscriptions.GetDetail(ctx, *p.SubscriptionID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return doc, err
		}
		if err == nil {
			doc.Customer = sub.UserEmail
			doc.Lines = append(doc.Lines,
				"Espace: "+sub.SpaceName,
				"Période: "+sub.Start.String()+" - "+sub.End.String())
		}
	case p.Type == model.PaymentEvent && p.EventID != nil:
		doc.Type = "Participation à événement"
		ev, err := s.events.GetByID(ctx, *p.EventID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return doc, err
		}
		if err == nil {
			doc.Lines = append(doc.Lines, "Événement: "+ev.Title)
		}
	default:
		doc.Type = string(p.Type)
	}
	return doc, nil
}

// RenderPDF renders the invoice of a payment.
func (s *InvoiceService) RenderPDF(ctx context.Context, paymentID uint64) ([]byte, string, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, "", lookup(err, "Payment not found")
	}
	return s.render(ctx, p)
}

func (s *InvoiceService) render(ctx context.Context, p model.Payment) ([]byte, string, error) {
	doc, err := s.document(ctx, p)
	if err != nil {
		return nil, "", err
	}
	data, err := invoice.Render(doc)
	return data, doc.FileName(), err
}

// DownloadPDF re-renders the PDF behind the stored link of an invoice.
func (s *InvoiceService) DownloadPDF(ctx context.Context, paymentID uint64) ([]byte, string, error) {
	if _, err := s.invoices.GetByPaymentID(ctx, paymentID); err != nil {
		return nil, "", lookup(err, "Invoice not found")
	}
	return s.RenderPDF(ctx, paymentID)
}

// InvoiceInput is the create payload.
type InvoiceInput struct {
	PaymentID      uint64
	RecipientEmail string
}

// Create records the invoice and mails the PDF to the recipient. A
// payment has at most one invoice. When the mail cannot be handed off the
// invoice row is removed again and the error returned.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (model.Invoice, error) {
	in.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
	if in.PaymentID == 0 {
		return model.Invoice{}, badRequest("Payment ID is required")
	}
	if in.RecipientEmail == "" {
		return model.Invoice{}, badRequest("Recipient email is required")
	}
	if _, err := s.invoices.GetByPaymentID(ctx, in.PaymentID); err == nil {
		return model.Invoice{}, newError(ErrConflict, "Invoice already exists for this payment")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Invoice{}, err
	}

	p, err := s.payments.GetByID(ctx, in.PaymentID)
	if err != nil {
		return model.Invoice{}, lookup(err, "Payment not found")
	}
	pdf, name, err := s.render(ctx, p)
	if err != nil {
		return model.Invoice{}, err
	}

	inv := model.Invoice{
		PaymentID:      in.PaymentID,
		PDFURL:         s.PDFURL(in.PaymentID),
		SentAt:         s.now(),
		RecipientEmail: in.RecipientEmail,
	}
	if err := s.invoices.Create(ctx, &inv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Invoice{}, newError(ErrConflict, "Invoice already exists for this payment")
		}
		return model.Invoice{}, err
	}

	html, err := mail.Render(mail.TemplateInvoice, mail.InvoiceData{
		PaymentID: p.ID,
		Amount:    p.Amount.StringFixed(2),
		Link:      inv.PDFURL,
	})
	if err == nil {
		err = s.mailer.Send(ctx, mail.Message{
			To:          []string{inv.RecipientEmail},
			Subject:     InvoiceSubject,
			HTML:        html,
			Text:        "Veuillez trouver ci-joint votre facture.",
			Attachments: []mail.Attachment{{Name: name, ContentType: "application/pdf", Data: pdf}},
		})
	}
	if err != nil {
		if derr := s.invoices.Delete(ctx, inv.ID); derr != nil {
			logging.FromContext(ctx).Error("remove invoice after mail failure", "invoice_id", inv.ID, "err", derr)
		}
		return model.Invoice{}, fmt.Errorf("send invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, id uint64) (model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	return inv, lookup(err, "Invoice not found")
}

func (s *InvoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	return s.invoices.List(ctx)
}

func (s *InvoiceService) Delete(ctx context.Context, id uint64) error {
	return lookup(s.invoices.Delete(ctx, id), "Invoice not found")
}
