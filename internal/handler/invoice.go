package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/service"
)

// InvoiceHandler serves /api/factures.
type InvoiceHandler struct {
	Invoices InvoiceService
}

func NewInvoiceHandler(i InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Invoices: i}
}

type invoiceReq struct {
	PaymentID      uint64 `json:"paiementId"`
	RecipientEmail string `json:"emailDestinataire"`
}

func (h *InvoiceHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Invoices.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toInvoice))
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	inv, err := h.Invoices.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toInvoice(inv))
}

// Create records an invoice and mails its PDF.
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req invoiceReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	inv, err := h.Invoices.Create(ctx, service.InvoiceInput{
		PaymentID:      req.PaymentID,
		RecipientEmail: req.RecipientEmail,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toInvoice(inv))
}

func (h *InvoiceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Invoices.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PDF streams the invoice of payment :id. The id in the path is the
// payment id, matching the pdfUrl stored on the invoice.
func (h *InvoiceHandler) PDF(c echo.Context) error {
	paymentID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	data, name, err := h.Invoices.DownloadPDF(ctx, paymentID)
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", name))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
