package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/handler"
)

// RegisterBilling mounts payments and invoices for ADMIN and RECEPTIONISTE.
func RegisterBilling(e *echo.Echo, p *handler.PaymentHandler, inv *handler.InvoiceHandler, g gates) {
	pay := e.Group("/api/paiements", g.auth, g.staff)
	pay.GET("", p.List)
	pay.POST("", p.Create)
	pay.GET("/:id", p.Get)
	pay.PUT("/:id", p.Update)
	pay.DELETE("/:id", p.Delete, g.admin)

	fac := e.Group("/api/factures", g.auth, g.staff)
	fac.GET("", inv.List)
	fac.POST("", inv.Create)
	fac.GET("/:id", inv.Get)
	fac.GET("/:id/pdf", inv.PDF)
	fac.DELETE("/:id", inv.Delete)
}
