package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template names.
const (
	TemplateResetPassword = "reset_password.html"
	TemplateInvoice       = "invoice.html"
	TemplateContact       = "contact.html"
)

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// ResetPasswordData feeds TemplateResetPassword.
type ResetPasswordData struct {
	FirstName string
	Link      string
	TTLHours  int
}

// InvoiceData feeds TemplateInvoice.
type InvoiceData struct {
	PaymentID uint64
	Amount    string
	Link      string
}

// ContactData feeds TemplateContact.
type ContactData struct {
	Name    string
	Email   string
	Subject string
	Message string
}
