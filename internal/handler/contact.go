package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/service"
)

type ContactHandler struct {
	Contact ContactService
}

func NewContactHandler(s ContactService) *ContactHandler {
	return &ContactHandler{Contact: s}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	ToEmail string `json:"toEmail"`
}

// Send forwards a contact form message by mail.
func (h *ContactHandler) Send(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Contact.Send(ctx, service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		ToEmail: req.ToEmail,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message envoyé avec succès"})
}
