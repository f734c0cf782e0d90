package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	doc := Document{
		PaymentID: 42,
		Date:      time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("120.5"),
		Status:    "VALIDE",
		Type:      "RESERVATION",
		Lines:     []string{"Espace: Salle Média", "Période: 01/04/2025 09:00 - 01/04/2025 12:00"},
	}
	out, err := Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
	assert.Equal(t, "facture_42.pdf", doc.FileName())
}

func TestRenderWithoutDetails(t *testing.T) {
	out, err := Render(Document{PaymentID: 1, Date: time.Now(), Amount: decimal.Zero, Status: "EN_ATTENTE", Type: "ABONNEMENT"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
