package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	subj, html, err := Render("welcome", map[string]any{"Name": "Ada", "Email": "ada@example.com", "CompanyName": "Ecom X"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Ecom X", subj)
	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "ada@example.com")
}

func TestRenderOrderCreated(t *testing.T) {
	subj, html, err := Render("order_created", map[string]any{
		"OrderID":       "o-1",
		"TotalPrice":    19.5,
		"PaymentMethod": "PayPal",
		"Items": []any{
			map[string]any{"name": "Shirt", "quantity": 2, "price": 9.75},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your order o-1 has been placed", subj)
	assert.Contains(t, html, "19.50")
	assert.Contains(t, html, "Shirt")
	assert.Contains(t, html, "customer")
}

func TestRenderUnknown(t *testing.T) {
	_, _, err := Render("nope", nil)
	assert.Error(t, err)
}
