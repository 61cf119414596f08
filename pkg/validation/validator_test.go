package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Quantity int `json:"quantity" validate:"qty"`
}

type sample struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,pwd"`
	Price    float64 `form:"price" validate:"money"`
	Items    []item  `json:"orderItems" validate:"dive"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	err := newValidator().Struct(sample{Email: "nope", Price: -1, Items: []item{{Quantity: 0}}})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "is required", d["password"])
	assert.Equal(t, "must not be negative", d["price"])
	assert.Equal(t, "must be at least 1", d["orderItems[0].quantity"])
}

func TestToDetailsJSONErrors(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"email":`), &s)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"email": 5}`), &s)
	assert.Equal(t, "must be a string", ToDetails(err)["email"])

	assert.Nil(t, ToDetails(nil))
}
