package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// purchaseRequest mirrors the shape of the transaction endpoint payload
type purchaseRequest struct {
	UserID    int64 `json:"user_id" validate:"required,gt=0"`
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

func decodePurchase(t *testing.T, body map[string]interface{}) error {
	t.Helper()

	reqBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed purchaseRequest
	return DecodeAndValidate(req, &parsed)
}

func TestProperty_MissingFieldsAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a payload passes only when every field is present", prop.ForAll(
		func(includeUser, includeProduct, includeQuantity bool) bool {
			body := make(map[string]interface{})
			if includeUser {
				body["user_id"] = 1
			}
			if includeProduct {
				body["product_id"] = 2
			}
			if includeQuantity {
				body["quantity"] = 3
			}

			err := decodePurchase(t, body)

			if includeUser && includeProduct && includeQuantity {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_NonPositiveQuantityIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity must be strictly positive", prop.ForAll(
		func(quantity int) bool {
			err := decodePurchase(t, map[string]interface{}{
				"user_id":    1,
				"product_id": 2,
				"quantity":   quantity,
			})

			if quantity > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-50, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_NamesEveryBadField(t *testing.T) {
	err := decodePurchase(t, map[string]interface{}{
		"user_id":    -1,
		"product_id": 2,
	})
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	validationErrors := FormatValidationErrors(err)
	if len(validationErrors) != 2 {
		t.Fatalf("Expected 2 validation errors (user_id, quantity), got %d: %+v", len(validationErrors), validationErrors)
	}

	for _, ve := range validationErrors {
		if ve.Field == "" || ve.Message == "" {
			t.Errorf("Validation error missing field or message: %+v", ve)
		}
	}
}

func TestDecodeAndValidate_RejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")

	var parsed purchaseRequest
	if err := DecodeAndValidate(req, &parsed); err == nil {
		t.Error("Expected decode error for malformed JSON, got nil")
	}
}
