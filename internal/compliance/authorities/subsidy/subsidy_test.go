package subsidy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/authorities/subsidy"
	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibility(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.String()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isEligible":         true,
			"claimableAmount":    "1250.50",
			"restrictions":       []string{"Premix only"},
			"eligibilityDetails": map[string]any{"scheme": "fisheries"},
		})
	}))
	defer srv.Close()

	c := subsidy.New(adapters.New(adapters.Config{Authority: "subsidy", BaseURL: srv.URL}))
	j, err := c.Eligibility(context.Background(), "CUST-9", models.ProductKerosene, decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.Equal(t, "/subsidy/eligibility/CUST-9?productType=kerosene&quantity=500", seen)
	assert.True(t, j.IsValid())
	assert.True(t, j.ClaimableAmount.Equal(decimal.RequireFromString("1250.5")))
	assert.Equal(t, []string{"Premix only"}, j.Warnings)
	assert.Equal(t, "fisheries", j.Details["scheme"])
}

func TestIneligible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"isEligible":false}`))
	}))
	defer srv.Close()

	c := subsidy.New(adapters.New(adapters.Config{Authority: "subsidy", BaseURL: srv.URL}))
	j, err := c.Eligibility(context.Background(), "CUST-1", models.ProductDiesel, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, j.IsValid())
	assert.Len(t, j.Errors, 1)
}

func TestRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := subsidy.New(adapters.New(adapters.Config{Authority: "subsidy", BaseURL: srv.URL}))
	_, err := c.Eligibility(context.Background(), "CUST-1", models.ProductDiesel, decimal.NewFromInt(1))
	assert.Equal(t, authorities.ErrorRateLimited, authorities.CategoryOf(err))
}
