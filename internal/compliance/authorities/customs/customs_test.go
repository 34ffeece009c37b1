package customs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/authorities/customs"
	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CustomsSuite struct {
	suite.Suite
	payload map[string]any
	status  int
	path    string
	srv     *httptest.Server
	client  *customs.Client
}

func TestCustomsSuite(t *testing.T) {
	suite.Run(t, new(CustomsSuite))
}

func (s *CustomsSuite) SetupTest() {
	s.reset()
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.path = r.URL.Path
		w.WriteHeader(s.status)
		_ = json.NewEncoder(w).Encode(s.payload)
	}))
	s.client = customs.New(adapters.New(adapters.Config{Authority: "customs", BaseURL: s.srv.URL}))
}

func (s *CustomsSuite) reset() {
	s.status = http.StatusOK
	s.payload = map[string]any{
		"exists":             true,
		"status":             "CLEARED",
		"dutiesAndTaxesPaid": true,
		"documentsComplete":  true,
		"declaredQuantity":   "45000",
		"productCode":        "2710.19",
		"clearanceDate":      time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		"productDetails": []map[string]any{
			{"productType": "diesel", "hsCode": "2710.19.31", "quantity": "45000"},
		},
	}
}

func (s *CustomsSuite) TearDownTest() {
	s.srv.Close()
}

func (s *CustomsSuite) validate(qty int64) *customs.Judgement {
	j, err := s.client.Validate(context.Background(), "C-2025-778", models.ProductDiesel, decimal.NewFromInt(qty))
	s.Require().NoError(err)
	return j
}

func (s *CustomsSuite) TestClearedEntry() {
	j := s.validate(40000)
	s.True(j.IsValid())
	s.Empty(j.Errors)
	s.Empty(j.Warnings)
	s.Equal("/customs/entries/C-2025-778/validate", s.path)
}

func (s *CustomsSuite) TestExactQuantityIsCovered() {
	s.True(s.validate(45000).QuantityCovered)
}

func (s *CustomsSuite) TestEachSubCheckInvalidates() {
	cases := map[string]func(){
		"missing":     func() { s.payload["exists"] = false },
		"pending":     func() { s.payload["status"] = "pending" },
		"unpaid":      func() { s.payload["dutiesAndTaxesPaid"] = false },
		"incomplete":  func() { s.payload["documentsComplete"] = false },
		"short":       func() { s.payload["declaredQuantity"] = "39999" },
		"wrong goods": func() { s.payload["productDetails"] = []map[string]any{{"productType": "kerosene"}} },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			s.reset()
			mutate()
			j := s.validate(40000)
			s.False(j.IsValid())
			s.Len(j.Errors, 1, j.Errors)
		})
	}
}

func (s *CustomsSuite) TestClearedWithoutDateWarns() {
	delete(s.payload, "clearanceDate")
	j := s.validate(100)
	s.True(j.IsValid())
	s.Len(j.Warnings, 1)
}

func (s *CustomsSuite) TestNotFound() {
	s.status = http.StatusNotFound
	_, err := s.client.Validate(context.Background(), "C-404", models.ProductDiesel, decimal.NewFromInt(1))
	s.Equal(authorities.ErrorNotFound, authorities.CategoryOf(err))
}
