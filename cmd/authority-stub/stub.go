package main

import (
	"crypto/sha256"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fuelguard/internal/compliance/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Magic identifiers let e2e tests steer the stub. Any other identifier gets
// a passing verdict, except subsidy eligibility which is derived from a hash
// of the customer id so repeated runs agree.
const (
	permitExpired   = "NPA-EXPIRED"
	permitSuspended = "NPA-SUSPENDED"
	permitUnknown   = "NPA-UNKNOWN"
	permitOutage    = "NPA-OUTAGE"
	permitSmall     = "NPA-SMALL"

	customsPending     = "CE-PENDING"
	customsUnpaid      = "CE-UNPAID"
	customsUnknown     = "CE-UNKNOWN"
	customsOutage      = "CE-OUTAGE"
	customsShortfall   = "CE-SHORT"
	customerIneligible = "CUST-INELIGIBLE"
	customerEligible   = "CUST-ELIGIBLE"
	customerOutage     = "CUST-OUTAGE"
)

type stubConfig struct {
	// APIKey, when set, must be presented in X-API-Key.
	APIKey  string
	Latency time.Duration
	// Now is the clock for expiry dates.
	Now func() time.Time
}

type stub struct {
	cfg    stubConfig
	logger *slog.Logger
}

func newStub(cfg stubConfig, logger *slog.Logger) *stub {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &stub{cfg: cfg, logger: logger}
}

func (s *stub) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.simulate)
		r.Get("/permits/{number}/validate", s.handlePermit)
		r.Get("/customs/entries/{entry}/validate", s.handleCustoms)
		r.Get("/environmental/compliance/{product}", s.handleEnvironmental)
		r.Get("/subsidy/eligibility/{customer}", s.handleSubsidy)
	})
	return r
}

// simulate applies the configured latency and API key check.
func (s *stub) simulate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
			return
		}
		if s.cfg.Latency > 0 {
			select {
			case <-time.After(s.cfg.Latency):
			case <-r.Context().Done():
				return
			}
		}
		s.logger.Debug("authority stub request", "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *stub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "authority-stub"})
}

type permitResponse struct {
	Exists             bool                       `json:"exists"`
	Status             string                     `json:"status"`
	ExpiryDate         *time.Time                 `json:"expiryDate,omitempty"`
	HolderVerified     bool                       `json:"holderVerified"`
	AuthorizedProducts []string                   `json:"authorizedProducts"`
	VolumeLimits       map[string]decimal.Decimal `json:"volumeLimits,omitempty"`
	HolderName         string                     `json:"holderName,omitempty"`
	PermitType         string                     `json:"permitType,omitempty"`
}

func (s *stub) handlePermit(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	now := s.cfg.Now().UTC()
	expiry := now.AddDate(1, 0, 0)

	resp := permitResponse{
		Exists:             true,
		Status:             "active",
		ExpiryDate:         &expiry,
		HolderVerified:     true,
		AuthorizedProducts: allProducts(),
		HolderName:         "Stub Bulk Distribution Co.",
		PermitType:         "BDC",
	}

	switch {
	case strings.HasPrefix(number, permitOutage):
		writeError(w, http.StatusServiceUnavailable, "unavailable", "permit registry offline")
		return
	case strings.HasPrefix(number, permitUnknown):
		resp = permitResponse{Exists: false, AuthorizedProducts: []string{}}
	case strings.HasPrefix(number, permitExpired):
		past := now.AddDate(0, 0, -10)
		resp.ExpiryDate = &past
	case strings.HasPrefix(number, permitSuspended):
		resp.Status = "suspended"
	case strings.HasPrefix(number, permitSmall):
		resp.VolumeLimits = map[string]decimal.Decimal{}
		for _, p := range resp.AuthorizedProducts {
			resp.VolumeLimits[p] = decimal.NewFromInt(1_000)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type customsResponse struct {
	Exists             bool            `json:"exists"`
	Status             string          `json:"status"`
	DutiesAndTaxesPaid bool            `json:"dutiesAndTaxesPaid"`
	DocumentsComplete  bool            `json:"documentsComplete"`
	DeclaredQuantity   decimal.Decimal `json:"declaredQuantity"`
	ProductCode        string          `json:"productCode"`
	ClearanceDate      *time.Time      `json:"clearanceDate,omitempty"`
}

func (s *stub) handleCustoms(w http.ResponseWriter, r *http.Request) {
	entry := chi.URLParam(r, "entry")
	cleared := s.cfg.Now().UTC().AddDate(0, 0, -7)

	quantity := decimal.NewFromInt(10_000_000)
	if q, err := decimal.NewFromString(r.URL.Query().Get("quantity")); err == nil {
		quantity = q
	}

	resp := customsResponse{
		Exists:             true,
		Status:             "cleared",
		DutiesAndTaxesPaid: true,
		DocumentsComplete:  true,
		DeclaredQuantity:   quantity,
		ProductCode:        r.URL.Query().Get("productType"),
		ClearanceDate:      &cleared,
	}

	switch {
	case strings.HasPrefix(entry, customsOutage):
		writeError(w, http.StatusServiceUnavailable, "unavailable", "customs system offline")
		return
	case strings.HasPrefix(entry, customsUnknown):
		resp = customsResponse{Exists: false, DeclaredQuantity: decimal.Zero}
	case strings.HasPrefix(entry, customsPending):
		resp.Status = "pending"
		resp.ClearanceDate = nil
	case strings.HasPrefix(entry, customsUnpaid):
		resp.DutiesAndTaxesPaid = false
	case strings.HasPrefix(entry, customsShortfall):
		resp.DeclaredQuantity = quantity.Div(decimal.NewFromInt(2))
	}
	writeJSON(w, http.StatusOK, resp)
}

type environmentalViolation struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type environmentalResponse struct {
	IsCompliant              bool                     `json:"isCompliant"`
	EnvironmentalImpactScore int                      `json:"environmentalImpactScore"`
	Permits                  []any                    `json:"permits"`
	Violations               []environmentalViolation `json:"violations"`
}

// impactScores are per product; heavier products score lower.
var impactScores = map[models.ProductType]int{
	models.ProductLPG:      95,
	models.ProductPetrol:   88,
	models.ProductDiesel:   86,
	models.ProductJetFuel:  84,
	models.ProductKerosene: 78,
}

func (s *stub) handleEnvironmental(w http.ResponseWriter, r *http.Request) {
	product, err := models.ParseProductType(chi.URLParam(r, "product"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	resp := environmentalResponse{
		IsCompliant:              true,
		EnvironmentalImpactScore: impactScores[product],
		Permits:                  []any{},
		Violations:               []environmentalViolation{},
	}
	if product == models.ProductKerosene {
		resp.Violations = append(resp.Violations, environmentalViolation{
			Code:        "ENV-STORAGE-12",
			Description: "Storage tank vapour recovery inspection overdue",
			Severity:    "minor",
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type subsidyResponse struct {
	IsEligible      bool            `json:"isEligible"`
	ClaimableAmount decimal.Decimal `json:"claimableAmount"`
	Restrictions    []string        `json:"restrictions"`
}

func (s *stub) handleSubsidy(w http.ResponseWriter, r *http.Request) {
	customer := chi.URLParam(r, "customer")

	switch {
	case strings.HasPrefix(customer, customerOutage):
		writeError(w, http.StatusServiceUnavailable, "unavailable", "subsidy registry offline")
		return
	case strings.HasPrefix(customer, customerEligible):
		writeJSON(w, http.StatusOK, eligible(r))
		return
	case strings.HasPrefix(customer, customerIneligible):
		writeJSON(w, http.StatusOK, ineligible())
		return
	}

	sum := sha256.Sum256([]byte(customer))
	if sum[0]%4 == 0 {
		writeJSON(w, http.StatusOK, ineligible())
		return
	}
	writeJSON(w, http.StatusOK, eligible(r))
}

// eligible grants a claim of 0.04 per litre of the queried quantity.
func eligible(r *http.Request) subsidyResponse {
	amount := decimal.Zero
	if q, err := decimal.NewFromString(r.URL.Query().Get("quantity")); err == nil {
		amount = q.Mul(decimal.RequireFromString("0.04")).Round(2)
	}
	return subsidyResponse{IsEligible: true, ClaimableAmount: amount, Restrictions: []string{}}
}

func ineligible() subsidyResponse {
	return subsidyResponse{
		IsEligible:      false,
		ClaimableAmount: decimal.Zero,
		Restrictions:    []string{"Customer is not registered for the fuel subsidy programme"},
	}
}

func allProducts() []string {
	return []string{
		models.ProductPetrol.String(),
		models.ProductDiesel.String(),
		models.ProductKerosene.String(),
		models.ProductLPG.String(),
		models.ProductJetFuel.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message, "code": status})
}
