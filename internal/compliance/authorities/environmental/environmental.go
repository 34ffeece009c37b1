// Package environmental queries the environmental regulator for product
// handling compliance.
package environmental

import (
	"context"
	"net/url"
	"time"

	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
)

type Permit struct {
	PermitNumber string     `json:"permitNumber"`
	Type         string     `json:"type"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}

type Violation struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type response struct {
	IsCompliant              bool        `json:"isCompliant"`
	EnvironmentalImpactScore int         `json:"environmentalImpactScore"`
	Permits                  []Permit    `json:"permits"`
	Violations               []Violation `json:"violations"`
}

type Judgement struct {
	Compliant bool
	// ImpactScore is clamped to 0..100; higher is better.
	ImpactScore int
	Permits     []Permit
	Violations  []Violation

	Errors   []string
	Warnings []string
}

func (j Judgement) IsValid() bool {
	return j.Compliant
}

// EarliestExpiry returns the first expiring environmental permit, if any.
func (j Judgement) EarliestExpiry() *time.Time {
	var earliest *time.Time
	for _, p := range j.Permits {
		if p.ExpiryDate != nil && (earliest == nil || p.ExpiryDate.Before(*earliest)) {
			t := *p.ExpiryDate
			earliest = &t
		}
	}
	return earliest
}

type Client struct {
	http *adapters.Client
}

func New(http *adapters.Client) *Client {
	if http == nil {
		panic("environmental: http client is required")
	}
	return &Client{http: http}
}

// Assess asks the regulator whether moving quantity of product to location
// is compliant. An empty location is omitted from the query.
func (c *Client) Assess(ctx context.Context, product models.ProductType, quantity decimal.Decimal, location string) (*Judgement, error) {
	q := url.Values{}
	q.Set("quantity", quantity.String())
	if location != "" {
		q.Set("location", location)
	}

	var resp response
	if err := c.http.GetJSON(ctx, "/environmental/compliance/"+url.PathEscape(product.String()), q, &resp); err != nil {
		return nil, err
	}

	j := &Judgement{
		Compliant:   resp.IsCompliant,
		ImpactScore: min(max(resp.EnvironmentalImpactScore, 0), 100),
		Permits:     resp.Permits,
		Violations:  resp.Violations,
	}
	if !j.Compliant {
		j.Errors = append(j.Errors, "Delivery is not environmentally compliant")
	}
	for _, v := range resp.Violations {
		msg := v.Description
		if v.Code != "" {
			msg = v.Code + ": " + msg
		}
		j.Warnings = append(j.Warnings, msg)
	}
	return j, nil
}
