// Package subsidy queries the subsidy fund for customer eligibility.
package subsidy

import (
	"context"
	"net/url"

	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
)

type response struct {
	IsEligible         bool            `json:"isEligible"`
	EligibilityDetails map[string]any  `json:"eligibilityDetails"`
	ClaimableAmount    decimal.Decimal `json:"claimableAmount"`
	Restrictions       []string        `json:"restrictions"`
}

type Judgement struct {
	CustomerID      string
	Eligible        bool
	ClaimableAmount decimal.Decimal
	Restrictions    []string
	Details         map[string]any

	Errors   []string
	Warnings []string
}

func (j Judgement) IsValid() bool {
	return j.Eligible
}

type Client struct {
	http *adapters.Client
}

func New(http *adapters.Client) *Client {
	if http == nil {
		panic("subsidy: http client is required")
	}
	return &Client{http: http}
}

// Eligibility asks whether customerID may claim a subsidy on this delivery.
func (c *Client) Eligibility(ctx context.Context, customerID string, product models.ProductType, quantity decimal.Decimal) (*Judgement, error) {
	q := url.Values{}
	q.Set("productType", product.String())
	q.Set("quantity", quantity.String())

	var resp response
	if err := c.http.GetJSON(ctx, "/subsidy/eligibility/"+url.PathEscape(customerID), q, &resp); err != nil {
		return nil, err
	}

	j := &Judgement{
		CustomerID:      customerID,
		Eligible:        resp.IsEligible,
		ClaimableAmount: resp.ClaimableAmount,
		Restrictions:    resp.Restrictions,
		Details:         resp.EligibilityDetails,
	}
	if !j.Eligible {
		j.Errors = append(j.Errors, "Customer is not eligible for subsidy on this delivery")
	}
	j.Warnings = append(j.Warnings, resp.Restrictions...)
	return j, nil
}
