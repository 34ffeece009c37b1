// Package permit queries the petroleum permit authority.
package permit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
)

// ExpiryWarningWindow is how early an approaching expiry is flagged.
const ExpiryWarningWindow = 30 * 24 * time.Hour

type response struct {
	Exists             bool                       `json:"exists"`
	Status             string                     `json:"status"`
	ExpiryDate         *time.Time                 `json:"expiryDate"`
	HolderVerified     bool                       `json:"holderVerified"`
	AuthorizedProducts []string                   `json:"authorizedProducts"`
	VolumeLimits       map[string]decimal.Decimal `json:"volumeLimits"`
	HolderName         string                     `json:"holderName"`
	PermitType         string                     `json:"permitType"`
	IssueDate          *time.Time                 `json:"issueDate"`
}

// Judgement is the permit authority's verdict on one delivery.
type Judgement struct {
	PermitNumber      string
	Exists            bool
	Active            bool
	NotExpired        bool
	HolderVerified    bool
	ProductAuthorized bool
	WithinVolumeLimit bool

	HolderName string
	PermitType string
	IssueDate  *time.Time
	ExpiryDate *time.Time

	Errors   []string
	Warnings []string
}

// IsValid is the conjunction of every sub-check.
func (j Judgement) IsValid() bool {
	return j.Exists && j.Active && j.NotExpired && j.HolderVerified && j.ProductAuthorized && j.WithinVolumeLimit
}

type Client struct {
	http *adapters.Client
	now  func() time.Time
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(http *adapters.Client, opts ...Option) *Client {
	if http == nil {
		panic("permit: http client is required")
	}
	c := &Client{http: http, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks permitNumber against the product and quantity delivered.
func (c *Client) Validate(ctx context.Context, permitNumber string, product models.ProductType, quantity decimal.Decimal) (*Judgement, error) {
	q := url.Values{}
	q.Set("productType", product.String())
	q.Set("quantity", quantity.String())

	var resp response
	if err := c.http.GetJSON(ctx, "/permits/"+url.PathEscape(permitNumber)+"/validate", q, &resp); err != nil {
		return nil, err
	}
	return judge(permitNumber, product, quantity, resp, c.now()), nil
}

func judge(number string, product models.ProductType, quantity decimal.Decimal, r response, now time.Time) *Judgement {
	j := &Judgement{
		PermitNumber:   number,
		Exists:         r.Exists,
		Active:         strings.EqualFold(r.Status, "active"),
		HolderVerified: r.HolderVerified,
		HolderName:     r.HolderName,
		PermitType:     r.PermitType,
		IssueDate:      r.IssueDate,
		ExpiryDate:     r.ExpiryDate,
	}
	j.NotExpired = r.ExpiryDate == nil || r.ExpiryDate.After(now)
	j.ProductAuthorized = authorizes(r.AuthorizedProducts, product)
	limit, limited := r.VolumeLimits[product.String()]
	j.WithinVolumeLimit = !limited || quantity.LessThanOrEqual(limit)

	if !j.Exists {
		j.Errors = append(j.Errors, "Permit does not exist")
	}
	if !j.Active {
		j.Errors = append(j.Errors, fmt.Sprintf("Permit status is %q, expected active", r.Status))
	}
	if !j.NotExpired {
		j.Errors = append(j.Errors, "Permit expired on "+r.ExpiryDate.Format(time.DateOnly))
	}
	if !j.HolderVerified {
		j.Errors = append(j.Errors, "Permit holder is not verified")
	}
	if !j.ProductAuthorized {
		j.Errors = append(j.Errors, fmt.Sprintf("Permit does not authorize %s", product))
	}
	if !j.WithinVolumeLimit {
		j.Errors = append(j.Errors, fmt.Sprintf("Quantity %s exceeds permitted volume %s", quantity, limit))
	}

	if j.NotExpired && r.ExpiryDate != nil && r.ExpiryDate.Before(now.Add(ExpiryWarningWindow)) {
		j.Warnings = append(j.Warnings, "Permit expires within 30 days")
	}
	return j
}

func authorizes(products []string, product models.ProductType) bool {
	for _, p := range products {
		if strings.EqualFold(strings.TrimSpace(p), product.String()) {
			return true
		}
	}
	return false
}
