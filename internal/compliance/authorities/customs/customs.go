// Package customs queries the customs authority for import entry clearance.
package customs

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

type ProductDetail struct {
	ProductType string          `json:"productType"`
	HSCode      string          `json:"hsCode"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type response struct {
	Exists             bool            `json:"exists"`
	Status             string          `json:"status"`
	DutiesAndTaxesPaid bool            `json:"dutiesAndTaxesPaid"`
	DocumentsComplete  bool            `json:"documentsComplete"`
	DeclaredQuantity   decimal.Decimal `json:"declaredQuantity"`
	ProductCode        string          `json:"productCode"`
	DeclarationDate    *time.Time      `json:"declarationDate"`
	ClearanceDate      *time.Time      `json:"clearanceDate"`
	DutyPaid           decimal.Decimal `json:"dutyPaid"`
	TaxesPaid          decimal.Decimal `json:"taxesPaid"`
	ProductDetails     []ProductDetail `json:"productDetails"`
}

type Judgement struct {
	EntryNumber       string
	Exists            bool
	Cleared           bool
	DutiesPaid        bool
	DocumentsComplete bool
	QuantityCovered   bool
	ProductDeclared   bool

	DeclaredQuantity decimal.Decimal
	DutyPaid         decimal.Decimal
	TaxesPaid        decimal.Decimal
	DeclarationDate  *time.Time
	ClearanceDate    *time.Time

	Errors   []string
	Warnings []string
}

func (j Judgement) IsValid() bool {
	return j.Exists && j.Cleared && j.DutiesPaid && j.DocumentsComplete && j.QuantityCovered && j.ProductDeclared
}

type Client struct {
	http *adapters.Client
}

func New(http *adapters.Client) *Client {
	if http == nil {
		panic("customs: http client is required")
	}
	return &Client{http: http}
}

// Validate checks that the entry clears the delivered product and quantity.
func (c *Client) Validate(ctx context.Context, entryNumber string, product models.ProductType, quantity decimal.Decimal) (*Judgement, error) {
	q := url.Values{}
	q.Set("productType", product.String())
	q.Set("quantity", quantity.String())

	var resp response
	if err := c.http.GetJSON(ctx, "/customs/entries/"+url.PathEscape(entryNumber)+"/validate", q, &resp); err != nil {
		return nil, err
	}
	return judge(entryNumber, product, quantity, resp), nil
}

func judge(entry string, product models.ProductType, quantity decimal.Decimal, r response) *Judgement {
	j := &Judgement{
		EntryNumber:       entry,
		Exists:            r.Exists,
		Cleared:           strings.EqualFold(r.Status, "cleared"),
		DutiesPaid:        r.DutiesAndTaxesPaid,
		DocumentsComplete: r.DocumentsComplete,
		QuantityCovered:   r.DeclaredQuantity.GreaterThanOrEqual(quantity),
		ProductDeclared:   declares(r, product),
		DeclaredQuantity:  r.DeclaredQuantity,
		DutyPaid:          r.DutyPaid,
		TaxesPaid:         r.TaxesPaid,
		DeclarationDate:   r.DeclarationDate,
		ClearanceDate:     r.ClearanceDate,
	}

	if !j.Exists {
		j.Errors = append(j.Errors, "Customs entry does not exist")
	}
	if !j.Cleared {
		j.Errors = append(j.Errors, fmt.Sprintf("Customs entry status is %q, expected cleared", r.Status))
	}
	if !j.DutiesPaid {
		j.Errors = append(j.Errors, "Duties and taxes are outstanding")
	}
	if !j.DocumentsComplete {
		j.Errors = append(j.Errors, "Customs documentation is incomplete")
	}
	if !j.QuantityCovered {
		j.Errors = append(j.Errors, fmt.Sprintf("Delivered quantity %s exceeds declared quantity %s", quantity, r.DeclaredQuantity))
	}
	if !j.ProductDeclared {
		j.Errors = append(j.Errors, fmt.Sprintf("Product %s is not on the customs declaration", product))
	}

	if j.Cleared && r.ClearanceDate == nil {
		j.Warnings = append(j.Warnings, "Customs entry is cleared but carries no clearance date")
	}
	return j
}

func declares(r response, product models.ProductType) bool {
	if strings.EqualFold(r.ProductCode, product.String()) {
		return true
	}
	for _, d := range r.ProductDetails {
		if strings.EqualFold(strings.TrimSpace(d.ProductType), product.String()) {
			return true
		}
	}
	return false
}
