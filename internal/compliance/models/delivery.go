// Package models holds the value types exchanged by the compliance engine.
//
// Types here carry no persistence or transport behavior. JSON mapping lives in
// the wire package and storage belongs to the calling delivery workflow.
package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "fuelguard/pkg/domain-errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType is a regulated petroleum product.
type ProductType string

const (
	ProductPetrol   ProductType = "petrol"
	ProductDiesel   ProductType = "diesel"
	ProductKerosene ProductType = "kerosene"
	ProductLPG      ProductType = "lpg"
	ProductJetFuel  ProductType = "jet_fuel"
)

var productTypes = map[ProductType]struct{}{
	ProductPetrol:   {},
	ProductDiesel:   {},
	ProductKerosene: {},
	ProductLPG:      {},
	ProductJetFuel:  {},
}

// ParseProductType accepts any casing and surrounding whitespace.
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown product type %q", s)
	}
	return p, nil
}

func (p ProductType) IsValid() bool {
	_, ok := productTypes[p]
	return ok
}

func (p ProductType) String() string {
	return string(p)
}

// DeclaredTaxes holds the amounts the supplier declared, one per tax type.
type DeclaredTaxes struct {
	PetroleumTax           decimal.Decimal
	EnergyFundLevy         decimal.Decimal
	RoadFundLevy           decimal.Decimal
	PriceStabilizationLevy decimal.Decimal
	SubsidyLevy            decimal.Decimal
}

// Amount returns the declared amount for t.
func (d DeclaredTaxes) Amount(t TaxType) decimal.Decimal {
	switch t {
	case TaxPetroleum:
		return d.PetroleumTax
	case TaxEnergyFund:
		return d.EnergyFundLevy
	case TaxRoadFund:
		return d.RoadFundLevy
	case TaxPriceStabilization:
		return d.PriceStabilizationLevy
	case TaxSubsidyLevy:
		return d.SubsidyLevy
	default:
		return decimal.Zero
	}
}

// DeliveryFact describes one physical fuel delivery. It is read-only for the
// duration of a validation run.
type DeliveryFact struct {
	DeliveryID     uuid.UUID
	DeliveryNumber string
	ProductType    ProductType
	// Quantity is in litres at observed temperature.
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	TotalValue        decimal.Decimal
	NetStandardVolume decimal.Decimal
	DeclaredTaxes     DeclaredTaxes

	PermitNumber       string
	CustomsEntryNumber string
	CustomerID         string
	QualityCertificate string
	// QualityResults maps a standards parameter name to the value measured
	// on the quality certificate.
	QualityResults   map[string]float64
	DeliveryLocation string
	DeliveredAt      time.Time
}

// deliveryNamespace seeds deterministic delivery IDs derived from the
// delivery number.
var deliveryNamespace = uuid.MustParse("6f1f0c1e-8a57-4d0f-9f7d-2f6b8a3c9e41")

// PrepareDelivery fills derived fields. It is the explicit calculation stage
// the workflow runs before validation and is safe to apply more than once.
//   - TotalValue defaults to Quantity x UnitPrice when not declared.
//   - NetStandardVolume defaults to Quantity.
//   - DeliveryID defaults to a name-based UUID of the delivery number.
func PrepareDelivery(f DeliveryFact) DeliveryFact {
	f.DeliveryNumber = strings.TrimSpace(f.DeliveryNumber)
	f.ProductType = ProductType(strings.ToLower(strings.TrimSpace(string(f.ProductType))))
	f.PermitNumber = strings.TrimSpace(f.PermitNumber)
	f.CustomsEntryNumber = strings.TrimSpace(f.CustomsEntryNumber)
	f.CustomerID = strings.TrimSpace(f.CustomerID)
	f.QualityCertificate = strings.TrimSpace(f.QualityCertificate)
	f.DeliveryLocation = strings.TrimSpace(f.DeliveryLocation)

	if f.TotalValue.IsZero() && !f.UnitPrice.IsZero() {
		f.TotalValue = f.Quantity.Mul(f.UnitPrice)
	}
	if f.NetStandardVolume.IsZero() {
		f.NetStandardVolume = f.Quantity
	}
	if f.DeliveryID == uuid.Nil && f.DeliveryNumber != "" {
		f.DeliveryID = uuid.NewSHA1(deliveryNamespace, []byte(f.DeliveryNumber))
	}
	return f
}

// Validate rejects facts that cannot support a tax check.
func (f DeliveryFact) Validate() error {
	switch {
	case f.DeliveryID == uuid.Nil && f.DeliveryNumber == "":
		return dErrors.New(dErrors.CodeInvalidInput, "delivery identity is required")
	case !f.ProductType.IsValid():
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown product type %q", f.ProductType))
	case !f.Quantity.IsPositive():
		return dErrors.New(dErrors.CodeInvalidInput, "quantity must be positive")
	case f.TotalValue.IsNegative():
		return dErrors.New(dErrors.CodeInvalidInput, "total value must not be negative")
	}
	return nil
}
