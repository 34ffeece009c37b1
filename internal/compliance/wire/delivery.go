package wire

import (
	"strings"
	"time"

	"fuelguard/internal/compliance/models"
	dErrors "fuelguard/pkg/domain-errors"
	"fuelguard/pkg/platform/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeclaredTaxes struct {
	PetroleumTax           decimal.Decimal `json:"petroleumTax"`
	EnergyFundLevy         decimal.Decimal `json:"energyFundLevy"`
	RoadFundLevy           decimal.Decimal `json:"roadFundLevy"`
	PriceStabilizationLevy decimal.Decimal `json:"priceStabilizationLevy"`
	SubsidyLevy            decimal.Decimal `json:"subsidyLevy"`
}

// DeliveryRequest is the JSON body of a validation request.
type DeliveryRequest struct {
	DeliveryID         string             `json:"deliveryId"`
	DeliveryNumber     string             `json:"deliveryNumber"`
	ProductType        string             `json:"productType"`
	Quantity           decimal.Decimal    `json:"quantity"`
	UnitPrice          decimal.Decimal    `json:"unitPrice"`
	TotalValue         decimal.Decimal    `json:"totalValue"`
	NetStandardVolume  decimal.Decimal    `json:"netStandardVolume"`
	DeclaredTaxes      DeclaredTaxes      `json:"declaredTaxes"`
	PermitNumber       string             `json:"npaPermitNumber"`
	CustomsEntryNumber string             `json:"customsEntryNumber"`
	CustomerID         string             `json:"customerId"`
	QualityCertificate string             `json:"qualityCertificate"`
	QualityResults     map[string]float64 `json:"qualityResults"`
	DeliveryLocation   string             `json:"deliveryLocation"`
	DeliveredAt        *time.Time         `json:"deliveredAt"`
}

func (r *DeliveryRequest) Normalize() {
	r.DeliveryID = strings.TrimSpace(r.DeliveryID)
	r.DeliveryNumber = strings.TrimSpace(r.DeliveryNumber)
	r.ProductType = strings.ToLower(strings.TrimSpace(r.ProductType))
}

// Validate checks what the JSON shape alone can tell. Business validation
// happens on the resulting DeliveryFact.
func (r *DeliveryRequest) Validate() error {
	if r.DeliveryID != "" {
		if _, err := uuid.Parse(r.DeliveryID); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "deliveryId must be a UUID")
		}
	}
	if r.DeliveryNumber == "" && r.DeliveryID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "deliveryNumber or deliveryId is required")
	}
	if _, err := models.ParseProductType(r.ProductType); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	return r.checkLimits()
}

func (r *DeliveryRequest) checkLimits() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"deliveryNumber", r.DeliveryNumber, validation.MaxDeliveryNumberLength},
		{"npaPermitNumber", r.PermitNumber, validation.MaxIdentifierLength},
		{"customsEntryNumber", r.CustomsEntryNumber, validation.MaxIdentifierLength},
		{"customerId", r.CustomerID, validation.MaxIdentifierLength},
		{"qualityCertificate", r.QualityCertificate, validation.MaxIdentifierLength},
		{"deliveryLocation", r.DeliveryLocation, validation.MaxLocationLength},
	} {
		if err := validation.CheckStringLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	if err := validation.CheckCount("qualityResults", len(r.QualityResults), validation.MaxQualityResults); err != nil {
		return err
	}
	return validation.CheckEachKeyLength("qualityResults", r.QualityResults, validation.MaxParameterNameLength)
}

// ToFact maps a validated request onto a DeliveryFact.
func (r *DeliveryRequest) ToFact() models.DeliveryFact {
	f := models.DeliveryFact{
		DeliveryNumber:    r.DeliveryNumber,
		ProductType:       models.ProductType(r.ProductType),
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		TotalValue:        r.TotalValue,
		NetStandardVolume: r.NetStandardVolume,
		DeclaredTaxes: models.DeclaredTaxes{
			PetroleumTax:           r.DeclaredTaxes.PetroleumTax,
			EnergyFundLevy:         r.DeclaredTaxes.EnergyFundLevy,
			RoadFundLevy:           r.DeclaredTaxes.RoadFundLevy,
			PriceStabilizationLevy: r.DeclaredTaxes.PriceStabilizationLevy,
			SubsidyLevy:            r.DeclaredTaxes.SubsidyLevy,
		},
		PermitNumber:       r.PermitNumber,
		CustomsEntryNumber: r.CustomsEntryNumber,
		CustomerID:         r.CustomerID,
		QualityCertificate: r.QualityCertificate,
		QualityResults:     r.QualityResults,
		DeliveryLocation:   r.DeliveryLocation,
	}
	if id, err := uuid.Parse(r.DeliveryID); err == nil {
		f.DeliveryID = id
	}
	if r.DeliveredAt != nil {
		f.DeliveredAt = *r.DeliveredAt
	}
	return f
}
