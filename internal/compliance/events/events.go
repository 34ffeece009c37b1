// Package events publishes the "validation completed" event emitted after
// every compliance run.
package events

import (
	"encoding/json"
	"time"

	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/wire"

	"github.com/google/uuid"
)

const EventTypeValidationCompleted = "compliance.validation.completed"

// ValidationCompleted carries the delivery identity and the full report.
type ValidationCompleted struct {
	EventID        uuid.UUID
	DeliveryID     uuid.UUID
	DeliveryNumber string
	OccurredAt     time.Time
	Report         models.ComplianceReport
}

func NewValidationCompleted(report models.ComplianceReport, at time.Time) ValidationCompleted {
	return ValidationCompleted{
		EventID:        uuid.New(),
		DeliveryID:     report.DeliveryID,
		DeliveryNumber: report.DeliveryNumber,
		OccurredAt:     at,
		Report:         report,
	}
}

type envelope struct {
	EventID          string      `json:"eventId"`
	EventType        string      `json:"eventType"`
	DeliveryID       string      `json:"deliveryId"`
	DeliveryNumber   string      `json:"deliveryNumber"`
	OccurredAt       time.Time   `json:"occurredAt"`
	ComplianceReport wire.Report `json:"complianceReport"`
}

// Encode renders e as the JSON payload observers consume.
func Encode(e ValidationCompleted) ([]byte, error) {
	return json.Marshal(envelope{
		EventID:          e.EventID.String(),
		EventType:        EventTypeValidationCompleted,
		DeliveryID:       e.DeliveryID.String(),
		DeliveryNumber:   e.DeliveryNumber,
		OccurredAt:       e.OccurredAt,
		ComplianceReport: wire.FromReport(e.Report),
	})
}
