package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/wire"
	"fuelguard/internal/platform/middleware"
	dErrors "fuelguard/pkg/domain-errors"
	"fuelguard/pkg/platform/httputil"
)

// Service validates one prepared delivery.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Validate(ctx context.Context, fact models.DeliveryFact) (*models.ComplianceReport, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/compliance/validate", h.HandleValidate)
}

// HandleValidate maps the request onto a DeliveryFact, runs the explicit
// preparation stage and returns the compliance report.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[wire.DeliveryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fact := models.PrepareDelivery(req.ToFact())
	report, err := h.service.Validate(ctx, fact)
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeCanceled, dErrors.CodeInvalidInput:
			h.logger.WarnContext(ctx, "compliance validation rejected",
				"error", err,
				"request_id", requestID,
				"delivery_number", fact.DeliveryNumber,
			)
		default:
			h.logger.ErrorContext(ctx, "compliance validation failed",
				"error", err,
				"request_id", requestID,
				"delivery_number", fact.DeliveryNumber,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wire.FromReport(*report))
}
