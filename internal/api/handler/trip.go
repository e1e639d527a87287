package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldroute/fieldroute/internal/api/middleware"
	"github.com/fieldroute/fieldroute/internal/api/models"
	"github.com/fieldroute/fieldroute/internal/api/response"
	"github.com/fieldroute/fieldroute/internal/device"
	"github.com/fieldroute/fieldroute/internal/guidance"
	"github.com/fieldroute/fieldroute/internal/routing"
	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// TripHandler handles trip lifecycle endpoints: creation, the fix stream,
// state reads, and cancellation.
type TripHandler struct {
	provider routing.Provider
	guidance *guidance.Manager
	devices  *device.Service
	metrics  *middleware.ProviderMetrics
}

// TripHandlerConfig holds dependencies for the trip handler.
type TripHandlerConfig struct {
	Provider routing.Provider
	Guidance *guidance.Manager
	Devices  *device.Service

	// Metrics records directions-provider call metrics (optional).
	Metrics *middleware.ProviderMetrics
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(cfg TripHandlerConfig) *TripHandler {
	return &TripHandler{
		provider: cfg.Provider,
		guidance: cfg.Guidance,
		devices:  cfg.Devices,
		metrics:  cfg.Metrics,
	}
}

// Start handles POST /v1/trips - fetch a route and begin guidance.
func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	profile, err := parseProfile(input.Profile)
	if err != nil {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "profile", Message: err.Error(), Code: "INVALID"},
		})
		return
	}

	start := time.Now()
	route, err := h.provider.GetRoute(r.Context(), routing.RouteRequest{
		Origin:      routing.Coordinate{Lat: input.Origin.Lat, Lon: input.Origin.Lon},
		Destination: routing.Coordinate{Lat: input.Destination.Lat, Lon: input.Destination.Lon},
		Profile:     profile,
	})
	if h.metrics != nil {
		h.metrics.RecordRequest(h.provider.Name(), "get-route", time.Since(start), err)
	}
	if err != nil {
		h.writeRoutingError(w, r, err)
		return
	}

	tripID, state, err := h.guidance.Start(r.Context(), route)
	if err != nil {
		if errors.Is(err, guidance.ErrEmptyRoute) {
			response.BadRequest(w, r, "route has no navigable steps", nil)
			return
		}
		response.InternalError(w, r, "failed to start guidance")
		return
	}

	h.devices.Touch(r.Context(), GetDeviceID(r.Context()))

	trip := models.Trip{
		TripID: tripID,
		Route: models.RouteSummary{
			Provider:        route.Provider,
			DistanceMeters:  route.DistanceMeters,
			DurationSeconds: route.DurationSeconds,
			StepCount:       len(route.Steps),
			Geometry:        route.GeometryPolyline,
		},
		State: toTripState(state),
	}

	location := fmt.Sprintf("/v1/trips/%s", tripID)
	response.Created(w, r, location, trip)
}

// SubmitFix handles POST /v1/trips/{tripId}/fixes - process one position fix.
func (h *TripHandler) SubmitFix(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	var input models.FixSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateFix(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	fix := guidance.PositionFix{
		Coordinate: polyline.Coordinate{Lat: input.Lat, Lon: input.Lon},
		Timestamp:  input.Timestamp.Time(),
		Heading:    -1,
	}
	if input.Heading != nil {
		fix.Heading = *input.Heading
	}
	if input.AccuracyMeters != nil {
		fix.AccuracyMeters = *input.AccuracyMeters
	}

	state, err := h.guidance.Fix(r.Context(), tripID, fix)
	if err != nil {
		if errors.Is(err, guidance.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to process fix")
		return
	}

	h.devices.Touch(r.Context(), GetDeviceID(r.Context()))

	response.JSON(w, r, http.StatusOK, models.TripStateResponse{
		TripID: tripID,
		State:  toTripState(state),
	})
}

// GetState handles GET /v1/trips/{tripId} - read the current state snapshot.
func (h *TripHandler) GetState(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	state, err := h.guidance.State(tripID)
	if err != nil {
		if errors.Is(err, guidance.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to read trip state")
		return
	}

	response.JSON(w, r, http.StatusOK, models.TripStateResponse{
		TripID: tripID,
		State:  toTripState(state),
	})
}

// End handles DELETE /v1/trips/{tripId} - cancel guidance for a trip.
func (h *TripHandler) End(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	if err := h.guidance.End(tripID); err != nil {
		if errors.Is(err, guidance.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to end trip")
		return
	}

	response.NoContent(w, r)
}

// writeRoutingError maps directions-provider errors onto problem responses.
func (h *TripHandler) writeRoutingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "invalid origin or destination coordinates", nil)
	case errors.Is(err, routing.ErrNoRouteFound):
		response.NotFound(w, r, "no route found between the given points")
	case errors.Is(err, routing.ErrRateLimitExceeded):
		response.ServiceUnavailable(w, r, "directions provider rate limit exceeded")
	default:
		response.ServiceUnavailable(w, r, "directions provider is unavailable")
	}
}

// parseProfile validates the requested routing profile, defaulting to
// driving-car.
func parseProfile(s string) (routing.RouteProfile, error) {
	switch routing.RouteProfile(s) {
	case "":
		return routing.ProfileDriving, nil
	case routing.ProfileDriving:
		return routing.ProfileDriving, nil
	case routing.ProfileDrivingHGV:
		return routing.ProfileDrivingHGV, nil
	default:
		return "", fmt.Errorf("unsupported profile %q", s)
	}
}

// validateFix checks coordinate ranges, timestamp presence, and heading range.
func validateFix(input *models.FixSubmitRequest) []models.FieldError {
	var fieldErrors []models.FieldError

	if input.Lat < -90 || input.Lat > 90 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "lat", Message: "must be between -90 and 90", Code: "OUT_OF_RANGE",
		})
	}
	if input.Lon < -180 || input.Lon > 180 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "lon", Message: "must be between -180 and 180", Code: "OUT_OF_RANGE",
		})
	}
	if input.Timestamp.Time().IsZero() {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "timestamp", Message: "required", Code: "REQUIRED",
		})
	}
	if input.Heading != nil && (*input.Heading < 0 || *input.Heading >= 360) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "heading", Message: "must be between 0 and 360", Code: "OUT_OF_RANGE",
		})
	}

	return fieldErrors
}

// toTripState converts a guidance snapshot to its API representation.
func toTripState(state guidance.State) models.TripState {
	result := models.TripState{
		StepIndex:                state.StepIndex,
		Instruction:              state.Instruction,
		DistanceToManeuverMeters: state.DistanceToManeuverMeters,
		DistanceAlongRoute:       state.DistanceAlongRoute,
		RemainingDistanceMeters:  state.RemainingDistanceMeters,
		FixStatus:                string(state.LastFixStatus),
		Advanced:                 state.Advanced,
		Completed:                state.Completed,
		UpdatedAt:                models.Timestamp(state.UpdatedAt),
	}

	if state.HasETA {
		remaining := state.RemainingSeconds
		result.RemainingSeconds = &remaining
	}
	if state.Valid {
		result.Position = &models.Point{Lat: state.Position.Lat, Lon: state.Position.Lon}
	}

	return result
}
