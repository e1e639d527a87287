package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fieldroute/fieldroute/internal/api/models"
	"github.com/fieldroute/fieldroute/internal/api/response"
	"github.com/fieldroute/fieldroute/internal/device"
)

// DeviceHandler handles device registration endpoints.
type DeviceHandler struct {
	devices *device.Service
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(devices *device.Service) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// Register handles POST /v1/devices - register a field unit and mint its token.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.DeviceRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "name", Message: "required", Code: "REQUIRED"},
		})
		return
	}

	reg, err := h.devices.Register(r.Context(), device.RegisterInput{
		Name:      input.Name,
		VehicleID: input.VehicleID,
	})
	if err != nil {
		response.InternalError(w, r, "failed to register device")
		return
	}

	result := models.DeviceRegistration{
		DeviceID:  reg.Device.ID,
		Name:      reg.Device.Name,
		VehicleID: reg.Device.VehicleID,
		Token:     reg.Token,
		ExpiresAt: models.Timestamp(reg.ExpiresAt),
		CreatedAt: models.Timestamp(reg.Device.CreatedAt),
	}

	location := fmt.Sprintf("/v1/devices/%s", reg.Device.ID)
	response.Created(w, r, location, result)
}
