package models

// DeviceRegisterRequest is the body for POST /v1/devices.
type DeviceRegisterRequest struct {
	// Name is a human-readable label for the field unit.
	Name string `json:"name"`

	// VehicleID optionally links the device to a fleet vehicle.
	VehicleID *string `json:"vehicleId,omitempty"`
}

// DeviceRegistration is the response for a successful registration.
type DeviceRegistration struct {
	DeviceID  string    `json:"deviceId"`
	Name      string    `json:"name"`
	VehicleID *string   `json:"vehicleId,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt Timestamp `json:"expiresAt"`
	CreatedAt Timestamp `json:"createdAt"`
}
