package device

import (
	"context"
	"time"
)

// Repository defines the interface for device persistence.
type Repository interface {
	// Get retrieves a device by ID.
	Get(ctx context.Context, deviceID string) (*Device, error)

	// List retrieves registered devices, newest first.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Create creates a new device.
	Create(ctx context.Context, device *Device) error

	// Touch updates a device's last-seen timestamp.
	Touch(ctx context.Context, deviceID string, seenAt time.Time) error

	// Delete deletes a device.
	Delete(ctx context.Context, deviceID string) error
}
