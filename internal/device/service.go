package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/auth"
)

// RegisterInput holds the fields needed to register a field unit.
type RegisterInput struct {
	Name      string
	VehicleID *string
}

// Registration is the result of registering a device: the stored record
// plus the access token the device authenticates with.
type Registration struct {
	Device    *Device
	Token     string
	ExpiresAt time.Time
}

// ServiceConfig holds configuration for the device service.
type ServiceConfig struct {
	Repository Repository
	JWT        *auth.JWTService
	Logger     zerolog.Logger
}

// Service provides device registration and lookup.
type Service struct {
	repo   Repository
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewService creates a new device service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		jwt:    cfg.JWT,
		logger: cfg.Logger,
	}
}

// Register stores a new device and mints its access token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Registration, error) {
	now := time.Now()

	device := &Device{
		ID:        newDeviceID(),
		Name:      input.Name,
		VehicleID: input.VehicleID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	token, expiresAt, err := s.jwt.GenerateDeviceToken(device.ID)
	if err != nil {
		return nil, fmt.Errorf("generating device token: %w", err)
	}

	s.logger.Info().
		Str("device_id", device.ID).
		Str("name", device.Name).
		Msg("device registered")

	return &Registration{
		Device:    device,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Get retrieves a device by ID.
func (s *Service) Get(ctx context.Context, deviceID string) (*Device, error) {
	return s.repo.Get(ctx, deviceID)
}

// Touch records activity for a device. Failures are logged but not
// returned: last-seen bookkeeping must never fail a fix submission.
func (s *Service) Touch(ctx context.Context, deviceID string) {
	if err := s.repo.Touch(ctx, deviceID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Str("device_id", deviceID).Msg("failed to update device last-seen")
	}
}

// newDeviceID generates a device ID.
func newDeviceID() string {
	return "dev_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
