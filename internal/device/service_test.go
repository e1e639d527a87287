package device

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldroute/fieldroute/internal/auth"
)

func testService() *Service {
	return NewService(ServiceConfig{
		Repository: NewInMemoryRepository(),
		JWT: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-signing-key",
			Issuer:     "https://api.fieldroute.io",
			Audience:   "fieldroute-guidance",
		}),
		Logger: zerolog.Nop(),
	})
}

func TestService_Register(t *testing.T) {
	service := testService()
	ctx := context.Background()

	vehicleID := "van-17"
	reg, err := service.Register(ctx, RegisterInput{
		Name:      "Jan's terminal",
		VehicleID: &vehicleID,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(reg.Device.ID, "dev_"), "device ID %q should have dev_ prefix", reg.Device.ID)
	assert.Equal(t, "Jan's terminal", reg.Device.Name)
	require.NotNil(t, reg.Device.VehicleID)
	assert.Equal(t, "van-17", *reg.Device.VehicleID)
	assert.NotEmpty(t, reg.Token)
	assert.WithinDuration(t, time.Now().Add(auth.DeviceTokenExpiry), reg.ExpiresAt, time.Minute)

	// The minted token authenticates as the new device.
	deviceID, err := service.jwt.ValidateDeviceToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Device.ID, deviceID)

	// The device is retrievable.
	stored, err := service.Get(ctx, reg.Device.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.Device.Name, stored.Name)
	assert.Nil(t, stored.LastSeenAt)
}

func TestService_Register_UniqueIDs(t *testing.T) {
	service := testService()
	ctx := context.Background()

	first, err := service.Register(ctx, RegisterInput{Name: "a"})
	require.NoError(t, err)
	second, err := service.Register(ctx, RegisterInput{Name: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Device.ID, second.Device.ID)
}

func TestService_Touch_UpdatesLastSeen(t *testing.T) {
	service := testService()
	ctx := context.Background()

	reg, err := service.Register(ctx, RegisterInput{Name: "terminal"})
	require.NoError(t, err)

	service.Touch(ctx, reg.Device.ID)

	stored, err := service.Get(ctx, reg.Device.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastSeenAt)
	assert.WithinDuration(t, time.Now(), *stored.LastSeenAt, time.Minute)
}

func TestService_Touch_UnknownDeviceDoesNotPanic(t *testing.T) {
	service := testService()

	// Touch is best-effort; unknown devices are logged, not fatal.
	service.Touch(context.Background(), "dev_missing")
}

func TestService_Get_NotFound(t *testing.T) {
	service := testService()

	_, err := service.Get(context.Background(), "dev_missing")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestInMemoryRepository_Delete(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	device := &Device{ID: "dev_1", Name: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, device))

	require.NoError(t, repo.Delete(ctx, "dev_1"))
	_, err := repo.Get(ctx, "dev_1")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "dev_1"), ErrDeviceNotFound)
}

func TestInMemoryRepository_List_NewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"dev_a", "dev_b", "dev_c"} {
		require.NoError(t, repo.Create(ctx, &Device{
			ID:        id,
			Name:      id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	result, err := repo.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "dev_c", result.Items[0].ID)
	assert.Equal(t, "dev_b", result.Items[1].ID)
}
