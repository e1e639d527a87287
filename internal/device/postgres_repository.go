package device

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL device repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a device by ID.
func (r *PostgresRepository) Get(ctx context.Context, deviceID string) (*Device, error) {
	query := `
		SELECT id, name, vehicle_id, created_at, updated_at, last_seen_at
		FROM devices
		WHERE id = $1
	`

	var device Device

	err := r.pool.QueryRow(ctx, query, deviceID).Scan(
		&device.ID,
		&device.Name,
		&device.VehicleID,
		&device.CreatedAt,
		&device.UpdatedAt,
		&device.LastSeenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	return &device, nil
}

// List retrieves registered devices, newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `
		SELECT id, name, vehicle_id, created_at, updated_at, last_seen_at
		FROM devices
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*Device
	for rows.Next() {
		var device Device
		err := rows.Scan(
			&device.ID,
			&device.Name,
			&device.VehicleID,
			&device.CreatedAt,
			&device.UpdatedAt,
			&device.LastSeenAt,
		)
		if err != nil {
			return nil, err
		}
		devices = append(devices, &device)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: devices,
	}

	if len(devices) > limit {
		result.Items = devices[:limit]
		result.NextCursor = devices[limit-1].ID
	}

	return result, nil
}

// Create creates a new device.
func (r *PostgresRepository) Create(ctx context.Context, device *Device) error {
	query := `
		INSERT INTO devices (id, name, vehicle_id, created_at, updated_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		device.ID,
		device.Name,
		device.VehicleID,
		device.CreatedAt,
		device.UpdatedAt,
		device.LastSeenAt,
	)
	return err
}

// Touch updates a device's last-seen timestamp.
func (r *PostgresRepository) Touch(ctx context.Context, deviceID string, seenAt time.Time) error {
	query := `
		UPDATE devices
		SET last_seen_at = $2, updated_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, deviceID, seenAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// Delete deletes a device.
func (r *PostgresRepository) Delete(ctx context.Context, deviceID string) error {
	query := `DELETE FROM devices WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, deviceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeviceNotFound
	}

	return nil
}
