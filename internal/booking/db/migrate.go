package db

import (
	"context"
	"fmt"

	"ms-bus-booking/internal/models"
)

// Migrate creates the bookings table and its status index when missing.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Bun.NewCreateTable().
		Model((*models.Booking)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}

	if _, err := d.Bun.NewCreateIndex().
		Model((*models.Booking)(nil)).
		Index("bookings_status_idx").
		Column("status").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create bookings status index: %w", err)
	}

	d.Logger.LogDatabase("MIGRATE", "bookings", "✅ bookings table ready")
	return nil
}

// Reset drops the bookings table and recreates it empty.
func (d *DB) Reset(ctx context.Context) error {
	if _, err := d.Bun.NewDropTable().
		Model((*models.Booking)(nil)).
		IfExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("drop bookings table: %w", err)
	}
	d.Logger.LogDatabase("DROP", "bookings", "bookings table dropped")
	return d.Migrate(ctx)
}
