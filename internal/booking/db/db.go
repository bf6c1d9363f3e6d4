package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

// DB is the bun-backed booking store.
type DB struct {
	Bun    *bun.DB
	Logger *logger.Logger
}

func New(bunDB *bun.DB, log *logger.Logger) *DB {
	if log == nil {
		log = logger.Discard()
	}
	return &DB{Bun: bunDB, Logger: log}
}

// Open connects to sqlite or postgres, retrying the ping a few times.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var (
		driverName string
		newDB      func(*sql.DB) *bun.DB
	)
	switch cfg.Driver {
	case config.StoreSQLite:
		driverName = sqliteshim.ShimName
		newDB = func(sqldb *sql.DB) *bun.DB { return bun.NewDB(sqldb, sqlitedialect.New()) }
	case config.StorePostgres:
		driverName = "postgres"
		newDB = func(sqldb *sql.DB) *bun.DB { return bun.NewDB(sqldb, pgdialect.New()) }
	default:
		return nil, fmt.Errorf("unsupported booking store driver %q", cfg.Driver)
	}

	sqldb, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", cfg.Driver, i+1, maxRetries))
		if err = sqldb.PingContext(ctx); err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				sqldb.Close()
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("connect %s after %d attempts: %w", cfg.Driver, maxRetries, err)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return newDB(sqldb), nil
}

func (d *DB) Create(ctx context.Context, b *models.Booking) error {
	if _, err := d.Bun.NewInsert().Model(b).Exec(ctx); err != nil {
		return fmt.Errorf("insert booking %s: %w", b.BookingID, err)
	}
	d.Logger.LogDatabase("INSERT", "bookings", b.BookingID)
	return nil
}

func (d *DB) Get(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("booking_id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("booking %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select booking %s: %w", id, err)
	}
	return &booking, nil
}

func (d *DB) Update(ctx context.Context, b *models.Booking) error {
	res, err := d.Bun.NewUpdate().
		Model(b).
		Column("status", "route_id", "search_date", "schedule", "seat_number",
			"passenger", "payment", "confirmation_code", "ticket", "updated_at").
		Where("booking_id = ?", b.BookingID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update booking %s: %w", b.BookingID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("booking %s not found", b.BookingID)
	}
	d.Logger.LogDatabase("UPDATE", "bookings", fmt.Sprintf("%s -> %s", b.BookingID, b.Status))
	return nil
}

func (d *DB) List(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("created_at DESC", "booking_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}
