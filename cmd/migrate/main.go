package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"ms-bus-booking/internal/booking/db"
	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/logger"
)

// Creates the bookings schema on the configured sqlite or postgres store.
func main() {
	reset := flag.Bool("reset", false, "drop the bookings table before creating it")
	flag.Parse()

	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLoggerInDir(cfg.Log.Dir)
	defer log.Close()
	if level, ok := logger.ParseLevel(cfg.Log.Level); ok {
		log.SetLevel(level)
	}
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	if cfg.Database.Driver == config.StoreMemory {
		log.Fatal("CONFIG", "BOOKING_STORE is memory; nothing to migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bunDB, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect: %v", err))
	}
	defer bunDB.Close()

	store := db.New(bunDB, log)
	if *reset {
		log.Warn("DATABASE", "Dropping bookings table")
		err = store.Reset(ctx)
	} else {
		err = store.Migrate(ctx)
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	log.Info("DATABASE", "✅ Done.")
}
