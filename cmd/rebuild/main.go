// rebuild replays every BookingCreated event into the booking read-model
// table, inserting rows that are missing. Safe to run while the server is
// up; existing rows are left alone.
// Run: go run ./cmd/rebuild
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"bookingengine/internal/infrastructure/postgres"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repaired, err := postgres.NewBookingRepository(pool).RebuildReadModels(ctx)
	if err != nil {
		log.Fatalf("rebuild read models: %v", err)
	}

	fmt.Println("Rebuild complete")
	fmt.Printf("  Rows inserted: %d\n", repaired)
}
