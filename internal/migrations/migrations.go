// Migrations in Go; the order is fixed by the list. All Up functions live
// in up.go. schema_version is created by the first migration.
package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Runner applies migrations in order.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// Up applies every migration in order.
func (r *Runner) Up(ctx context.Context) error {
	for i, m := range migrations {
		if err := m.Up(ctx, r.pool); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i, m.Name, err)
		}
	}
	return nil
}

type migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Order matters.
var migrations = []migration{
	{Name: "create_users", Up: UpUsers},
	{Name: "create_devices", Up: UpDevices},
	{Name: "create_facilities", Up: UpFacilities},
	{Name: "create_educational_content", Up: UpEducationalContent},
	{Name: "create_marketplace_listings", Up: UpMarketplaceListings},
	{Name: "create_recycling", Up: UpRecycling},
	{Name: "create_pickup_requests", Up: UpPickupRequests},
	{Name: "create_mass_collection_requests", Up: UpMassCollectionRequests},
	{Name: "create_chat_logs", Up: UpChatLogs},
}
