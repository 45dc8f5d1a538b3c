// All migrations in one file; the order is fixed by the list in
// migrations.go.
package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func record(ctx context.Context, pool *pgxpool.Pool, version int, name string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES ($1, $2)
		ON CONFLICT (version) DO NOTHING
	`, version, name)
	return err
}

// 1: schema_version + users
func UpUsers(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INT PRIMARY KEY,
			name    TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id       BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			credits       INT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 1, "create_users")
}

// 2: devices catalog with seed rows
func UpDevices(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS devices (
			device_id     BIGSERIAL PRIMARY KEY,
			model_name    TEXT NOT NULL UNIQUE,
			category      TEXT NOT NULL,
			gold          DOUBLE PRECISION NOT NULL DEFAULT 0,
			silver        DOUBLE PRECISION NOT NULL DEFAULT 0,
			copper        DOUBLE PRECISION NOT NULL DEFAULT 0,
			credits_value INT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO devices (model_name, category, gold, silver, copper, credits_value) VALUES
			('iPhone 12',        'Smartphone', 0.034, 0.34,  15.0, 50),
			('iPhone 11',        'Smartphone', 0.032, 0.32,  14.5, 45),
			('Galaxy S21',       'Smartphone', 0.030, 0.30,  14.0, 45),
			('Galaxy S20',       'Smartphone', 0.028, 0.28,  13.5, 40),
			('Redmi Note 10',    'Smartphone', 0.025, 0.25,  12.0, 30),
			('MacBook Air M1',   'Laptop',     0.100, 0.80,  50.0, 120),
			('Dell Inspiron 15', 'Laptop',     0.080, 0.70,  45.0, 90),
			('HP Pavilion 14',   'Laptop',     0.075, 0.65,  42.0, 85),
			('iPad Air',         'Tablet',     0.050, 0.45,  25.0, 60),
			('Galaxy Tab S7',    'Tablet',     0.045, 0.42,  24.0, 55),
			('Apple Watch SE',   'Wearable',   0.010, 0.10,   4.0, 25),
			('AirPods Pro',      'Audio',      0.008, 0.08,   3.0, 20),
			('CRT Monitor',      'Monitor',    0.020, 0.25,  90.0, 35),
			('LED Monitor 24',   'Monitor',    0.015, 0.20,  60.0, 30)
		ON CONFLICT (model_name) DO NOTHING
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 2, "create_devices")
}

// 3: facilities
func UpFacilities(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS facilities (
			facility_id     BIGSERIAL PRIMARY KEY,
			name            TEXT NOT NULL,
			address         TEXT NOT NULL,
			latitude        DOUBLE PRECISION NOT NULL,
			longitude       DOUBLE PRECISION NOT NULL,
			contact         TEXT,
			operating_hours TEXT,
			website         TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 3, "create_facilities")
}

// 4: educational content with seed facts
func UpEducationalContent(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS educational_content (
			content_id  BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			image_url   TEXT,
			category    TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO educational_content (title, description, category)
		SELECT * FROM (VALUES
			('What counts as e-waste?',
			 'Any discarded device with a plug, battery or circuit board: phones, laptops, chargers, monitors, appliances.',
			 'basics'),
			('Why recycle electronics?',
			 'A tonne of circuit boards holds 40 to 800 times more gold than a tonne of ore, and keeps lead and mercury out of landfills.',
			 'impact'),
			('Wipe your data first',
			 'Factory-reset phones and laptops and remove SIM and storage cards before dropping devices off.',
			 'preparation'),
			('Batteries need separate handling',
			 'Lithium batteries can ignite when crushed. Never put them in household bins; use a certified collection point.',
			 'safety')
		) AS seed(title, description, category)
		WHERE NOT EXISTS (SELECT 1 FROM educational_content)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 4, "create_educational_content")
}

// 5: marketplace listings
func UpMarketplaceListings(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS marketplace_listings (
			listing_id     BIGSERIAL PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(user_id),
			device_name    TEXT NOT NULL,
			condition_type TEXT NOT NULL CHECK (condition_type IN ('excellent', 'good', 'fair', 'poor')),
			price          NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
			description    TEXT,
			image_url      TEXT,
			status         TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'sold', 'removed')),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 5, "create_marketplace_listings")
}

// 6: recycling requests + history
func UpRecycling(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS recycling_requests (
			request_id       BIGSERIAL PRIMARY KEY,
			user_id          BIGINT NOT NULL REFERENCES users(user_id),
			device_id        BIGINT NOT NULL REFERENCES devices(device_id),
			facility_id      BIGINT REFERENCES facilities(facility_id),
			year_of_purchase INT,
			status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
			submitted_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			processed_at     TIMESTAMPTZ,
			processed_by     BIGINT REFERENCES users(user_id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS recycling_history (
			history_id     BIGSERIAL PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(user_id),
			device_id      BIGINT NOT NULL REFERENCES devices(device_id),
			facility_id    BIGINT REFERENCES facilities(facility_id),
			credits_earned INT NOT NULL DEFAULT 0,
			recycled_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 6, "create_recycling")
}

// 7: pickup requests; the (district, scheduled_date) index backs the
// capacity count on every booking
func UpPickupRequests(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pickup_requests (
			pickup_id      BIGSERIAL PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(user_id),
			device_id      BIGINT NOT NULL REFERENCES devices(device_id),
			address        TEXT NOT NULL,
			district       TEXT NOT NULL,
			scheduled_date DATE NOT NULL,
			scheduled_time TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'scheduled', 'picked_up', 'completed', 'cancelled')),
			tracking_note  TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_pickup_requests_district_date
		ON pickup_requests (district, scheduled_date)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 7, "create_pickup_requests")
}

// 8: mass collection requests
func UpMassCollectionRequests(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS mass_collection_requests (
			collection_id   BIGSERIAL PRIMARY KEY,
			org_name        TEXT NOT NULL,
			org_type        TEXT NOT NULL CHECK (org_type IN ('College', 'Company', 'Industry', 'Government', 'NGO')),
			contact_person  TEXT,
			contact_phone   TEXT,
			contact_email   TEXT,
			address         TEXT NOT NULL,
			pincode         TEXT,
			estimated_items INT,
			scheduled_date  DATE,
			scheduled_time  TEXT,
			status          TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'scheduled', 'in_progress', 'completed', 'cancelled')),
			tracking_note   TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_mass_collection_contact_email
		ON mass_collection_requests (contact_email)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 8, "create_mass_collection_requests")
}

// 9: chat logs
func UpChatLogs(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_logs (
			chat_log_id BIGSERIAL PRIMARY KEY,
			user_id     BIGINT REFERENCES users(user_id) ON DELETE SET NULL,
			question    TEXT NOT NULL,
			answer      TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	return record(ctx, pool, 9, "create_chat_logs")
}
