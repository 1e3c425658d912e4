package postgres

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id serial PRIMARY KEY,
		username text NOT NULL UNIQUE,
		password text NOT NULL,
		name text NOT NULL,
		role text NOT NULL DEFAULT 'user',
		email text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id serial PRIMARY KEY,
		name text NOT NULL,
		sku text NOT NULL UNIQUE,
		description text,
		category text NOT NULL,
		quantity integer NOT NULL DEFAULT 0,
		min_quantity integer NOT NULL DEFAULT 10,
		price numeric NOT NULL,
		cost numeric NOT NULL,
		status text NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id serial PRIMARY KEY,
		name text NOT NULL,
		email text,
		phone text,
		address text,
		company text,
		is_active boolean NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id serial PRIMARY KEY,
		client_id integer NOT NULL,
		date timestamptz NOT NULL,
		status text NOT NULL DEFAULT 'pending',
		total numeric NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id serial PRIMARY KEY,
		order_id integer NOT NULL,
		product_id integer NOT NULL,
		quantity integer NOT NULL,
		price numeric NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id serial PRIMARY KEY,
		category text NOT NULL,
		amount numeric NOT NULL,
		date timestamptz NOT NULL,
		description text
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_requests (
		id serial PRIMARY KEY,
		product_id integer,
		product_name text NOT NULL,
		quantity integer NOT NULL,
		priority text NOT NULL DEFAULT 'medium',
		notes text,
		status text NOT NULL DEFAULT 'pending',
		user_id integer NOT NULL,
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id serial PRIMARY KEY,
		type text NOT NULL,
		description text NOT NULL,
		timestamp timestamptz NOT NULL,
		user_id integer,
		related_id integer,
		related_type text
	)`,
	`CREATE INDEX IF NOT EXISTS activities_timestamp_idx ON activities (timestamp DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id)`,
}

// Bootstrap creates the tables when they are missing. Statements are
// idempotent so repeated startups are safe.
func Bootstrap(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("ensuring database schema...")
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
