package database

import (
	"context"
	"log"
)

// schemaStatements crée les tables du keyspace si elles n'existent pas.
// Les tables *_by_* sont des vues inverses maintenues par le code.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id uuid PRIMARY KEY,
		username text,
		email text,
		password text,
		verification_token text,
		is_verified boolean,
		role text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id uuid
	)`,
	`CREATE TABLE IF NOT EXISTS user_activity (
		user_id uuid,
		created_at timestamp,
		action text,
		PRIMARY KEY (user_id, created_at)
	) WITH CLUSTERING ORDER BY (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		name text,
		description text,
		price double,
		category text,
		stock int,
		image_url text,
		average_rating double,
		review_count int,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category text PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id uuid,
		product_id uuid,
		quantity int,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id uuid PRIMARY KEY,
		user_id uuid,
		shipping_address text,
		status text,
		total_amount double,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS orders_by_user (
		user_id uuid,
		created_at timestamp,
		order_id uuid,
		PRIMARY KEY (user_id, created_at, order_id)
	) WITH CLUSTERING ORDER BY (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id uuid,
		product_id uuid,
		product_name text,
		quantity int,
		price double,
		total double,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		payment_id uuid PRIMARY KEY,
		user_id uuid,
		order_id uuid,
		amount double,
		method text,
		status text,
		payment_date timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS payments_by_order (
		order_id uuid PRIMARY KEY,
		payment_id uuid
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		product_id uuid,
		user_id uuid,
		review_id uuid,
		username text,
		rating int,
		comment text,
		created_at timestamp,
		PRIMARY KEY (product_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		user_id uuid,
		product_id uuid,
		added_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS checkout_transitions (
		order_id uuid,
		seq int,
		step text,
		from_state text,
		to_state text,
		ok boolean,
		detail text,
		created_at timestamp,
		PRIMARY KEY (order_id, seq)
	) WITH CLUSTERING ORDER BY (seq ASC)`,
}

// EnsureSchema applique les CREATE TABLE IF NOT EXISTS au démarrage.
func (sm *ScyllaManager) EnsureSchema(ctx context.Context) error {
	session, err := sm.Session()
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	log.Println("✅ Schéma ScyllaDB vérifié")
	return nil
}
