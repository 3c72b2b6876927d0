package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		role VARCHAR(16) NOT NULL,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_members_email ON members (email);`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES members(id),
		client_name VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		details TEXT,
		status VARCHAR(16) NOT NULL DEFAULT 'OPEN',
		created_by_id UUID NOT NULL REFERENCES members(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_enquiries_client_id ON enquiries (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_enquiries_status ON enquiries (status);`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		enquiry_id UUID NOT NULL REFERENCES enquiries(id),
		version INT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		tax_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
		transport NUMERIC(18,2) NOT NULL DEFAULT 0,
		installation NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		reason TEXT,
		notes TEXT,
		attachments JSONB NOT NULL DEFAULT '[]',
		status VARCHAR(16) NOT NULL DEFAULT 'Draft',
		created_by_id UUID NOT NULL REFERENCES members(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quotes_enquiry_version ON quotes (enquiry_id, version);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_enquiry_id ON quotes (enquiry_id);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		enquiry_id UUID NOT NULL REFERENCES enquiries(id),
		quote_id UUID NOT NULL REFERENCES quotes(id),
		order_number VARCHAR(64) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PLACED',
		created_by_id UUID NOT NULL REFERENCES members(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_number ON orders (order_number);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_enquiry_id ON orders (enquiry_id);`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		invoice_number VARCHAR(64) NOT NULL,
		order_id UUID NOT NULL REFERENCES orders(id),
		enquiry_id UUID NOT NULL REFERENCES enquiries(id),
		client_name VARCHAR(255) NOT NULL,
		client_address TEXT,
		client_gstin VARCHAR(32),
		items JSONB NOT NULL DEFAULT '[]',
		transport_charges NUMERIC(18,2) NOT NULL DEFAULT 0,
		installation_charges NUMERIC(18,2) NOT NULL DEFAULT 0,
		cgst_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		sgst_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		igst_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL DEFAULT 'DRAFT',
		invoice_date DATE NOT NULL,
		created_by_id UUID NOT NULL REFERENCES members(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_number ON invoices (invoice_number);`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_order_id ON invoices (order_id);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		member_id UUID NOT NULL REFERENCES members(id),
		title VARCHAR(255) NOT NULL,
		body TEXT,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_member_id ON notifications (member_id, read);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
