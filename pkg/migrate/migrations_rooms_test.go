package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoomsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_rooms.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS rooms",
		"FOREIGN KEY (warehouse_id) REFERENCES warehouses(id) ON DELETE RESTRICT",
		"CHECK (capacity > 0)",
		"CHECK (humidity >= 0 AND humidity <= 100)",
		"CHECK (status IN ('active', 'maintenance', 'decommissioned'))",
		"DROP TABLE IF EXISTS rooms",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_items.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE RESTRICT",
		"CHECK (quantity > 0)",
		"idx_inventory_items_sku",
		"DROP TABLE IF EXISTS inventory_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCustomersMigrationContainsStatusCheck(t *testing.T) {
	content := readMigration(t, "*_create_customers.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS customers",
		"CHECK (verification_status IN ('PENDING', 'VERIFIED', 'REJECTED'))",
		"idx_customers_email",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
