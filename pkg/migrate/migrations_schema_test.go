package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmwangi/sokoni-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestVendorApplicationsMigrationContainsPartialIndex(t *testing.T) {
	content := readMigration(t, "*_create_vendor_applications.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vendor_applications",
		"CREATE UNIQUE INDEX IF NOT EXISTS vendor_applications_active_applicant_key",
		"WHERE status IN ('pending', 'approved')",
		"DROP TABLE IF EXISTS vendor_applications",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAdSlotsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_ad_slots.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS ad_slots",
		"CHECK (end_date > start_date)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ad_slots_product_id_key ON ad_slots (product_id)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE UNIQUE INDEX IF NOT EXISTS orders_user_payment_ref_key ON orders (user_id, payment_ref)",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
