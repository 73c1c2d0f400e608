package collections_test

import (
	"testing"

	"invoicedesk/collections"
	"invoicedesk/services"
	"invoicedesk/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app, "", ""); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	customers, err := app.FindAllRecords("customers")
	if err != nil {
		t.Fatalf("query customers error: %v", err)
	}
	if len(customers) != 3 {
		t.Errorf("expected 3 customers, got %d", len(customers))
	}

	docs, err := services.NewInvoiceStore(app).List()
	if err != nil {
		t.Fatalf("list invoices error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(docs))
	}

	// Stored figures must agree with a fresh calculation.
	for _, doc := range docs {
		stored := doc.Details.TotalAmount
		a := doc.Recalculate()
		if a.GrandTotal.InexactFloat64() != stored {
			t.Errorf("invoice %s: stored total %v, recalculated %s", doc.Details.InvoiceNumber, stored, a.GrandTotal)
		}
		if stored <= 0 {
			t.Errorf("invoice %s: seeded total must be positive", doc.Details.InvoiceNumber)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app, "", ""); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app, "", ""); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	invoices, _ := app.FindAllRecords("invoices")
	if len(invoices) != 3 {
		t.Errorf("expected 3 invoices after two seeds, got %d", len(invoices))
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCustomer(t, app, "Existing", "existing@example.com")

	if err := collections.Seed(app, "", ""); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	invoices, _ := app.FindAllRecords("invoices")
	if len(invoices) != 0 {
		t.Errorf("expected no sample invoices, got %d", len(invoices))
	}
}

func TestSeed_AdminUser(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app, "admin@example.com", "admin-password-1"); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if err := collections.Seed(app, "admin@example.com", "admin-password-1"); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	admin, err := app.FindAuthRecordByEmail("users", "admin@example.com")
	if err != nil {
		t.Fatalf("admin user not created: %v", err)
	}
	if admin.GetString("role") != collections.RoleAdmin {
		t.Errorf("role = %q, want %q", admin.GetString("role"), collections.RoleAdmin)
	}
	if !admin.ValidatePassword("admin-password-1") {
		t.Error("admin password was not set")
	}
}
