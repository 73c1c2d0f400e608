// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/collections"
	"invoicedesk/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record with the given name and email.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", email)
	record.Set("country", "United Arab Emirates")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// TestInvoice returns a two-line document billed to receiver. A positive
// taxPercent makes it a tax invoice, otherwise a quotation.
func TestInvoice(number, receiver string, taxPercent float64) services.InvoiceDocument {
	doc := services.InvoiceDocument{
		Sender:   services.Party{Name: "Fervid Trading", Country: "UAE"},
		Receiver: services.Party{Name: receiver},
		Details: services.InvoiceDetails{
			InvoiceNumber: number,
			InvoiceDate:   "2025-03-01",
			DueDate:       "2025-03-31",
			Currency:      "AED",
			Items: []services.LineItem{
				{Name: "Consulting", Quantity: 2, UnitPrice: 100},
				{Name: "Support", Quantity: 1, UnitPrice: 50},
			},
			TaxDetails:      services.ChargeDetail{Amount: taxPercent, AmountType: services.AmountTypePercentage},
			DiscountDetails: services.DefaultCharge,
			ShippingDetails: services.DefaultCharge,
			PdfTemplate:     services.TemplateClassic,
		},
	}
	doc.Recalculate()
	return doc
}

// CreateTestInvoice stores TestInvoice(number, receiver, taxPercent) and
// returns its record id.
func CreateTestInvoice(t *testing.T, app *pocketbase.PocketBase, number, receiver string, taxPercent float64) string {
	t.Helper()

	id, created, err := services.NewInvoiceStore(app).Create(TestInvoice(number, receiver, taxPercent))
	if err != nil {
		t.Fatalf("failed to save test invoice: %v", err)
	}
	if !created {
		t.Fatalf("test invoice %s already exists", number)
	}
	return id
}

// CreateTestUser creates an auth record in users with the given role.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email, role string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword("test-password-123")
	record.Set("role", role)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
