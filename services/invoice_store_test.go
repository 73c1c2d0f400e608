package services_test

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
	"invoicedesk/testhelpers"
)

func TestInvoiceStore_CreateAndGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	doc := testhelpers.TestInvoice("INV-25", "Gulf Retail", 5)
	id, created, err := store.Create(doc)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created || id == "" {
		t.Fatalf("Create() = (%q, %v), want a new id", id, created)
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Details.InvoiceNumber != "25" {
		t.Errorf("stored number = %q, want bare %q", got.Details.InvoiceNumber, "25")
	}
	if !got.Details.IsInvoice {
		t.Error("expected is_invoice to be stored as true")
	}
	if got.Details.TotalAmount != 262.5 || got.Details.SubTotal != 250 {
		t.Errorf("amounts = %v / %v, want 250 / 262.5", got.Details.SubTotal, got.Details.TotalAmount)
	}
	if got.Receiver.Name != "Gulf Retail" || len(got.Details.Items) != 2 {
		t.Errorf("unexpected document %+v", got)
	}
	if got.Details.TaxDetails.AmountType != services.AmountTypePercentage || got.Details.TaxDetails.Amount != 5 {
		t.Errorf("tax details = %+v", got.Details.TaxDetails)
	}
	if got.Details.TotalAmountInWords == "" {
		t.Error("expected amount in words to be stored")
	}
}

func TestInvoiceStore_CreateDuplicateNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	testhelpers.CreateTestInvoice(t, app, "25", "Gulf Retail", 5)

	// A quotation with the same bare number collides with the invoice.
	_, created, err := store.Create(testhelpers.TestInvoice("QUT-25", "Other", 0))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created {
		t.Error("expected duplicate number to be rejected")
	}
}

func TestInvoiceStore_CreateNumberClaimedDuringSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	// Another writer stores the same number after the duplicate check
	// but before this record is inserted.
	claimed := false
	app.OnRecordCreate("invoices").BindFunc(func(e *core.RecordEvent) error {
		if !claimed {
			claimed = true
			other := core.NewRecord(e.Record.Collection())
			other.Set("invoice_number", e.Record.GetString("invoice_number"))
			if err := e.App.Save(other); err != nil {
				return err
			}
		}
		return e.Next()
	})

	id, created, err := store.Create(testhelpers.TestInvoice("INV-40", "Gulf Retail", 5))
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if created || id != "" {
		t.Errorf("Create() = (%q, %v), want (\"\", false)", id, created)
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List() returned %d documents, want only the other writer's", len(all))
	}
}

func TestInvoiceStore_GetMissing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := services.NewInvoiceStore(app).Get("doesnotexist123")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestInvoiceStore_ListAndListForCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	testhelpers.CreateTestInvoice(t, app, "1", "Gulf Retail", 5)
	testhelpers.CreateTestInvoice(t, app, "2", "Desert Foods", 5)
	testhelpers.CreateTestInvoice(t, app, "3", "Gulf Retail", 0)

	all, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() returned %d documents, want 3", len(all))
	}

	gulf, err := store.ListForCustomer("Gulf Retail")
	if err != nil {
		t.Fatalf("ListForCustomer() error = %v", err)
	}
	if len(gulf) != 2 {
		t.Fatalf("ListForCustomer() returned %d documents, want 2", len(gulf))
	}
	for _, d := range gulf {
		if d.Receiver.Name != "Gulf Retail" {
			t.Errorf("unexpected receiver %q", d.Receiver.Name)
		}
	}
}

func TestInvoiceStore_Update(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	id := testhelpers.CreateTestInvoice(t, app, "1", "Gulf Retail", 5)
	testhelpers.CreateTestInvoice(t, app, "2", "Desert Foods", 5)

	changed := testhelpers.TestInvoice("1", "Gulf Retail LLC", 0)
	ok, err := store.Update(id, changed)
	if err != nil || !ok {
		t.Fatalf("Update() = (%v, %v), want (true, nil)", ok, err)
	}
	got, _ := store.Get(id)
	if got.Receiver.Name != "Gulf Retail LLC" || got.Details.IsInvoice {
		t.Errorf("update not applied: %+v", got)
	}

	_, err = store.Update(id, testhelpers.TestInvoice("2", "Gulf Retail LLC", 0))
	if !services.IsValidationError(err) {
		t.Errorf("Update() to a taken number error = %v, want validation error", err)
	}

	ok, err = store.Update("doesnotexist123", changed)
	if ok || err != nil {
		t.Errorf("Update() on missing id = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestInvoiceStore_Delete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewInvoiceStore(app)

	id := testhelpers.CreateTestInvoice(t, app, "1", "Gulf Retail", 5)

	ok, err := store.Delete(id)
	if err != nil || !ok {
		t.Fatalf("Delete() = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = store.Delete(id)
	if ok || err != nil {
		t.Errorf("second Delete() = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	next, err := services.NextInvoiceNumber(app)
	if err != nil {
		t.Fatalf("NextInvoiceNumber() error = %v", err)
	}
	if next != "1" {
		t.Errorf("empty store: got %q, want %q", next, "1")
	}

	testhelpers.CreateTestInvoice(t, app, "3", "A", 5)
	testhelpers.CreateTestInvoice(t, app, "10", "B", 0)
	testhelpers.CreateTestInvoice(t, app, "abc", "C", 5)

	next, err = services.NextInvoiceNumber(app)
	if err != nil {
		t.Fatalf("NextInvoiceNumber() error = %v", err)
	}
	if next != "11" {
		t.Errorf("got %q, want %q", next, "11")
	}
}
