package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	name        string
	description string
	quantity    float64
	unitPrice   float64
	unitType    string
}

type invoiceDef struct {
	number      string
	invoiceDate string
	dueDate     string
	customer    int // index into seedCustomers
	taxPercent  float64
	discount    float64 // fixed amount
	shipping    float64 // fixed amount
	template    int
	notes       string
	terms       string
	items       []itemDef
}

var seedSender = services.Party{
	Name:    "Fervid Trading LLC",
	Address: "Office 1204, Bay Square 5, Business Bay",
	State:   "Dubai",
	Country: "United Arab Emirates",
	Email:   "accounts@fervidtrading.ae",
	Phone:   "+971 4 555 0199",
}

var seedPayment = services.PaymentInformation{
	BankName:      "Emirates NBD",
	AccountName:   "Fervid Trading LLC",
	AccountNumber: "1015123456701",
	IBAN:          "AE070331234567890123456",
	SWIFT:         "EBILAEAD",
}

var seedCustomers = []services.Customer{
	{Name: "Gulf Retail Group", Address: "Al Quoz Industrial Area 3", State: "Dubai", Country: "United Arab Emirates", Email: "ap@gulfretail.ae", Phone: "+971 4 321 7788"},
	{Name: "Desert Foods Trading", Address: "Mussafah M-12", State: "Abu Dhabi", Country: "United Arab Emirates", Email: "finance@desertfoods.ae", Phone: "+971 2 554 0100"},
	{Name: "Oasis Labs FZ-LLC", Address: "Dubai Internet City, Building 9", State: "Dubai", Country: "United Arab Emirates", Email: "billing@oasislabs.io"},
}

var seedInvoices = []invoiceDef{
	{
		number: "1001", invoiceDate: "2025-01-06", dueDate: "2025-02-05", customer: 0,
		taxPercent: 5, template: services.TemplateClassic,
		terms: "Payment due within 30 days.",
		items: []itemDef{
			{name: "POS terminal installation", description: "On-site setup for 4 branches", quantity: 4, unitPrice: 850, unitType: "Nos"},
			{name: "Annual support plan", quantity: 1, unitPrice: 4200},
		},
	},
	{
		number: "1002", invoiceDate: "2025-01-20", dueDate: "2025-02-19", customer: 1,
		taxPercent: 5, discount: 250, shipping: 120, template: services.TemplateClassic,
		notes: "Delivered to Mussafah warehouse.",
		items: []itemDef{
			{name: "Cold room temperature sensors", quantity: 12, unitPrice: 310.5, unitType: "Nos"},
			{name: "Gateway controller", quantity: 2, unitPrice: 1450},
		},
	},
	{
		number: "1003", invoiceDate: "2025-02-03", customer: 2,
		template: services.TemplateCompact,
		notes:    "Quotation valid for 15 days.",
		items: []itemDef{
			{name: "Network audit", description: "Two-day assessment", quantity: 2, unitPrice: 2750, unitType: "Days"},
		},
	},
}

// Seed creates the configured admin user when it is missing and populates
// customers and invoices with sample data. It is safe to call on every
// startup because sample data is only inserted into an empty store.
func Seed(app *pocketbase.PocketBase, adminEmail, adminPassword string) error {
	if err := seedAdmin(app, adminEmail, adminPassword); err != nil {
		return err
	}

	// ── idempotency: skip if anything already exists ───────────────
	for _, name := range []string{"customers", "invoices"} {
		existing, err := app.FindRecordsByFilter(name, "id != ''", "", 1, 0)
		if err != nil {
			return fmt.Errorf("seed: could not query %s: %w", name, err)
		}
		if len(existing) > 0 {
			return nil // already seeded
		}
	}

	log.Println("seed: store is empty – inserting sample customers and invoices …")

	customers := services.NewCustomerStore(app)
	for _, c := range seedCustomers {
		if _, _, err := customers.Create(c); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	invoices := services.NewInvoiceStore(app)
	for _, def := range seedInvoices {
		doc := buildSeedInvoice(def)
		if _, _, err := invoices.Create(doc); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Printf("seed: %s %s for %s, total %.2f\n",
			services.DocumentTitle(doc.Details.IsInvoice),
			services.DisplayInvoiceNumber(doc.Details.InvoiceNumber, doc.Details.IsInvoice),
			doc.Receiver.Name, doc.Details.TotalAmount)
	}

	log.Printf("seed: inserted %d customer(s) and %d invoice(s).\n", len(seedCustomers), len(seedInvoices))
	return nil
}

func buildSeedInvoice(def invoiceDef) services.InvoiceDocument {
	items := make([]services.LineItem, len(def.items))
	for i, it := range def.items {
		items[i] = services.LineItem{
			Name:        it.name,
			Description: it.description,
			Quantity:    it.quantity,
			UnitPrice:   it.unitPrice,
			UnitType:    it.unitType,
		}
	}

	doc := services.InvoiceDocument{
		Sender:   seedSender,
		Receiver: seedCustomers[def.customer].Party(),
		Details: services.InvoiceDetails{
			InvoiceNumber:      def.number,
			InvoiceDate:        def.invoiceDate,
			DueDate:            def.dueDate,
			Currency:           services.DefaultCurrency,
			Items:              items,
			TaxDetails:         services.ChargeDetail{Amount: def.taxPercent, AmountType: services.AmountTypePercentage},
			DiscountDetails:    services.ChargeDetail{Amount: def.discount, AmountType: services.AmountTypeFixed},
			ShippingDetails:    services.ChargeDetail{Amount: def.shipping, AmountType: services.AmountTypeFixed},
			PaymentInformation: seedPayment,
			AdditionalNotes:    def.notes,
			PaymentTerms:       def.terms,
			PdfTemplate:        def.template,
		},
	}
	doc.Recalculate()
	return doc
}

// seedAdmin creates an admin auth record for email unless one exists.
func seedAdmin(app *pocketbase.PocketBase, email, password string) error {
	if email == "" {
		return nil
	}
	if _, err := app.FindAuthRecordByEmail("users", email); err == nil {
		return nil
	}

	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return fmt.Errorf("seed: could not find users collection: %w", err)
	}

	admin := core.NewRecord(users)
	admin.SetEmail(email)
	admin.SetPassword(password)
	admin.SetVerified(true)
	admin.Set("role", RoleAdmin)
	if err := app.Save(admin); err != nil {
		return fmt.Errorf("seed: could not create admin user %s: %w", email, err)
	}

	log.Printf("seed: created admin user %s\n", email)
	return nil
}
