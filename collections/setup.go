package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Roles stored on the users auth collection.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Setup programmatically creates/ensures the customers and invoices
// collections exist and that users carry a role.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "state", Required: false})
		c.Fields.Add(&core.TextField{Name: "country", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_customers_email", true, "email", "email != ''")
	})

	ensureCollection(app, "invoices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "invoice_number", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_invoice"})
		c.Fields.Add(&core.TextField{Name: "invoice_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "due_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.JSONField{Name: "sender"})
		c.Fields.Add(&core.JSONField{Name: "receiver"})
		c.Fields.Add(&core.JSONField{Name: "items"})
		c.Fields.Add(&core.JSONField{Name: "tax_details"})
		c.Fields.Add(&core.JSONField{Name: "discount_details"})
		c.Fields.Add(&core.JSONField{Name: "shipping_details"})
		c.Fields.Add(&core.JSONField{Name: "payment_information"})
		c.Fields.Add(&core.TextField{Name: "additional_notes", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_terms", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sub_total", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "total_amount_in_words", Required: false})
		c.Fields.Add(&core.NumberField{Name: "pdf_template", OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_invoices_number", true, "invoice_number", "")
	})

	ensureUserRole(app)
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

// ensureUserRole adds the role select to the built-in users collection.
func ensureUserRole(app *pocketbase.PocketBase) {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		log.Fatalf("Failed to find users collection: %v", err)
	}
	if users.Fields.GetByName("role") != nil {
		return
	}

	users.Fields.Add(&core.SelectField{
		Name:      "role",
		Required:  false,
		Values:    []string{RoleAdmin, RoleStaff},
		MaxSelect: 1,
	})
	if err := app.Save(users); err != nil {
		log.Fatalf("Failed to add role to users: %v", err)
	}
	fmt.Println("Added role field to users collection")
}
