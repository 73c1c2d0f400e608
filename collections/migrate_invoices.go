package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"invoicedesk/services"
)

// MigrateInvoiceNumbers rewrites invoices stored before numbers were kept
// bare: it strips INV-/QUT- prefixes and backfills is_invoice and
// total_amount_in_words from the stored charges. Safe to call on every
// startup -- records that are already consistent are left untouched.
func MigrateInvoiceNumbers(app *pocketbase.PocketBase) error {
	records, err := app.FindAllRecords("invoices")
	if err != nil {
		return fmt.Errorf("migrate: could not query invoices: %w", err)
	}

	var fixed int
	for _, rec := range records {
		stored := rec.GetString("invoice_number")
		bare := services.BareInvoiceNumber(stored)

		doc := services.InvoiceDocument{}
		_ = rec.UnmarshalJSONField("items", &doc.Details.Items)
		_ = rec.UnmarshalJSONField("tax_details", &doc.Details.TaxDetails)
		_ = rec.UnmarshalJSONField("discount_details", &doc.Details.DiscountDetails)
		_ = rec.UnmarshalJSONField("shipping_details", &doc.Details.ShippingDetails)
		doc.Details.Currency = rec.GetString("currency")
		doc.Recalculate()

		words := rec.GetString("total_amount_in_words")
		if words == "" {
			words = doc.Details.TotalAmountInWords
		}

		if bare == stored && rec.GetBool("is_invoice") == doc.Details.IsInvoice && words == rec.GetString("total_amount_in_words") {
			continue
		}

		if bare != stored {
			clash, err := app.FindFirstRecordByData("invoices", "invoice_number", bare)
			if err == nil && clash.Id != rec.Id {
				log.Printf("migrate: invoice %s (%s) clashes with %s, keeping stored number\n", stored, rec.Id, clash.Id)
				bare = stored
			}
		}

		rec.Set("invoice_number", bare)
		rec.Set("is_invoice", doc.Details.IsInvoice)
		rec.Set("total_amount_in_words", words)
		if err := app.Save(rec); err != nil {
			log.Printf("migrate: failed to update invoice %s: %v\n", rec.Id, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Printf("migrate: normalized %d invoice record(s).\n", fixed)
	}
	return nil
}
