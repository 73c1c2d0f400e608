package services

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("not found")

// InvoiceStore persists invoice documents in the invoices collection. The
// stored invoice number is always bare; prefixes are derived on display.
type InvoiceStore struct {
	app core.App
}

func NewInvoiceStore(app core.App) *InvoiceStore {
	return &InvoiceStore{app: app}
}

// Create saves doc. An existing invoice number yields created=false with no
// error.
func (s *InvoiceStore) Create(doc InvoiceDocument) (string, bool, error) {
	number := BareInvoiceNumber(doc.Details.InvoiceNumber)
	taken, err := s.numberTaken(number, "")
	if err != nil {
		return "", false, err
	}
	if taken {
		return "", false, nil
	}

	col, err := s.app.FindCollectionByNameOrId("invoices")
	if err != nil {
		return "", false, fmt.Errorf("could not find invoices collection: %w", err)
	}

	record := core.NewRecord(col)
	setInvoiceFields(record, doc)
	if err := s.app.Save(record); err != nil {
		// A concurrent create can claim the number between check and save.
		if isUniqueViolation(err, "invoice_number") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("could not save invoice %s: %w", number, err)
	}
	return record.Id, true, nil
}

// Get returns the document with the given record id.
func (s *InvoiceStore) Get(id string) (*InvoiceDocument, error) {
	record, err := s.app.FindRecordById("invoices", id)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return invoiceFromRecord(record), nil
}

// List returns every stored document, newest first.
func (s *InvoiceStore) List() ([]InvoiceDocument, error) {
	records, err := s.app.FindRecordsByFilter("invoices", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("could not query invoices: %w", err)
	}
	docs := make([]InvoiceDocument, 0, len(records))
	for _, r := range records {
		docs = append(docs, *invoiceFromRecord(r))
	}
	return docs, nil
}

// ListForCustomer returns the documents billed to the named receiver,
// oldest first.
func (s *InvoiceStore) ListForCustomer(name string) ([]InvoiceDocument, error) {
	records, err := s.app.FindRecordsByFilter("invoices", "id != ''", "created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("could not query invoices: %w", err)
	}
	var docs []InvoiceDocument
	for _, r := range records {
		doc := invoiceFromRecord(r)
		if doc.Receiver.Name == name {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// Update fully replaces the document. It returns false when id does not
// exist.
func (s *InvoiceStore) Update(id string, doc InvoiceDocument) (bool, error) {
	record, err := s.app.FindRecordById("invoices", id)
	if err != nil {
		return false, nil
	}

	number := BareInvoiceNumber(doc.Details.InvoiceNumber)
	taken, err := s.numberTaken(number, id)
	if err != nil {
		return false, err
	}
	if taken {
		return false, invalid("details.invoiceNumber", "invoice number %s already exists", number)
	}

	setInvoiceFields(record, doc)
	if err := s.app.Save(record); err != nil {
		if isUniqueViolation(err, "invoice_number") {
			return false, invalid("details.invoiceNumber", "invoice number %s already exists", number)
		}
		return false, fmt.Errorf("could not update invoice %s: %w", id, err)
	}
	return true, nil
}

// Delete removes the document. It returns false when id does not exist.
func (s *InvoiceStore) Delete(id string) (bool, error) {
	record, err := s.app.FindRecordById("invoices", id)
	if err != nil {
		return false, nil
	}
	if err := s.app.Delete(record); err != nil {
		return false, fmt.Errorf("could not delete invoice %s: %w", id, err)
	}
	return true, nil
}

func (s *InvoiceStore) numberTaken(number, exceptID string) (bool, error) {
	records, err := s.app.FindRecordsByFilter(
		"invoices",
		"invoice_number = {:number} && id != {:id}",
		"",
		1,
		0,
		map[string]any{"number": number, "id": exceptID},
	)
	if err != nil {
		return false, fmt.Errorf("could not check invoice number: %w", err)
	}
	return len(records) > 0, nil
}

// isUniqueViolation reports whether a save failed on the unique index of
// field.
func isUniqueViolation(err error, field string) bool {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return false
	}
	var ve validation.Error
	return errors.As(fieldErrs[field], &ve) && ve.Code() == "validation_not_unique"
}

// setInvoiceFields sets all invoice fields on a record from a document.
func setInvoiceFields(record *core.Record, doc InvoiceDocument) {
	d := doc.Details
	items := d.Items
	if items == nil {
		items = []LineItem{}
	}
	record.Set("invoice_number", BareInvoiceNumber(d.InvoiceNumber))
	record.Set("is_invoice", d.IsInvoice)
	record.Set("invoice_date", d.InvoiceDate)
	record.Set("due_date", d.DueDate)
	record.Set("currency", d.Currency)
	record.Set("sender", doc.Sender)
	record.Set("receiver", doc.Receiver)
	record.Set("items", items)
	record.Set("tax_details", d.TaxDetails)
	record.Set("discount_details", d.DiscountDetails)
	record.Set("shipping_details", d.ShippingDetails)
	record.Set("payment_information", d.PaymentInformation)
	record.Set("additional_notes", d.AdditionalNotes)
	record.Set("payment_terms", d.PaymentTerms)
	record.Set("sub_total", d.SubTotal)
	record.Set("total_amount", d.TotalAmount)
	record.Set("total_amount_in_words", d.TotalAmountInWords)
	record.Set("pdf_template", d.PdfTemplate)
}

// invoiceFromRecord maps a stored record back to a document. Malformed JSON
// fields decode to their zero values.
func invoiceFromRecord(record *core.Record) *InvoiceDocument {
	doc := &InvoiceDocument{
		ID:        record.Id,
		CreatedAt: record.GetDateTime("created").Time(),
		Details: InvoiceDetails{
			InvoiceNumber:      BareInvoiceNumber(record.GetString("invoice_number")),
			IsInvoice:          record.GetBool("is_invoice"),
			InvoiceDate:        record.GetString("invoice_date"),
			DueDate:            record.GetString("due_date"),
			Currency:           record.GetString("currency"),
			AdditionalNotes:    record.GetString("additional_notes"),
			PaymentTerms:       record.GetString("payment_terms"),
			SubTotal:           record.GetFloat("sub_total"),
			TotalAmount:        record.GetFloat("total_amount"),
			TotalAmountInWords: record.GetString("total_amount_in_words"),
			PdfTemplate:        record.GetInt("pdf_template"),
		},
	}

	_ = record.UnmarshalJSONField("sender", &doc.Sender)
	_ = record.UnmarshalJSONField("receiver", &doc.Receiver)
	_ = record.UnmarshalJSONField("items", &doc.Details.Items)
	if err := record.UnmarshalJSONField("tax_details", &doc.Details.TaxDetails); err != nil {
		doc.Details.TaxDetails = DefaultCharge
	}
	if err := record.UnmarshalJSONField("discount_details", &doc.Details.DiscountDetails); err != nil {
		doc.Details.DiscountDetails = DefaultCharge
	}
	if err := record.UnmarshalJSONField("shipping_details", &doc.Details.ShippingDetails); err != nil {
		doc.Details.ShippingDetails = DefaultCharge
	}
	_ = record.UnmarshalJSONField("payment_information", &doc.Details.PaymentInformation)

	for _, c := range []*ChargeDetail{&doc.Details.TaxDetails, &doc.Details.DiscountDetails, &doc.Details.ShippingDetails} {
		if c.AmountType == "" {
			c.AmountType = DefaultCharge.AmountType
		}
	}
	return doc
}
