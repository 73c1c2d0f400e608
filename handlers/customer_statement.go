package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// HandleCustomerStatement downloads a statement PDF listing every document
// billed to the customer's name.
// Route: GET /api/invoicing/customers/{id}/statement
func HandleCustomerStatement(app *pocketbase.PocketBase, companyName string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, err := services.NewCustomerStore(app).Get(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "customer_statement", err)
		}

		docs, err := services.NewInvoiceStore(app).ListForCustomer(c.Name)
		if err != nil {
			return RespondError(e, "customer_statement", err)
		}

		data := services.BuildStatementData(companyName, *c, docs, time.Now())
		pdf, err := services.GenerateStatementPDF(data)
		if err != nil {
			log.Printf("customer_statement: generate failed for %s: %v", c.ID, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate statement")
		}

		filename := fmt.Sprintf("statement_%s.pdf", sanitizeFilename(c.Name))
		return sendAttachment(e, contentTypePDF, filename, pdf)
	}
}
