package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// HandleCustomerImport receives a .csv or .xlsx upload, stores every valid
// row and reports the rest.
// Route: POST /api/invoicing/customers/import
func HandleCustomerImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseCustomerFile(file, header.Filename)
		if err != nil {
			return RespondError(e, "customer_import", err)
		}

		if err := services.NewCustomerStore(app).Import(result); err != nil {
			return RespondError(e, "customer_import", err)
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleCustomerTemplate downloads the empty import template.
// Route: GET /api/invoicing/customers/template
func HandleCustomerTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsx, err := services.GenerateCustomerTemplate()
		if err != nil {
			log.Printf("customer_template: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate template")
		}
		return sendAttachment(e, contentTypeXLSX, "customer_import_template.xlsx", xlsx)
	}
}

// HandleCustomerErrorReport turns the errors of an import result into a
// spreadsheet.
// Route: POST /api/invoicing/customers/import/errors
func HandleCustomerErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.RowError
		if err := json.NewDecoder(http.MaxBytesReader(e.Response, e.Request.Body, maxBodyBytes)).Decode(&rowErrors); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsx, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			log.Printf("customer_error_report: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate error report")
		}
		filename := "customer_import_errors_" + time.Now().Format("20060102_150405") + ".xlsx"
		return sendAttachment(e, contentTypeXLSX, filename, xlsx)
	}
}
