package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

func parseCustomerBody(e *core.RequestEvent) (*services.Customer, error) {
	body, err := readBody(e)
	if err != nil {
		return nil, err
	}
	return services.ParseCustomerRequest(body)
}

// HandleCustomerList returns all customers sorted by name.
// Route: GET /api/invoicing/customers
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := services.NewCustomerStore(app).List()
		if err != nil {
			return RespondError(e, "customer_list", err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

// HandleCustomerCreate stores a new customer.
// Route: POST /api/invoicing/customers
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, err := parseCustomerBody(e)
		if err != nil {
			return RespondError(e, "customer_create", err)
		}

		id, created, err := services.NewCustomerStore(app).Create(*c)
		if err != nil {
			return RespondError(e, "customer_create", err)
		}
		if !created {
			return ErrorJSON(e, http.StatusConflict, "A customer with this email already exists")
		}

		c.ID = id
		return e.JSON(http.StatusCreated, c)
	}
}

// HandleCustomerGet returns one customer.
// Route: GET /api/invoicing/customers/{id}
func HandleCustomerGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, err := services.NewCustomerStore(app).Get(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "customer_get", err)
		}
		return e.JSON(http.StatusOK, c)
	}
}

// HandleCustomerUpdate replaces a customer. Invoices already issued keep
// their copy of the receiver.
// Route: PUT /api/invoicing/customers/{id}
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		c, err := parseCustomerBody(e)
		if err != nil {
			return RespondError(e, "customer_update", err)
		}

		ok, err := services.NewCustomerStore(app).Update(id, *c)
		if err != nil {
			return RespondError(e, "customer_update", err)
		}
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Customer not found")
		}

		c.ID = id
		return e.JSON(http.StatusOK, c)
	}
}

// HandleCustomerDelete removes a customer.
// Route: DELETE /api/invoicing/customers/{id}
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ok, err := services.NewCustomerStore(app).Delete(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "customer_delete", err)
		}
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Customer not found")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
