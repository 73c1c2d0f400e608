package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// Customer is a saved receiver. It is copied into an invoice at creation
// time; invoices never reference it.
type Customer struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	State     string    `json:"state,omitempty"`
	Country   string    `json:"country,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Party returns the customer as an invoice receiver.
func (c Customer) Party() Party {
	return Party{
		Name:    c.Name,
		Address: c.Address,
		State:   c.State,
		Country: c.Country,
		Email:   c.Email,
		Phone:   c.Phone,
	}
}

// ParseCustomerRequest decodes and validates a customer payload.
func ParseCustomerRequest(body []byte) (*Customer, error) {
	var c Customer
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, invalid("", "invalid JSON body: %v", err)
	}
	c = normalizeCustomer(c)
	errs := ValidateCustomer(c)
	for _, field := range []string{"name", "email", "phone"} {
		if msg, ok := errs[field]; ok {
			return nil, invalid(field, "%s", msg)
		}
	}
	return &c, nil
}

func normalizeCustomer(c Customer) Customer {
	c.ID = ""
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.State = strings.TrimSpace(c.State)
	c.Country = strings.TrimSpace(c.Country)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

// CustomerStore persists customers. Non-empty emails are unique.
type CustomerStore struct {
	app core.App
}

func NewCustomerStore(app core.App) *CustomerStore {
	return &CustomerStore{app: app}
}

// Create saves c. An existing email yields created=false with no error.
func (s *CustomerStore) Create(c Customer) (string, bool, error) {
	taken, err := s.emailTaken(c.Email, "")
	if err != nil {
		return "", false, err
	}
	if taken {
		return "", false, nil
	}

	col, err := s.app.FindCollectionByNameOrId("customers")
	if err != nil {
		return "", false, fmt.Errorf("could not find customers collection: %w", err)
	}
	record := core.NewRecord(col)
	setCustomerFields(record, c)
	if err := s.app.Save(record); err != nil {
		if isUniqueViolation(err, "email") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("could not save customer %q: %w", c.Name, err)
	}
	return record.Id, true, nil
}

func (s *CustomerStore) Get(id string) (*Customer, error) {
	record, err := s.app.FindRecordById("customers", id)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return customerFromRecord(record), nil
}

// List returns all customers sorted by name.
func (s *CustomerStore) List() ([]Customer, error) {
	records, err := s.app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("could not query customers: %w", err)
	}
	out := make([]Customer, 0, len(records))
	for _, r := range records {
		out = append(out, *customerFromRecord(r))
	}
	return out, nil
}

func (s *CustomerStore) Update(id string, c Customer) (bool, error) {
	record, err := s.app.FindRecordById("customers", id)
	if err != nil {
		return false, nil
	}
	taken, err := s.emailTaken(c.Email, id)
	if err != nil {
		return false, err
	}
	if taken {
		return false, invalid("email", "a customer with email %s already exists", c.Email)
	}
	setCustomerFields(record, c)
	if err := s.app.Save(record); err != nil {
		return false, fmt.Errorf("could not update customer %s: %w", id, err)
	}
	return true, nil
}

func (s *CustomerStore) Delete(id string) (bool, error) {
	record, err := s.app.FindRecordById("customers", id)
	if err != nil {
		return false, nil
	}
	if err := s.app.Delete(record); err != nil {
		return false, fmt.Errorf("could not delete customer %s: %w", id, err)
	}
	return true, nil
}

func (s *CustomerStore) emailTaken(email, exceptID string) (bool, error) {
	if email == "" {
		return false, nil
	}
	records, err := s.app.FindRecordsByFilter(
		"customers",
		"email = {:email} && id != {:id}",
		"",
		1,
		0,
		map[string]any{"email": email, "id": exceptID},
	)
	if err != nil {
		return false, fmt.Errorf("could not check customer email: %w", err)
	}
	return len(records) > 0, nil
}

func setCustomerFields(record *core.Record, c Customer) {
	record.Set("name", c.Name)
	record.Set("address", c.Address)
	record.Set("state", c.State)
	record.Set("country", c.Country)
	record.Set("email", c.Email)
	record.Set("phone", c.Phone)
}

func customerFromRecord(record *core.Record) *Customer {
	return &Customer{
		ID:        record.Id,
		Name:      record.GetString("name"),
		Address:   record.GetString("address"),
		State:     record.GetString("state"),
		Country:   record.GetString("country"),
		Email:     record.GetString("email"),
		Phone:     record.GetString("phone"),
		CreatedAt: record.GetDateTime("created").Time(),
	}
}
