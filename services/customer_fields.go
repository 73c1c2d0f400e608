package services

// TemplateField describes one column in the customer import template.
type TemplateField struct {
	Key            string // internal name, matches PocketBase field name
	Label          string // human-readable header shown in Excel
	Description    string // shown on the Instructions sheet
	FormatRule     string
	ExampleValue   string
	AlwaysRequired bool
}

// CustomerTemplateFields returns the ordered list of customer import columns.
func CustomerTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "name", Label: "Name", Description: "Customer or company name", ExampleValue: "Gulf Trading LLC", AlwaysRequired: true},
		{Key: "address", Label: "Address", Description: "Street address", ExampleValue: "Office 1204, Business Bay"},
		{Key: "state", Label: "State", Description: "Emirate, state or province", ExampleValue: "Dubai"},
		{Key: "country", Label: "Country", Description: "Country name", ExampleValue: "United Arab Emirates"},
		{Key: "email", Label: "Email", Description: "Billing email, unique per customer", FormatRule: "Valid email format", ExampleValue: "accounts@gulftrading.ae"},
		{Key: "phone", Label: "Phone", Description: "Phone number with optional country code", FormatRule: "7-15 digits, optional leading +", ExampleValue: "+971 4 123 4567"},
	}
}
