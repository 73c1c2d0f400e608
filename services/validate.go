package services

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneDigits  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// ValidateEmail validates an email address format. Empty is valid.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts 7-15 digits with an optional leading "+", ignoring
// spaces, dashes, dots and parentheses. Empty is valid.
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	return phoneDigits.MatchString(phoneNoise.Replace(phone))
}

// ValidateCustomer returns field -> message for every format violation.
func ValidateCustomer(c Customer) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "name is required"
	}
	if !ValidateEmail(c.Email) {
		errs["email"] = "invalid email format"
	}
	if !ValidatePhone(c.Phone) {
		errs["phone"] = "phone must be 7-15 digits"
	}
	return errs
}
