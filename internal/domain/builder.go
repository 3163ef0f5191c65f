package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Builder is the billed party. The structured address fields are
// authoritative; Address is the legacy single-string form kept in sync for
// callers that still read it.
type Builder struct {
	ID             string `json:"id"`
	CompanyName    string `json:"company_name"`
	Email          string `json:"email"`
	CheckPayorName string `json:"check_payor_name,omitempty"`
	AddressLine1   string `json:"address_line1,omitempty"`
	AddressLine2   string `json:"address_line2,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
	Address        string `json:"address,omitempty"`
}

// NewBuilder creates a builder with required fields.
func NewBuilder(companyName, email string) *Builder {
	return &Builder{
		ID:          uuid.NewString(),
		CompanyName: strings.TrimSpace(companyName),
		Email:       strings.TrimSpace(email),
	}
}

// Validate reports every missing or malformed required field.
func (b *Builder) Validate() error {
	verr := NewValidationError("builder")
	if strings.TrimSpace(b.CompanyName) == "" {
		verr.Add("company_name", "required")
	}
	if strings.TrimSpace(b.Email) == "" {
		verr.Add("email", "required")
	} else if !ValidEmail(b.Email) {
		verr.Add("email", "must be a valid email address")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// HasStructuredAddress returns true if any of the structured address fields
// is populated.
func (b *Builder) HasStructuredAddress() bool {
	return b.AddressLine1 != "" || b.AddressLine2 != "" ||
		b.City != "" || b.State != "" || b.Zip != ""
}

// NormalizeAddress regenerates the legacy Address string from the structured
// fields. Called on every save so the two representations never drift.
func (b *Builder) NormalizeAddress() {
	if !b.HasStructuredAddress() {
		return
	}
	parts := make([]string, 0, 4)
	if b.AddressLine1 != "" {
		parts = append(parts, b.AddressLine1)
	}
	if b.AddressLine2 != "" {
		parts = append(parts, b.AddressLine2)
	}
	locality := b.City
	if b.State != "" {
		if locality != "" {
			locality += ", " + b.State
		} else {
			locality = b.State
		}
	}
	if b.Zip != "" {
		if locality != "" {
			locality += " " + b.Zip
		} else {
			locality = b.Zip
		}
	}
	if locality != "" {
		parts = append(parts, locality)
	}
	b.Address = strings.Join(parts, ", ")
}
