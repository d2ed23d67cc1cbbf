package handlers

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ContactFields holds the user supplied values of a contact, as received
// from a JSON body or a form.
type ContactFields struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Name  string `json:"name,omitempty"  example:"John Doe"         doc:"Full name"`
	Phone string `json:"phone,omitempty" example:"1234567890"       doc:"Phone number"`
	Email string `json:"email,omitempty" example:"john@example.com" doc:"Email address"`
	Type  string `json:"type,omitempty"  example:"Personal"         doc:"Free-form category"`
}

// Validation is the outcome of [ValidateContact].
type Validation struct {
	// Missing lists the names of required fields that are absent or blank.
	Missing []string
}

// ValidateContact checks that every field of f holds a non-blank value.
func ValidateContact(f ContactFields) Validation {
	var v Validation
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"phone", f.Phone},
		{"email", f.Email},
		{"type", f.Type},
	} {
		if strings.TrimSpace(field.value) == "" {
			v.Missing = append(v.Missing, field.name)
		}
	}
	return v
}

func (v Validation) Valid() bool { return len(v.Missing) == 0 }

func (v Validation) Error() string {
	return "missing required fields: " + strings.Join(v.Missing, ", ")
}

// details converts v to the error details of a huma error response.
func (v Validation) details() []error {
	errs := make([]error, 0, len(v.Missing))
	for _, field := range v.Missing {
		errs = append(errs, &huma.ErrorDetail{
			Message:  "required field is missing or empty",
			Location: "body." + field,
		})
	}
	return errs
}
