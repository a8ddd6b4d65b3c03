// Package validate provides input validation utilities for qpc command
// arguments, ensuring malformed values are rejected before any HTTP request
// is composed.
//
// Implements validation rules for ports, host specifiers, credential fields,
// and scan options using the go-playground/validator library for field rules
// plus regular expression grammars for the host forms the server accepts.
//
// VALIDATION COVERAGE:
//   - Ports: integer range checking (0-65535)
//   - Hosts: IPv4, CIDR, bracketed ranges, and hostnames per source type
//   - Enumerations: credential types, become methods, optional products
//
// Used by the command handlers' validate phase so every usage error carries
// a catalog message and exits before the transport is touched.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
}

// ValidateField validates individual values against specified validation rules
// using the go-playground/validator library. Supports all built-in validation
// tags including numeric ranges and required field validation.
//
// Example: ValidateField(port, "gte=0,lte=65535")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ValidatePortRange validates that a port number is within 0-65535.
// Port 0 is accepted; the server interprets it as "use the default".
func ValidatePortRange(port int) error {
	if err := ValidateField(port, "gte=0,lte=65535"); err != nil {
		return fmt.Errorf("port %d out of range 0-65535", port)
	}
	return nil
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateName validates a resource name: non-empty printable string of at
// most 64 characters. Applies to credential, source, and scan names.
func ValidateName(name string) error {
	if err := ValidateField(name, "required,max=64,printascii"); err != nil {
		return fmt.Errorf("name must be a non-empty printable string of at most 64 characters")
	}
	return nil
}
