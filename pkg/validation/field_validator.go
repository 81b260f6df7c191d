// Package validation checks the names and operators a query or model
// registration is built from, before anything is evaluated.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pay-theory/dynamock/pkg/errors"
)

// ValidationError describes a rejected name or operator
type ValidationError struct {
	Type   string
	Field  string
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s - %s", e.Type, e.Field, e.Detail)
}

// Unwrap returns the error kind
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validation limits
const (
	MaxFieldNameLength = 255
	MaxOperatorLength  = 20
	MaxNestedDepth     = 32
	MaxTableNameLength = 255
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Operator whitelist, keyed by upper-case spelling
var allowedOperators = map[string]bool{
	"=":           true,
	"!=":          true,
	"<>":          true,
	"<":           true,
	"<=":          true,
	">":           true,
	">=":          true,
	"BETWEEN":     true,
	"IN":          true,
	"BEGINS_WITH": true,
	"CONTAINS":    true,
	"EXISTS":      true,
	"NOT_EXISTS":  true,
	"EQ":          true,
	"NE":          true,
	"LT":          true,
	"LE":          true,
	"GT":          true,
	"GE":          true,
}

// ValidateFieldName validates a field name or dotted field path
func ValidateFieldName(field string) error {
	if strings.TrimSpace(field) == "" {
		return &ValidationError{
			Type:   "InvalidField",
			Field:  field,
			Detail: "field name cannot be empty",
			Err:    errors.ErrFieldNotFound,
		}
	}

	if len(field) > MaxFieldNameLength {
		return &ValidationError{
			Type:   "InvalidField",
			Field:  field,
			Detail: fmt.Sprintf("field name exceeds maximum length of %d characters", MaxFieldNameLength),
			Err:    errors.ErrFieldNotFound,
		}
	}

	for _, r := range field {
		if unicode.IsControl(r) {
			return &ValidationError{
				Type:   "InvalidField",
				Field:  field,
				Detail: "field name contains control characters",
				Err:    errors.ErrFieldNotFound,
			}
		}
	}

	parts := strings.Split(field, ".")
	if len(parts) > MaxNestedDepth {
		return &ValidationError{
			Type:   "InvalidField",
			Field:  field,
			Detail: fmt.Sprintf("nested field depth exceeds maximum of %d", MaxNestedDepth),
			Err:    errors.ErrFieldNotFound,
		}
	}
	for _, part := range parts {
		if part == "" {
			return &ValidationError{
				Type:   "InvalidField",
				Field:  field,
				Detail: "field path contains an empty part",
				Err:    errors.ErrFieldNotFound,
			}
		}
	}

	return nil
}

// ValidateOperator validates a condition operator and returns its
// canonical upper-case spelling
func ValidateOperator(op string) (string, error) {
	if op == "" {
		return "", &ValidationError{
			Type:   "InvalidOperator",
			Field:  op,
			Detail: "operator cannot be empty",
			Err:    errors.ErrInvalidOperator,
		}
	}

	if len(op) > MaxOperatorLength {
		return "", &ValidationError{
			Type:   "InvalidOperator",
			Field:  op,
			Detail: fmt.Sprintf("operator exceeds maximum length of %d characters", MaxOperatorLength),
			Err:    errors.ErrInvalidOperator,
		}
	}

	canonical := strings.ToUpper(strings.TrimSpace(op))
	if !allowedOperators[canonical] {
		return "", &ValidationError{
			Type:   "InvalidOperator",
			Field:  op,
			Detail: fmt.Sprintf("operator '%s' is not allowed", op),
			Err:    errors.ErrInvalidOperator,
		}
	}

	return canonical, nil
}

// ValidateTableName validates a collection name. Names follow the
// DynamoDB table name alphabet so the PartiQL adapter can address them.
func ValidateTableName(name string) error {
	if name == "" || len(name) > MaxTableNameLength {
		return &ValidationError{
			Type:   "InvalidTableName",
			Field:  name,
			Detail: fmt.Sprintf("table name must be 1-%d characters", MaxTableNameLength),
			Err:    errors.ErrInvalidRegistration,
		}
	}

	if !tableNamePattern.MatchString(name) {
		return &ValidationError{
			Type:   "InvalidTableName",
			Field:  name,
			Detail: "table name can only contain letters, numbers, dots, dashes, and underscores",
			Err:    errors.ErrInvalidRegistration,
		}
	}

	return nil
}
