package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock/pkg/errors"
)

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		wantErr bool
	}{
		{"simple", "Status", false},
		{"attribute name", "created_at", false},
		{"map key with dash", "first-name", false},
		{"nested", "address.city", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxFieldNameLength+1), true},
		{"control character", "na\x00me", true},
		{"empty part", "address..city", true},
		{"too deep", strings.Repeat("a.", MaxNestedDepth) + "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldName(tt.field)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrFieldNotFound)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "InvalidField", verr.Type)
		})
	}
}

func TestValidateOperator(t *testing.T) {
	for _, op := range []string{"=", "!=", "<>", "<", "<=", ">", ">=", "between", "IN", "begins_with", "CONTAINS", "EXISTS", "NOT_EXISTS", "eq", "NE", "LT", "LE", "GT", "GE"} {
		canonical, err := ValidateOperator(op)
		assert.NoError(t, err, op)
		assert.Equal(t, strings.ToUpper(op), canonical)
	}

	canonical, err := ValidateOperator(" gt ")
	require.NoError(t, err)
	assert.Equal(t, "GT", canonical)

	for _, op := range []string{"", "LIKE", "ATTRIBUTE_EXISTS", strings.Repeat("=", MaxOperatorLength+1)} {
		_, err := ValidateOperator(op)
		assert.ErrorIs(t, err, errors.ErrInvalidOperator, op)
	}
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, ValidateTableName("Users"))
	assert.NoError(t, ValidateTableName("prod.users-v2_idx"))

	for _, name := range []string{"", "Box[int]s", "struct { ID string }", strings.Repeat("t", MaxTableNameLength+1)} {
		err := ValidateTableName(name)
		assert.ErrorIs(t, err, errors.ErrInvalidRegistration, name)
	}
}
