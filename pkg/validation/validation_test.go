package validation

import (
	"errors"
	"testing"

	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type supplierInput struct {
	Name  string `json:"name" validate:"required"`
	GSTIN string `json:"gstin" validate:"required,gstin"`
	Phone string `json:"phone" validate:"omitempty,phone10"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	cases := []struct {
		name  string
		in    supplierInput
		field string
	}{
		{"valid", supplierInput{Name: "Pumps Ltd", GSTIN: "33ABCDE1234F1Z5", Phone: "9876543210"}, ""},
		{"missing name", supplierInput{GSTIN: "33ABCDE1234F1Z5"}, "name"},
		{"short gstin", supplierInput{Name: "x", GSTIN: "33ABC"}, "gstin"},
		{"phone with letters", supplierInput{Name: "x", GSTIN: "33ABCDE1234F1Z5", Phone: "98765abcde"}, "phone"},
		{"phone too long", supplierInput{Name: "x", GSTIN: "33ABCDE1234F1Z5", Phone: "98765432101"}, "phone"},
		{"bad email", supplierInput{Name: "x", GSTIN: "33ABCDE1234F1Z5", Email: "nope"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValidation)
			var verr *errs.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
