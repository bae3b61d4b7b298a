package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsUnwrap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("quantity", "must be positive"), ErrValidation},
		{"not found", NotFound("quotation", "42"), ErrNotFound},
		{"insufficient stock", &InsufficientStockError{ProductName: "Pump", Available: decimal.NewFromInt(1), Requested: decimal.NewFromInt(3)}, ErrInsufficientStock},
		{"already converted", &AlreadyConvertedError{QuotationID: "1"}, ErrAlreadyConverted},
		{"duplicate", &DuplicateDocumentNumberError{Kind: "invoice", Number: "FFI/24-25/001"}, ErrDuplicateDocumentNumber},
		{"storage", Storage("increment counter", errors.New("connection refused")), ErrStorage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.kind)
			assert.Equal(t, tc.kind.Error(), Classify(wrapped))
		})
	}
}

func TestStorageKeepsExistingKind(t *testing.T) {
	nf := NotFound("product", "7")
	assert.Same(t, nf, Storage("find product", nf))
	assert.Nil(t, Storage("noop", nil))
}

func TestStorageExposesDriverError(t *testing.T) {
	driverErr := errors.New("dial tcp: connection refused")
	err := Storage("increment counter", driverErr)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "increment counter", storageErr.Op)
	assert.ErrorIs(t, err, driverErr)
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, "", Classify(errors.New("boom")))
	assert.Equal(t, "", Classify(nil))
}
