package format

import (
	"testing"
	"time"

	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialYearBoundary(t *testing.T) {
	assert.Equal(t, "24-25", FinancialYear(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "24-25", FinancialYear(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "25-26", FinancialYear(time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "25-26", FinancialYear(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "99-00", FinancialYear(time.Date(2000, time.January, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "00-01", FinancialYear(time.Date(2000, time.December, 10, 0, 0, 0, 0, time.UTC)))
}

func TestFormatDocumentNumber(t *testing.T) {
	at := time.Date(2024, time.November, 5, 10, 0, 0, 0, time.UTC)

	got, err := FormatDocumentNumber("FFI", at, 7)
	require.NoError(t, err)
	assert.Equal(t, "FFI/24-25/007", got)

	got, err = FormatDocumentNumber("FFI", at, 1234)
	require.NoError(t, err)
	assert.Equal(t, "FFI/24-25/1234", got)
}

func TestFormatDocumentNumberIsPure(t *testing.T) {
	at := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	first, err := FormatDocumentNumber("PO", at, 42)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := FormatDocumentNumber("PO", at, 42)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFormatNumberTemplates(t *testing.T) {
	at := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	got, err := FormatNumber("{PREFIX}-{YYYY}{MM}{DD}-{SEQ6}", "INV", at, 12)
	require.NoError(t, err)
	assert.Equal(t, "INV-20250609-000012", got)

	got, err = FormatNumber("Q{YY}/{SEQ}", "", at, 5)
	require.NoError(t, err)
	assert.Equal(t, "Q25/5", got)
}

func TestFormatNumberRejectsInvalidInput(t *testing.T) {
	at := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		template string
		prefix   string
		seq      int64
	}{
		{"empty template", "", "FFI", 1},
		{"zero sequence", DefaultDocumentNumberTemplate, "FFI", 0},
		{"negative sequence", DefaultDocumentNumberTemplate, "FFI", -3},
		{"empty prefix", DefaultDocumentNumberTemplate, " ", 1},
		{"unknown token", "{PREFIX}/{WEEK}/{SEQ}", "FFI", 1},
		{"braces in prefix", DefaultDocumentNumberTemplate, "F{Y}", 1},
		{"slash in prefix", DefaultDocumentNumberTemplate, "FF/I", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FormatNumber(tc.template, tc.prefix, at, tc.seq)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}
