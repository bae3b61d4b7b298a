package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/gstbilling/pkg/errs"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

// DefaultDocumentNumberTemplate renders numbers such as FFI/24-25/007.
const DefaultDocumentNumberTemplate = "{PREFIX}/{FY}/{SEQ3}"

// FinancialYear returns the Indian financial year containing at, as the
// two-digit start and end years ("24-25"). The year starts on 1 April.
// The month is read in at's own location; convert to the business time
// zone first.
func FinancialYear(at time.Time) string {
	start := at.Year()
	if at.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%02d-%02d", start%100, (start+1)%100)
}

// FormatDocumentNumber composes prefix, financial year and a sequence
// zero-padded to three digits.
func FormatDocumentNumber(prefix string, at time.Time, seq int64) (string, error) {
	return FormatNumber(DefaultDocumentNumberTemplate, prefix, at, seq)
}

// FormatNumber formats a human-readable document number
// based on a template, document date, and monotonic sequence.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func FormatNumber(
	template string,
	prefix string,
	at time.Time,
	seq int64,
) (string, error) {

	if template == "" {
		return "", errs.Validation("template", "document number template is empty")
	}

	if seq <= 0 {
		return "", errs.Validation("sequence", fmt.Sprintf("invalid document sequence: %d", seq))
	}

	prefix = strings.TrimSpace(prefix)
	if strings.Contains(template, "{PREFIX}") && prefix == "" {
		return "", errs.Validation("prefix", "document prefix is empty")
	}
	if strings.ContainsAny(prefix, "{}") {
		return "", errs.Validation("prefix", "document prefix contains template braces")
	}
	if strings.Contains(prefix, "/") {
		return "", errs.Validation("prefix", "document prefix must not contain '/'")
	}

	out := template

	out = strings.ReplaceAll(out, "{PREFIX}", prefix)
	out = strings.ReplaceAll(out, "{FY}", FinancialYear(at))

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", at.Format("02"))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m // should never happen
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	// Final safety check: unresolved tokens
	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", errs.Validation("template", "unresolved token in document number format: "+out)
	}

	return out, nil
}
