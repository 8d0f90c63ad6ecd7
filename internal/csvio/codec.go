// Package csvio converts between ledger transactions and the CSV
// interchange format.
//
// Decoding is deliberately lenient: malformed rows are never rejected,
// each field defaults independently, and fields are split on bare
// commas with no quote handling. Embedded commas in a description or
// category therefore shift columns; that is an accepted limitation of
// the format, not something the decoder tries to repair. Encoding, in
// contrast, emits RFC-4180-style quoting so exported files are safe to
// open elsewhere.
package csvio

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/core"
)

// Header is the fixed five-column header of every exported file. The
// type column is derived from the amount sign, never stored.
const Header = "date,description,amount,category,type"

// columns holds the resolved field positions for one decode run. A
// negative index means the column is absent.
type columns struct {
	date, description, amount, category, typ int
}

// fixedColumns is the positional layout used when no header row is
// detected: date, description, amount, category, and no type column.
var fixedColumns = columns{date: 0, description: 1, amount: 2, category: 3, typ: -1}

// Decode parses CSV text into transactions. It returns the rows it
// could extract, which may be empty; it never fails.
//
// The first line is treated as a header when it contains all four
// required column names (date, description, amount, category,
// case-insensitive), in which case column order follows the header and
// an optional fifth type column participates in sign inference. Without
// a header every line is data in the fixed positional order.
//
// Sign inference runs in two modes. When a type column exists, a value
// prefix-matching "exp" (lower-cased) forces the amount negative and
// any other value forces it positive, overriding the sign in the raw
// field. Without a type column the amount keeps its own sign.
func Decode(text string) []core.Transaction {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil
	}

	cols := fixedColumns
	if header, ok := headerColumns(lines[0]); ok {
		cols = header
		lines = lines[1:]
	}

	var out []core.Transaction
	for _, line := range lines {
		fields := strings.Split(line, ",")
		out = append(out, decodeRow(fields, cols))
	}
	return out
}

// Encode serializes transactions to CSV text in collection order. Only
// description and category are escaped; dates and amounts cannot
// contain special characters.
func Encode(txns []core.Transaction) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, t := range txns {
		typ := "income"
		if t.Amount < 0 {
			typ = "expense"
		}
		b.WriteString(t.Date)
		b.WriteByte(',')
		b.WriteString(escapeField(t.Description))
		b.WriteByte(',')
		b.WriteString(formatAmount(t.Amount))
		b.WriteByte(',')
		b.WriteString(escapeField(t.Category))
		b.WriteByte(',')
		b.WriteString(typ)
		b.WriteByte('\n')
	}
	return b.String()
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// headerColumns inspects a candidate header line and, when all four
// required names are present, returns their positions.
func headerColumns(line string) (columns, bool) {
	cols := columns{date: -1, description: -1, amount: -1, category: -1, typ: -1}
	for i, cell := range strings.Split(line, ",") {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "date":
			cols.date = i
		case "description":
			cols.description = i
		case "amount":
			cols.amount = i
		case "category":
			cols.category = i
		case "type":
			cols.typ = i
		}
	}
	if cols.date < 0 || cols.description < 0 || cols.amount < 0 || cols.category < 0 {
		return columns{}, false
	}
	return cols, true
}

func decodeRow(fields []string, cols columns) core.Transaction {
	field := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	amount, err := strconv.ParseFloat(field(cols.amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	if cols.typ >= 0 {
		if strings.HasPrefix(strings.ToLower(field(cols.typ)), "exp") {
			amount = -math.Abs(amount)
		} else {
			amount = math.Abs(amount)
		}
	}

	category := field(cols.category)
	if category == "" {
		category = core.DefaultCategory
	}

	return core.Transaction{
		ID:          uuid.NewString(),
		Date:        core.TruncateDate(field(cols.date)),
		Description: field(cols.description),
		Amount:      amount,
		Category:    category,
	}
}

// escapeField wraps a field in double quotes when it contains a comma,
// quote or line break, doubling any embedded quotes.
func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatAmount emits the raw signed decimal with no padding, so 4.50
// round-trips as 4.5 and integers stay bare.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
