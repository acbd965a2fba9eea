package inventory

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

// Column names expected in uploaded CSV headers.
const (
	ColumnItem       = "item"
	ColumnQuantity   = "quantity"
	ColumnDailySales = "daily_sales"
)

var requiredColumns = []string{ColumnItem, ColumnQuantity, ColumnDailySales}

var (
	// ErrEmptyFile indicates the upload had no content at all.
	ErrEmptyFile = errors.New("file is empty")
	// ErrInvalidEncoding indicates the upload is not UTF-8 text.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	// ErrMissingColumns indicates required header columns are absent.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrInvalidNumber indicates a value that is not a finite number.
	ErrInvalidNumber = errors.New("not a valid number")
	// ErrNegativeValue indicates a quantity or sales figure below zero.
	ErrNegativeValue = errors.New("value must not be negative")
	// ErrMissingItem indicates a manual entry without an item name.
	ErrMissingItem = errors.New("item name is required")
)

// RowError pinpoints the cell that failed coercion.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %q %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseAmount coerces a raw quantity or sales value. Blank input yields nil,
// which the metrics calculator treats as zero.
func ParseAmount(raw string) (*float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrInvalidNumber
	}
	if v < 0 {
		return nil, ErrNegativeValue
	}
	return &v, nil
}

// ParseCSV reads inventory rows from a CSV document whose header names the
// item, quantity and daily_sales columns. Extra columns are ignored and
// fully blank lines are skipped.
func ParseCSV(r io.Reader) ([]models.InventoryRecord, error) {
	buf := bufio.NewReader(r)

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if prefix, err := buf.Peek(3); err == nil && prefix[0] == 0xEF && prefix[1] == 0xBB && prefix[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	const checkSize = 4096
	head, err := buf.Peek(checkSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	records := []models.InventoryRecord{}
	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(fields) {
			continue
		}

		record, err := rowToRecord(fields, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func rowToRecord(fields []string, index map[string]int, line int) (models.InventoryRecord, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	record := models.InventoryRecord{Item: cell(ColumnItem)}

	for _, col := range []string{ColumnQuantity, ColumnDailySales} {
		raw := cell(col)
		amount, err := ParseAmount(raw)
		if err != nil {
			return models.InventoryRecord{}, &RowError{Line: line, Column: col, Value: raw, Err: err}
		}
		if col == ColumnQuantity {
			record.Quantity = amount
		} else {
			record.DailySales = amount
		}
	}

	return record, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// trimPartialRune drops a multi-byte rune cut in half by the peek window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && i < len(b); i++ {
		end := len(b) - i
		if utf8.Valid(b[:end]) {
			return b[:end]
		}
	}
	return b
}
