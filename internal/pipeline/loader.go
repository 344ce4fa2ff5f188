package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RawRecord is one line of the raw transactional export, immutable once read.
type RawRecord struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	UnitPrice   float64
	InvoiceDate time.Time
	CustomerID  *int // nil when the source cell is empty
	Country     string
}

// Timestamp layouts seen in the export. The UK retail dump uses d/m/yyyy h:mm,
// re-exports tend to be ISO.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// LoadRawRecords reads the whole delimited source into memory, preserving
// input order. The file is decoded as UTF-8 first; if that fails the read is
// retried as ISO-8859-1 before giving up. There is no partial-success mode.
func LoadRawRecords(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, &SourceReadError{Path: path, Err: fmt.Errorf("undecodable after ISO-8859-1 fallback: %w", decErr)}
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("parsing csv: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("source is empty")}
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, &SourceReadError{Path: path, Err: fmt.Errorf("line %d: %w", i+2, err)}
		}
		records = append(records, rec)
	}

	return records, nil
}

type columnIndex struct {
	invoiceNo, stockCode, description, quantity, unitPrice, invoiceDate, customerID, country int
}

func headerIndex(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	idx := columnIndex{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{"invoiceno", &idx.invoiceNo},
		{"stockcode", &idx.stockCode},
		{"description", &idx.description},
		{"quantity", &idx.quantity},
		{"unitprice", &idx.unitPrice},
		{"invoicedate", &idx.invoiceDate},
		{"customerid", &idx.customerID},
		{"country", &idx.country},
	} {
		i, ok := pos[want.name]
		if !ok {
			return idx, fmt.Errorf("missing column %q in header", want.name)
		}
		*want.dst = i
	}
	return idx, nil
}

func parseRow(row []string, cols columnIndex) (RawRecord, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	qty, err := strconv.Atoi(field(cols.quantity))
	if err != nil {
		return RawRecord{}, fmt.Errorf("quantity %q: %w", field(cols.quantity), err)
	}

	price, err := strconv.ParseFloat(field(cols.unitPrice), 64)
	if err != nil {
		return RawRecord{}, fmt.Errorf("unit price %q: %w", field(cols.unitPrice), err)
	}

	ts, err := parseTimestamp(field(cols.invoiceDate))
	if err != nil {
		return RawRecord{}, err
	}

	var desc string
	if cols.description < len(row) {
		desc = row[cols.description] // trimmed later by the cleaner
	}

	var customerID *int
	if raw := field(cols.customerID); raw != "" {
		// Some exports carry the key as a float (pandas artifact, "17850.0").
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return RawRecord{}, fmt.Errorf("customer id %q: %w", raw, err)
		}
		id := int(f)
		customerID = &id
	}

	return RawRecord{
		InvoiceNo:   field(cols.invoiceNo),
		StockCode:   field(cols.stockCode),
		Description: desc,
		Quantity:    qty,
		UnitPrice:   price,
		InvoiceDate: ts,
		CustomerID:  customerID,
		Country:     field(cols.country),
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q: no known layout matched", raw)
}
