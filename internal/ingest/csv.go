package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Required columns in uploaded order data.
var requiredColumns = []string{
	"orderId", "hotelId", "orderNo", "itemName",
	"itemQuantity", "itemPrice", "status", "createdAt", "updatedAt",
}

// Timestamp layouts accepted for createdAt/updatedAt. Parsed values are
// timezone-naive: any offset in the input is dropped.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadCSV parses order line items from CSV with a header row. A missing
// required column or an unparseable value in one is a DataFormatError,
// fatal to the run.
func ReadCSV(r io.Reader) ([]models.OrderLineItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &pipeline.DataFormatError{Column: "header", Err: fmt.Errorf("empty file")}
	}
	if err != nil {
		return nil, &pipeline.DataFormatError{Column: "header", Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &pipeline.DataFormatError{Column: col, Err: fmt.Errorf("column missing from header")}
		}
	}

	var rows []models.OrderLineItem
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "row", Row: rowNum, Err: err}
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		createdAt, err := ParseTimestamp(field("createdAt"))
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "createdAt", Row: rowNum, Err: err}
		}
		updatedAt, err := ParseTimestamp(field("updatedAt"))
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "updatedAt", Row: rowNum, Err: err}
		}

		hotelID, err := parseIntDefault(field("hotelId"), 0)
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "hotelId", Row: rowNum, Err: err}
		}
		// Missing quantity/price default to zero here; the preprocessor
		// drops the row. Garbage values are a format error.
		quantity, err := parseIntDefault(field("itemQuantity"), 0)
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "itemQuantity", Row: rowNum, Err: err}
		}
		price, err := parseDecimalDefault(field("itemPrice"))
		if err != nil {
			return nil, &pipeline.DataFormatError{Column: "itemPrice", Row: rowNum, Err: err}
		}

		rows = append(rows, models.OrderLineItem{
			OrderID:      field("orderId"),
			HotelID:      hotelID,
			OrderNo:      field("orderNo"),
			ItemName:     field("itemName"),
			ItemQuantity: quantity,
			ItemPrice:    price,
			Status:       field("status"),
			CreatedAt:    createdAt,
			UpdatedAt:    updatedAt,
		})
		rowNum++
	}

	return rows, nil
}

// ParseTimestamp accepts any of the supported ISO-like layouts and returns
// a timezone-naive timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseDecimalDefault(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
