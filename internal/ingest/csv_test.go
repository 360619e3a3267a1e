package ingest

import (
	"strings"
	"testing"
	"time"

	"hotel-analytics-service/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "orderId,hotelId,orderNo,itemName,itemQuantity,itemPrice,status,createdAt,updatedAt\n"

func TestReadCSV(t *testing.T) {
	data := csvHeader +
		"ORD-000001,1,ON-000001,Burger and Fries,2,15.99,completed,2024-06-15 19:30:00,2024-06-15 20:15:00\n" +
		"ORD-000002,3,ON-000002,Coffee,1,3.99,pending,2024-06-15T08:05:00,2024-06-15T08:10:00\n"

	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "ORD-000001", first.OrderID)
	assert.Equal(t, 1, first.HotelID)
	assert.Equal(t, "Burger and Fries", first.ItemName)
	assert.Equal(t, 2, first.ItemQuantity)
	assert.True(t, first.ItemPrice.Equal(decimal.RequireFromString("15.99")))
	assert.Equal(t, "completed", first.Status)
	assert.Equal(t, time.Date(2024, 6, 15, 19, 30, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, time.Date(2024, 6, 15, 20, 15, 0, 0, time.UTC), first.UpdatedAt)
}

func TestReadCSVMissingColumn(t *testing.T) {
	data := "orderId,hotelId,orderNo,itemName,itemQuantity,itemPrice,status,createdAt\n" +
		"ORD-000001,1,ON-000001,Burger,1,5.00,completed,2024-06-15\n"

	_, err := ReadCSV(strings.NewReader(data))
	require.Error(t, err)

	var formatErr *pipeline.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "updatedAt", formatErr.Column)
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)

	var formatErr *pipeline.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "header", formatErr.Column)
}

func TestReadCSVBadTimestamp(t *testing.T) {
	data := csvHeader +
		"ORD-000001,1,ON-000001,Burger,1,5.00,completed,15/06/2024,2024-06-15 20:00:00\n"

	_, err := ReadCSV(strings.NewReader(data))
	require.Error(t, err)

	var formatErr *pipeline.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "createdAt", formatErr.Column)
	assert.Equal(t, 1, formatErr.Row)
}

func TestReadCSVBadQuantity(t *testing.T) {
	data := csvHeader +
		"ORD-000001,1,ON-000001,Burger,lots,5.00,completed,2024-06-15,2024-06-15\n"

	_, err := ReadCSV(strings.NewReader(data))
	require.Error(t, err)

	var formatErr *pipeline.DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "itemQuantity", formatErr.Column)
}

func TestReadCSVEmptyQuantityAndPriceDefaultToZero(t *testing.T) {
	data := csvHeader +
		"ORD-000001,1,ON-000001,Burger,,,completed,2024-06-15,2024-06-15\n"

	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].ItemQuantity)
	assert.True(t, rows[0].ItemPrice.IsZero())
}

func TestParseTimestampDropsOffset(t *testing.T) {
	got, err := ParseTimestamp("2024-06-15T19:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 19, 30, 0, 0, time.UTC), got)

	got, err = ParseTimestamp("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTimestamp("")
	assert.Error(t, err)
}
