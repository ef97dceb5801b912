// Package export renders ledger entries and daily report rows as CSV
// and XLSX downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/shiwanibaghel76/dairybook/internal/entries"
	"github.com/shiwanibaghel76/dairybook/internal/reports"
)

var entryColumns = []string{
	"id",
	"entry_date",
	"customer_id",
	"customer",
	"qty_liters",
	"fat",
	"snf",
	"rate",
	"amount",
	"notes",
}

var dailyColumns = []string{
	"entry_date",
	"total_liters",
	"avg_fat",
	"avg_snf",
	"total_amount",
}

func dec2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteEntriesCSV writes entries as CSV with a header row. Numeric
// columns carry two decimals.
func WriteEntriesCSV(w io.Writer, list []entries.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(entryColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range list {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			strconv.FormatInt(e.CustomerID, 10),
			e.Customer,
			dec2(e.QtyLiters),
			dec2(e.Fat),
			dec2(e.SNF),
			dec2(e.Rate),
			dec2(e.Amount),
			e.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteDailyCSV writes per-day report rows as CSV with a header row.
func WriteDailyCSV(w io.Writer, rows []reports.DailyRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(dailyColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date,
			dec2(r.TotalLiters),
			dec2(r.AvgFat),
			dec2(r.AvgSNF),
			dec2(r.TotalAmount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// EntriesWorkbook builds an XLSX workbook of the entries and returns
// the serialized file.
func EntriesWorkbook(list []entries.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, len(entryColumns))
	for i, c := range entryColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write sheet header: %w", err)
	}

	row := 2
	for _, e := range list {
		values := []interface{}{
			e.ID,
			e.Date,
			e.CustomerID,
			e.Customer,
			e.QtyLiters,
			e.Fat,
			e.SNF,
			e.Rate,
			e.Amount,
			e.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("locate sheet cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write sheet row: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DailyWorkbook builds an XLSX workbook of the per-day report rows and
// returns the serialized file.
func DailyWorkbook(rows []reports.DailyRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, len(dailyColumns))
	for i, c := range dailyColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write sheet header: %w", err)
	}

	row := 2
	for _, r := range rows {
		values := []interface{}{
			r.Date,
			r.TotalLiters,
			r.AvgFat,
			r.AvgSNF,
			r.TotalAmount,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("locate sheet cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write sheet row: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
