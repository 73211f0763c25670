// Package export renders read models into interchange formats: XLSX
// workbooks for the back office and iCalendar feeds for external calendar
// clients.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/tz"
)

const invoiceSheet = "Invoices"

var invoiceHeader = []string{"Number", "Customer ID", "Job ID", "Status", "Currency", "Total", "Issued", "Due"}

// InvoiceWorkbook renders invoices into a single-sheet XLSX workbook.
// Timestamps are formatted in zone so the sheet reads in business local
// time, not UTC.
func InvoiceWorkbook(invoices []*domain.Invoice, zone string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(invoiceSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range invoiceHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(invoiceSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for row, inv := range invoices {
		issued, err := tz.FormatLocal(inv.IssuedAt, zone, "")
		if err != nil {
			return nil, err
		}
		due, err := tz.FormatLocal(inv.DueAt, zone, "")
		if err != nil {
			return nil, err
		}

		values := []any{
			inv.Number,
			inv.CustomerID,
			inv.JobID,
			string(inv.Status),
			inv.Currency,
			float64(inv.TotalCents()) / 100,
			issued,
			due,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(invoiceSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
