package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

var exportHeader = []string{"Product", "Categories", "6-Month", "1-Year", "Lifetime", "Devices", "Description"}

func exportRow(p *Product) []string {
	row := []string{p.Name, strings.Join(p.Categories, "; ")}
	for _, plan := range AllPlans {
		if v, ok := p.PlanPrice(plan); ok {
			row = append(row, FormatUSD(v))
		} else {
			row = append(row, "")
		}
	}
	return append(row, p.Devices.String(), strings.ReplaceAll(p.Description, "\n", " "))
}

// WriteCSV writes the products as a quoted CSV table.
func WriteCSV(w io.Writer, products []*Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, p := range products {
		if err := cw.Write(exportRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as WriteCSV into a "Catalog" sheet.
func WriteXLSX(w io.Writer, products []*Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Catalog")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		for _, v := range exportRow(p) {
			row.AddCell().SetValue(v)
		}
	}
	return file.Write(w)
}

// CopyText is the clipboard summary of a product.
func CopyText(p *Product) string {
	var lines []string
	for _, pp := range p.Plans() {
		lines = append(lines, fmt.Sprintf("%s: %s", pp.Plan, FormatUSD(pp.Price)))
	}
	return fmt.Sprintf("%s\n\n%s\n\nDevices: %s\n\n%s", p.Name, strings.Join(lines, "\n"), p.Devices, p.Description)
}
