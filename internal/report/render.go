package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Renderer turns a prepared report into one artifact format.
type Renderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, r *Report) ([]byte, error)
}

type HTMLRenderer struct{}

func (HTMLRenderer) Format() string      { return "html" }
func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (HTMLRenderer) Render(ctx context.Context, r *Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BuildDocument(r)
}

const xlsxSheet = "Sheet1"

// XLSXRenderer writes one row per product and a native pie chart over the
// quantity column.
type XLSXRenderer struct{}

func (XLSXRenderer) Format() string { return "xlsx" }
func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Render(ctx context.Context, r *Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	f.SetCellValue(xlsxSheet, "A1", "nombre")
	f.SetCellValue(xlsxSheet, "B1", "cantidad")
	f.SetCellValue(xlsxSheet, "C1", "precio")
	f.SetCellValue(xlsxSheet, "D1", "color")
	for i, s := range r.Slices {
		row := i + 2
		f.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", row), s.Label)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", row), s.Value)
		if i < len(r.Products) {
			f.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", row), r.Products[i].Price)
		}
		f.SetCellValue(xlsxSheet, fmt.Sprintf("D%d", row), s.Color)
	}
	f.SetColWidth(xlsxSheet, "A", "A", 28)

	if n := len(r.Slices); n > 0 {
		last := n + 1
		chart := fmt.Sprintf(`{"type":"pie","series":[{"name":"%s!$B$1","categories":"%s!$A$2:$A$%d","values":"%s!$B$2:$B$%d"}],"title":{"name":%q},"legend":{"position":"bottom"},"plotarea":{"show_val":true}}`,
			xlsxSheet, xlsxSheet, last, xlsxSheet, last, r.Title)
		if err := f.AddChart(xlsxSheet, "F2", chart); err != nil {
			return nil, errors.Wrap(err, "add xlsx chart")
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write xlsx")
	}
	return buf.Bytes(), nil
}

type csvRow struct {
	Name     string `csv:"nombre"`
	Quantity int    `csv:"cantidad"`
	Price    string `csv:"precio"`
	Color    string `csv:"color"`
}

type CSVRenderer struct{}

func (CSVRenderer) Format() string      { return "csv" }
func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVRenderer) Render(ctx context.Context, r *Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := make([]csvRow, 0, len(r.Slices))
	for i, s := range r.Slices {
		row := csvRow{Name: s.Label, Quantity: s.Value, Color: s.Color}
		if i < len(r.Products) {
			row.Price = decimal.NewFromFloat(r.Products[i].Price).String()
		}
		rows = append(rows, row)
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, errors.Wrap(err, "write csv")
	}
	return data, nil
}

// DefaultRenderers returns every supported artifact format.
func DefaultRenderers() []Renderer {
	return []Renderer{HTMLRenderer{}, XLSXRenderer{}, CSVRenderer{}}
}
