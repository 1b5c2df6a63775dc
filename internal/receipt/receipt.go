// Package receipt lays out a recorded sale as a printable PDF.
package receipt

import (
	"bytes"
	"fmt"

	"marco-pos/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	rowHeight    = 10.0
	bottomMargin = 20.0
	dateLayout   = "2006-01-02 15:04:05"
)

// column widths in mm: product, quantity, unit price, line total
var columns = [4]float64{80, 30, 30, 30}

type Options struct {
	StoreName      string
	CurrencySymbol string
}

// Filename is the suggested download name for the sale's receipt.
func Filename(saleID uint) string {
	return fmt.Sprintf("receipt_%d.pdf", saleID)
}

// Render returns the PDF bytes for a sale loaded with its user and items.
func Render(sale *models.Sale, opts Options) ([]byte, error) {
	pdf := build(sale, opts)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %d: %w", sale.ID, err)
	}
	return buf.Bytes(), nil
}

func build(sale *models.Sale, opts Options) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(d decimal.Decimal) string {
		return tr(opts.CurrencySymbol + d.StringFixed(2))
	}

	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, rowHeight, tr(opts.StoreName+" - Receipt"), "", 1, "C", false, 0, "")
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, rowHeight, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, rowHeight, fmt.Sprintf("Receipt for Sale ID: %d", sale.ID), "", 1, "", false, 0, "")
	pdf.CellFormat(0, rowHeight, "Date: "+sale.Timestamp.Format(dateLayout), "", 1, "", false, 0, "")
	pdf.CellFormat(0, rowHeight, tr("Cashier: "+sale.User.Username), "", 1, "", false, 0, "")
	pdf.Ln(rowHeight)

	tableHeader := func() {
		pdf.SetFont("Arial", "B", 12)
		for i, title := range []string{"Product", "Quantity", "Unit Price", "Total"} {
			pdf.CellFormat(columns[i], rowHeight, title, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 12)
	}
	tableHeader()

	_, pageHeight := pdf.GetPageSize()
	for _, item := range sale.Items {
		// keep the column titles on top of every continuation page
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			tableHeader()
		}
		pdf.CellFormat(columns[0], rowHeight, tr(item.Product.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(columns[1], rowHeight, fmt.Sprintf("%d", item.Quantity), "1", 0, "", false, 0, "")
		pdf.CellFormat(columns[2], rowHeight, money(item.PriceAtSale), "1", 0, "", false, 0, "")
		pdf.CellFormat(columns[3], rowHeight, money(item.LineTotal()), "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(columns[0]+columns[1]+columns[2], rowHeight, "Grand Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(columns[3], rowHeight, money(sale.TotalAmount), "1", 0, "", false, 0, "")
	pdf.Ln(2 * rowHeight)

	pdf.CellFormat(0, rowHeight, "Thank you for your purchase!", "", 1, "C", false, 0, "")
	return pdf
}
