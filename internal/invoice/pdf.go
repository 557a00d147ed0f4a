package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/MikeMC777/restaurant-pos/internal/order"
)

// RenderPDF prints an A4 invoice with one row per order line.
func RenderPDF(restaurant string, inv Invoice, items []order.Item, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(100, 10, tr(restaurant), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(80, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	meta := [][2]string{
		{"Invoice", inv.Number},
		{"Order", inv.OrderNumber},
		{"Issued", inv.IssuedAt.In(loc).Format("2006-01-02")},
		{"Due", inv.DueAt.In(loc).Format("2006-01-02")},
		{"Status", strings.ToUpper(inv.Status)},
	}
	if inv.CustomerName != "" {
		meta = append(meta, [2]string{"Bill to", inv.CustomerName})
	}
	for _, m := range meta {
		pdf.CellFormat(30, 6, m[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(150, 6, tr(m[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{90, 20, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Item", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		pdf.CellFormat(widths[0], 6, tr(it.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprint(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, it.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, it.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	total := func(label, value string) {
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, value, "", 1, "R", false, 0, "")
	}
	total("Subtotal", inv.Subtotal.StringFixed(2))
	if inv.Discount.IsPositive() {
		total("Discount", "-"+inv.Discount.StringFixed(2))
	}
	total("Tax", inv.Tax.StringFixed(2))
	pdf.SetFont("Helvetica", "B", 11)
	total("Amount due", inv.Amount.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
