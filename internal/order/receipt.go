package order

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const receiptWidth = 40

// Header is printed at the top of every receipt.
type Header struct {
	Restaurant string
	Address    string
	Footer     string
	Location   *time.Location
}

func (h Header) loc() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.UTC
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= receiptWidth {
		return s
	}
	return strings.Repeat(" ", (receiptWidth-n)/2) + s
}

// row lays out left and right text on one receipt line.
func row(left, right string) string {
	space := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if space < 1 {
		r := []rune(left)
		cut := len(r) + space - 1
		if cut < 0 {
			cut = 0
		}
		left = string(r[:cut])
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func paymentLabel(m string) string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	}
	return m
}

// RenderReceipt prints a fixed-width (40 column) plain-text receipt.
func RenderReceipt(h Header, o Order, items []Item) string {
	var b strings.Builder
	sep := strings.Repeat("-", receiptWidth)

	if h.Restaurant != "" {
		b.WriteString(center(h.Restaurant) + "\n")
	}
	if h.Address != "" {
		b.WriteString(center(h.Address) + "\n")
	}
	b.WriteString(sep + "\n")
	b.WriteString(row("Order", o.Number) + "\n")
	b.WriteString(row("Date", o.CreatedAt.In(h.loc()).Format("2006-01-02 15:04")) + "\n")
	if o.TableNumber != "" {
		b.WriteString(row("Table", o.TableNumber) + "\n")
	}
	b.WriteString(sep + "\n")
	for _, it := range items {
		b.WriteString(row(fmt.Sprintf("%dx %s", it.Quantity, it.Name), money(it.LineTotal)) + "\n")
		if it.Quantity > 1 {
			b.WriteString(fmt.Sprintf("   @ %s\n", money(it.UnitPrice)))
		}
		if it.Notes != "" {
			b.WriteString("   " + it.Notes + "\n")
		}
	}
	b.WriteString(sep + "\n")
	b.WriteString(row("Subtotal", money(o.Subtotal)) + "\n")
	if o.Discount.IsPositive() {
		b.WriteString(row("Discount", "-"+money(o.Discount)) + "\n")
	}
	b.WriteString(row("Tax", money(o.Tax)) + "\n")
	b.WriteString(row("TOTAL", money(o.Total)) + "\n")
	b.WriteString(row("Paid ("+paymentLabel(o.PaymentMethod)+")", money(o.AmountPaid)) + "\n")
	if o.Change.IsPositive() {
		b.WriteString(row("Change", money(o.Change)) + "\n")
	}
	b.WriteString(sep + "\n")
	footer := h.Footer
	if footer == "" {
		footer = "Thank you!"
	}
	b.WriteString(center(footer) + "\n")
	return b.String()
}

// RenderReceiptPDF renders the same receipt as a narrow (80mm) PDF ticket.
func RenderReceiptPDF(h Header, o Order, items []Item) ([]byte, error) {
	height := 90.0 + 6.0*float64(len(items))
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Courier", "B", 11)
	if h.Restaurant != "" {
		pdf.CellFormat(72, 6, tr(h.Restaurant), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Courier", "", 8)
	if h.Address != "" {
		pdf.CellFormat(72, 4, tr(h.Address), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	line := func(left, right string) {
		pdf.CellFormat(52, 4, tr(left), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 4, tr(right), "", 1, "R", false, 0, "")
	}
	line("Order", o.Number)
	line("Date", o.CreatedAt.In(h.loc()).Format("2006-01-02 15:04"))
	if o.TableNumber != "" {
		line("Table", o.TableNumber)
	}
	pdf.Line(4, pdf.GetY()+1, 76, pdf.GetY()+1)
	pdf.Ln(2)
	for _, it := range items {
		line(fmt.Sprintf("%dx %s", it.Quantity, it.Name), money(it.LineTotal))
	}
	pdf.Line(4, pdf.GetY()+1, 76, pdf.GetY()+1)
	pdf.Ln(2)
	line("Subtotal", money(o.Subtotal))
	if o.Discount.IsPositive() {
		line("Discount", "-"+money(o.Discount))
	}
	line("Tax", money(o.Tax))
	pdf.SetFont("Courier", "B", 9)
	line("TOTAL", money(o.Total))
	pdf.SetFont("Courier", "", 8)
	line("Paid ("+paymentLabel(o.PaymentMethod)+")", money(o.AmountPaid))
	if o.Change.IsPositive() {
		line("Change", money(o.Change))
	}
	pdf.Ln(3)
	footer := h.Footer
	if footer == "" {
		footer = "Thank you!"
	}
	pdf.CellFormat(72, 4, tr(footer), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("order: render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
