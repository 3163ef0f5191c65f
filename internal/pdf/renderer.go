// Package pdf renders an invoice into a deterministic PDF document. The same
// invoice and sender profile always produce byte-identical output, so the
// downloaded file and the emailed attachment can never disagree.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
)

// SenderProfile is the fixed identity printed in the Sent From block.
type SenderProfile struct {
	CompanyName  string
	ContactName  string
	Email        string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	LogoPath     string
}

// RenderError reports a document layout failure. Optional elements (the
// logo) degrade by being omitted instead of failing the render.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Layout constants, in millimeters on US Letter.
const (
	marginLeft  = 15.0
	marginTop   = 15.0
	marginRight = 15.0
	contentW    = 216.0 - marginLeft - marginRight

	colDescW   = 96.0
	colQtyW    = 20.0
	colRateW   = 30.0
	colAmountW = 40.0

	rowH = 8.0
)

// Renderer turns invoices into PDF bytes using a fixed-coordinate layout.
type Renderer struct {
	sender SenderProfile
}

// NewRenderer creates a renderer for the given sender identity.
func NewRenderer(sender SenderProfile) *Renderer {
	return &Renderer{sender: sender}
}

// Filename returns the download/attachment name for an invoice document.
func Filename(inv *domain.Invoice) string {
	return inv.InvoiceNumber + ".pdf"
}

// Render produces the invoice document. Pure with respect to its inputs: no
// clock reads, no mutation of the invoice, stable output ordering.
func (r *Renderer) Render(inv *domain.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "Letter", "")
	// Fixed metadata keeps repeat renders byte-identical. Both dates must be
	// pinned: gofpdf falls back to the wall clock for either one left unset.
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.SetCatalogSort(true)
	doc.SetTitle("Invoice "+inv.InvoiceNumber, false)
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	r.drawLogo(doc)
	r.drawTitle(doc, inv)
	r.drawDates(doc, inv)
	r.drawParties(doc, inv)
	r.drawItemsTable(doc, inv)
	r.drawTotal(doc, inv)
	r.drawPaymentLink(doc, inv)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Stage: "output", Err: err}
	}
	return buf.Bytes(), nil
}

// drawLogo places the sender logo top-left. A missing or unreadable logo is
// skipped; it never aborts the render.
func (r *Renderer) drawLogo(doc *gofpdf.Fpdf) {
	if r.sender.LogoPath == "" {
		return
	}
	imgType := strings.ToLower(strings.TrimPrefix(filepath.Ext(r.sender.LogoPath), "."))
	switch imgType {
	case "png", "jpg", "jpeg", "gif":
	default:
		return
	}
	data, err := os.ReadFile(r.sender.LogoPath)
	if err != nil {
		return
	}
	// Probe-decode first: a registration failure would poison the whole
	// document, and a bad logo must not abort the render.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: imgType}
	doc.RegisterImageOptionsReader("sender-logo", opts, bytes.NewReader(data))
	doc.ImageOptions("sender-logo", marginLeft, 12, 36, 0, false, opts, 0, "")
}

func (r *Renderer) drawTitle(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	doc.SetY(32)
	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(contentW/2, 10, "INVOICE", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(contentW/2, 7, "# "+inv.InvoiceNumber, "", 1, "L", false, 0, "")
}

// drawDates renders the right-aligned date block. Date Paid appears only on
// paid invoices.
func (r *Renderer) drawDates(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	lines := []struct{ label, value string }{
		{"Date", inv.Date.Display()},
		{"Due Date", inv.DueDate.Display()},
	}
	if inv.Status == domain.InvoiceStatusPaid && !inv.DatePaid.IsZero() {
		lines = append(lines, struct{ label, value string }{"Date Paid", inv.DatePaid.Display()})
	}

	y := 32.0
	for _, ln := range lines {
		doc.SetXY(marginLeft+contentW-70, y)
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(35, 6, ln.label+":", "", 0, "R", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(35, 6, ln.value, "", 0, "R", false, 0, "")
		y += 6
	}
}

// drawParties renders the Bill To and Sent From blocks side by side.
func (r *Renderer) drawParties(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	top := 58.0
	half := contentW / 2

	doc.SetXY(marginLeft, top)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(half, 6, "Bill To", "", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(half, 5, inv.BuilderName, "", 2, "L", false, 0, "")
	if inv.BuilderEmail != "" {
		doc.CellFormat(half, 5, inv.BuilderEmail, "", 2, "L", false, 0, "")
	}

	doc.SetXY(marginLeft+half, top)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(half, 6, "Sent From", "", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, line := range r.senderLines() {
		doc.SetX(marginLeft + half)
		doc.CellFormat(half, 5, line, "", 2, "L", false, 0, "")
	}
}

func (r *Renderer) senderLines() []string {
	lines := make([]string, 0, 6)
	for _, s := range []string{
		r.sender.CompanyName,
		r.sender.ContactName,
		r.sender.AddressLine1,
		r.sender.AddressLine2,
		r.sender.Phone,
		r.sender.Email,
	} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// drawItemsTable renders the header band, the optional project address
// annotation row, then one row per item in stored order. Zero items leaves
// just the header.
func (r *Renderer) drawItemsTable(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	doc.SetY(96)

	doc.SetFillColor(226, 232, 240)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(colDescW, rowH, "Description", "", 0, "L", true, 0, "")
	doc.CellFormat(colQtyW, rowH, "Qty", "", 0, "C", true, 0, "")
	doc.CellFormat(colRateW, rowH, "Rate", "", 0, "R", true, 0, "")
	doc.CellFormat(colAmountW, rowH, "Amount", "", 1, "R", true, 0, "")

	if inv.ProjectDetails != "" {
		doc.SetFont("Helvetica", "I", 9)
		doc.CellFormat(contentW, 6, "Project Address: "+inv.ProjectDetails, "", 1, "L", false, 0, "")
	}

	doc.SetFont("Helvetica", "", 10)
	for idx := range inv.Items {
		it := &inv.Items[idx]
		doc.CellFormat(colDescW, rowH, it.Description, "", 0, "L", false, 0, "")
		doc.CellFormat(colQtyW, rowH, it.Quantity.String(), "", 0, "C", false, 0, "")
		doc.CellFormat(colRateW, rowH, wholeMoney(it.Rate), "", 0, "R", false, 0, "")
		doc.CellFormat(colAmountW, rowH, wholeMoney(it.Amount), "", 1, "R", false, 0, "")
	}
}

// drawTotal renders the rounded-rectangle total highlight from the
// recomputed total, never a stored value.
func (r *Renderer) drawTotal(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	y := doc.GetY() + 6
	w := colRateW + colAmountW
	x := marginLeft + contentW - w

	doc.SetFillColor(226, 232, 240)
	doc.RoundedRect(x, y, w, 11, 2.5, "1234", "F")
	doc.SetXY(x, y+2)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(w-4, 7, "Total  "+money(inv.Total()), "", 1, "R", false, 0, "")
}

// drawPaymentLink renders the pay-online call to action. Omitted entirely
// when the invoice carries no payment link.
func (r *Renderer) drawPaymentLink(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	if inv.PaymentLink == "" {
		return
	}
	y := doc.GetY() + 10
	doc.SetXY(marginLeft, y)
	doc.SetFont("Helvetica", "BU", 11)
	doc.SetTextColor(29, 78, 216)
	doc.CellFormat(contentW, 8, "Pay this invoice online", "", 1, "C", false, 0, inv.PaymentLink)
	doc.SetTextColor(0, 0, 0)
}

// money formats with two decimals, display only.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// wholeMoney formats table cells in whole currency.
func wholeMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}
