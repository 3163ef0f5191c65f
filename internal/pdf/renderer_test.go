package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
)

func testSender() SenderProfile {
	return SenderProfile{
		CompanyName:  "Warranty Works LLC",
		ContactName:  "Ray Ortega",
		Email:        "ray@warrantyworks.test",
		Phone:        "555-0100",
		AddressLine1: "12 Shop Rd",
	}
}

func testInvoice() *domain.Invoice {
	builder := domain.NewBuilder("ACME Homes", "billing@acmehomes.test")
	builder.ID = "builder-1"
	inv := domain.NewInvoice("INV-2026-001", builder, "2026-08-01", "2026-08-31")
	inv.ProjectDetails = "44 Elm St, Springfield"
	inv.AddItem(domain.NewInvoiceItem("Drywall repair", decimal.RequireFromString("2"), decimal.RequireFromString("50")))
	inv.AddItem(domain.NewInvoiceItem("Paint touch-up", decimal.RequireFromString("1"), decimal.RequireFromString("75")))
	return inv
}

func TestRender_ProducesPDF(t *testing.T) {
	out, err := NewRenderer(testSender()).Render(testInvoice())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
	if !bytes.Contains(out, []byte("Invoice INV-2026-001")) {
		t.Errorf("document title missing")
	}
}

func TestRender_IsDeterministic(t *testing.T) {
	r := NewRenderer(testSender())
	inv := testInvoice()

	first, err := r.Render(inv)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	// Cross a wall-clock second so any metadata date falling back to the
	// clock would show up as a diff.
	time.Sleep(1100 * time.Millisecond)
	second, err := r.Render(inv)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeat renders of the same invoice must be byte-identical")
	}
}

func TestRender_MetadataDatesArePinned(t *testing.T) {
	out, err := NewRenderer(testSender()).Render(testInvoice())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// Every date string in the document must be the fixed sentinel; a
	// creation or modification date taken from the clock would break
	// byte-identical output across runs.
	total := bytes.Count(out, []byte("(D:"))
	pinned := bytes.Count(out, []byte("(D:20000101000000"))
	if total == 0 {
		t.Fatal("expected metadata dates in the document")
	}
	if pinned != total {
		t.Errorf("%d of %d metadata dates are not the fixed sentinel", total-pinned, total)
	}
}

func TestRender_DoesNotMutateInvoice(t *testing.T) {
	inv := testInvoice()
	before := inv.Total()

	if _, err := NewRenderer(testSender()).Render(inv); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !inv.Total().Equal(before) || len(inv.Items) != 2 {
		t.Error("render mutated the invoice")
	}
}

func TestRender_PaymentLinkOnlyWhenPresent(t *testing.T) {
	r := NewRenderer(testSender())

	inv := testInvoice()
	without, err := r.Render(inv)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(without, []byte("pay.test")) {
		t.Error("payment CTA rendered without a link")
	}

	inv.PaymentLink = "https://pay.test/l/abc"
	with, err := r.Render(inv)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(with, []byte("https://pay.test/l/abc")) {
		t.Error("payment link URL missing from the document")
	}
}

func TestRender_ZeroItems(t *testing.T) {
	builder := domain.NewBuilder("ACME Homes", "billing@acmehomes.test")
	inv := domain.NewInvoice("INV-2026-002", builder, "2026-08-01", "2026-08-31")

	out, err := NewRenderer(testSender()).Render(inv)
	if err != nil {
		t.Fatalf("a zero-item invoice must still render: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}
}

func TestRender_BadLogoIsSkipped(t *testing.T) {
	dir := t.TempDir()

	missing := testSender()
	missing.LogoPath = filepath.Join(dir, "nope.png")
	if _, err := NewRenderer(missing).Render(testInvoice()); err != nil {
		t.Errorf("missing logo must not fail the render: %v", err)
	}

	corrupt := testSender()
	corrupt.LogoPath = filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt.LogoPath, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRenderer(corrupt).Render(testInvoice()); err != nil {
		t.Errorf("corrupt logo must not fail the render: %v", err)
	}

	wrongType := testSender()
	wrongType.LogoPath = filepath.Join(dir, "logo.svg")
	if _, err := NewRenderer(wrongType).Render(testInvoice()); err != nil {
		t.Errorf("unsupported logo type must not fail the render: %v", err)
	}
}

func TestFilename(t *testing.T) {
	inv := testInvoice()
	if got := Filename(inv); got != "INV-2026-001.pdf" {
		t.Errorf("expected INV-2026-001.pdf, got %s", got)
	}
}
