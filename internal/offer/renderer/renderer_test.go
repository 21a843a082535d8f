package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/quotes/transport"
)

type testConfig struct{}

func (testConfig) GetAppBaseURL() string { return "https://app.ffdpower.example" }

func testQuote() *transport.Quote {
	return &transport.Quote{
		ID:            uuid.New(),
		QuoteNumber:   "FFD-BESS-20260315-0042",
		ReferenceCode: "20260315-0007",
		Status:        "draft",
		CustomerData: transport.CustomerData{
			Name:         "Mario Colombo",
			Email:        "mario.colombo@acme.it",
			Company:      "Acme Energia S.r.l.",
			PowerKW:      1000,
			CapacityKWH:  2000,
			Usage:        []string{"peak-shaving", "autoconsumo"},
			ValidityDays: 30,
		},
		Items: []transport.QuoteItem{
			{
				ID: uuid.New(),
				Product: transport.ProductSnapshot{
					Code:           "ENERGY-CUBE-1MW",
					Name:           "Energy Cube 1MW",
					Category:       "Container BESS",
					UnitPrice:      750000,
					PowerRating:    1000,
					EnergyCapacity: 2000,
				},
				Quantity:   1,
				BasePrice:  750000,
				TotalPrice: 750000,
			},
		},
		TotalAmount: 750000,
		CreatedAt:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(testConfig{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRenderHTMLContainsOfferSections(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.RenderHTML(testQuote())
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"3.6. Component list and prices",
		"3.6. Offer details",
		"FFD-BESS-20260315-0042",
		"20260315-0007",
		"Energy Cube 1MW",
		"Liquid cooled",
		"750.000,00",
		"EXW Cremona, Italy",
		"EMS (Energy Management System)",
		"DDP Package",
		"Transport TBD",
		"1x LFP battery pack 2000 kWh;",
		"Peak Shaving, Autoconsumo",
		"15/03/2026",
		"14/04/2026",
		"FFD Power Italy S.r.l.",
		"data:image/png;base64,",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered offer missing %q", want)
		}
	}
}

func TestRenderHTMLShowsStruckBasePriceWhenDiscounted(t *testing.T) {
	r := newTestRenderer(t)

	q := testQuote()
	q.Items[0].DiscountPct = 20
	q.Items[0].Product.UnitPrice = 600000
	q.Items[0].TotalPrice = 600000
	q.TotalAmount = 600000

	out, err := r.RenderHTML(q)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `class="base-price">750.000,00`) {
		t.Error("discounted item should show the struck base price")
	}
	if !strings.Contains(html, "sconto 20%") {
		t.Error("discounted item should show the discount percentage")
	}
	if !strings.Contains(html, "600.000,00") {
		t.Error("discounted item should show the effective price")
	}
}

func TestFileName(t *testing.T) {
	r := newTestRenderer(t)

	got := r.FileName(testQuote())
	want := "FFD_Power_Offerta_BESS_FFD-BESS-20260315-0042_Acme_Energia_S.r.l..pdf"
	if got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}

	q := testQuote()
	q.CustomerData.Company = ""
	if got := r.FileName(q); !strings.Contains(got, "_Cliente.pdf") {
		t.Errorf("FileName without company = %q, want Cliente fallback", got)
	}
}

func TestEuroFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{950.5, "950,50"},
		{95000, "95.000,00"},
		{750000, "750.000,00"},
		{1234567.89, "1.234.567,89"},
		{-95000, "-95.000,00"},
	}
	for _, c := range cases {
		if got := euro(c.in); got != c.want {
			t.Errorf("euro(%v) = %q, want %q", c.in, got, c.want)
		}
	}

	if got := AmountIT(750000); got != "750.000" {
		t.Errorf("AmountIT(750000) = %q, want 750.000", got)
	}
	if got := AmountIT(202500.5); got != "202.500,50" {
		t.Errorf("AmountIT(202500.5) = %q, want 202.500,50", got)
	}
}

func TestCompositionByCategory(t *testing.T) {
	pcs := transport.QuoteItem{
		Quantity: 2,
		Product: transport.ProductSnapshot{
			Name:        "EPCS 250",
			Category:    "PCS",
			PowerRating: 250,
		},
	}
	lines := composition(pcs)
	if len(lines) != 4 || lines[1] != "2x Power Conversion System 250 kW;" {
		t.Errorf("unexpected PCS composition: %v", lines)
	}

	ems := transport.QuoteItem{
		Quantity: 1,
		Product: transport.ProductSnapshot{
			Name:     "EMS Controller Pro",
			Category: "EMS",
		},
	}
	lines = composition(ems)
	if len(lines) != 4 || lines[1] != "1x Energy Management System;" {
		t.Errorf("unexpected EMS composition: %v", lines)
	}

	other := transport.QuoteItem{
		Quantity: 3,
		Product: transport.ProductSnapshot{
			Name:     "Cable Kit",
			Category: "Accessori",
		},
	}
	lines = composition(other)
	if len(lines) != 3 || lines[1] != "3x Accessori;" {
		t.Errorf("unexpected default composition: %v", lines)
	}
}
