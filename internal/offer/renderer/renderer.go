// Package renderer produces the printable offer document for a quote as
// a self-contained HTML page, ready for PDF conversion.
package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/config"
)

// defaultValidityDays applies when the quote was created without an
// explicit validity window.
const defaultValidityDays = 30

var usageLabels = map[string]string{
	"peak-shaving":  "Peak Shaving",
	"arbitraggio":   "Arbitraggio Energetico",
	"backup":        "Backup/UPS",
	"grid-services": "Servizi di Rete",
	"autoconsumo":   "Autoconsumo",
	"load-shifting": "Load Shifting",
}

// Renderer renders offer documents.
type Renderer struct {
	tmpl       *template.Template
	appBaseURL string
}

// New parses the offer template and returns a renderer.
func New(cfg config.OfferConfig) (*Renderer, error) {
	tmpl, err := template.New("offer").Parse(offerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse offer template: %w", err)
	}
	return &Renderer{tmpl: tmpl, appBaseURL: strings.TrimRight(cfg.GetAppBaseURL(), "/")}, nil
}

type itemView struct {
	Name          string
	CategoryLabel string
	UnitPrice     string
	BasePrice     string
	Discounted    bool
	DiscountPct   string
	Quantity      string
	TotalPrice    string
	Composition   []string
	Shaded        bool
}

type offerView struct {
	Quote       *transport.Quote
	IssueDate   string
	ValidUntil  string
	Usage       string
	TotalPower  string
	TotalEnergy string
	Items       []itemView
	Total       string
	QRCode      template.URL
}

// RenderHTML renders the full offer page for the quote.
func (r *Renderer) RenderHTML(q *transport.Quote) ([]byte, error) {
	view := r.buildView(q)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render offer %s: %w", q.QuoteNumber, err)
	}
	return buf.Bytes(), nil
}

// FileName returns the download name for the offer PDF.
func (r *Renderer) FileName(q *transport.Quote) string {
	company := strings.Join(strings.Fields(q.CustomerData.Company), "_")
	if company == "" {
		company = "Cliente"
	}
	return fmt.Sprintf("FFD_Power_Offerta_BESS_%s_%s.pdf", q.QuoteNumber, company)
}

func (r *Renderer) buildView(q *transport.Quote) offerView {
	validity := q.CustomerData.ValidityDays
	if validity <= 0 {
		validity = defaultValidityDays
	}

	var totalPower, totalEnergy float64
	items := make([]itemView, 0, len(q.Items))
	for i, item := range q.Items {
		totalPower += item.Product.PowerRating * float64(item.Quantity)
		totalEnergy += item.Product.EnergyCapacity * float64(item.Quantity)

		items = append(items, itemView{
			Name:          item.Product.Name,
			CategoryLabel: categoryLabel(item.Product.Category),
			UnitPrice:     euro(item.Product.UnitPrice),
			BasePrice:     euro(item.BasePrice),
			Discounted:    item.DiscountPct > 0,
			DiscountPct:   strconv.FormatFloat(item.DiscountPct, 'f', -1, 64),
			Quantity:      fmt.Sprintf("%d,00", item.Quantity),
			TotalPrice:    euro(item.TotalPrice),
			Composition:   composition(item),
			Shaded:        i%2 == 1,
		})
	}

	return offerView{
		Quote:       q,
		IssueDate:   q.CreatedAt.Format("02/01/2006"),
		ValidUntil:  q.CreatedAt.AddDate(0, 0, validity).Format("02/01/2006"),
		Usage:       usageText(q.CustomerData.Usage),
		TotalPower:  strconv.FormatFloat(totalPower, 'f', -1, 64),
		TotalEnergy: strconv.FormatFloat(totalEnergy, 'f', -1, 64),
		Items:       items,
		Total:       euro(q.TotalAmount),
		QRCode:      r.qrCode(q),
	}
}

// qrCode encodes a link back to the quote in the app as a PNG data URI.
// Rendering proceeds without the code when encoding fails.
func (r *Renderer) qrCode(q *transport.Quote) template.URL {
	if r.appBaseURL == "" {
		return ""
	}
	link := fmt.Sprintf("%s/quotes/%s", r.appBaseURL, q.ID)
	png, err := qrcode.Encode(link, qrcode.Medium, 112)
	if err != nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// categoryLabel mirrors the table styling of the source offers, where
// container systems are labelled by their cooling method.
func categoryLabel(category string) string {
	if strings.Contains(category, "Container") {
		return "Liquid cooled"
	}
	return category
}

func composition(item transport.QuoteItem) []string {
	p := item.Product
	qty := item.Quantity
	power := strconv.FormatFloat(p.PowerRating, 'f', -1, 64)
	energy := strconv.FormatFloat(p.EnergyCapacity, 'f', -1, 64)

	switch {
	case strings.Contains(p.Category, "Container") || strings.Contains(p.Category, "All-in-One"):
		return []string{
			fmt.Sprintf("%s (%s kW):", p.Name, power),
			fmt.Sprintf("%dx LFP battery pack %s kWh;", qty, energy),
			fmt.Sprintf("%dx PCS %s kW;", qty, power),
			fmt.Sprintf("%dx UPS in the event of grid failure;", qty),
			fmt.Sprintf("%dx Full-optional cabinet.", qty),
		}
	case strings.Contains(p.Category, "PCS") || strings.Contains(p.Category, "Power Conversion"):
		return []string{
			p.Name + ":",
			fmt.Sprintf("%dx Power Conversion System %s kW;", qty, power),
			fmt.Sprintf("%dx Bidirectional inverter;", qty),
			fmt.Sprintf("%dx Control system included.", qty),
		}
	case strings.Contains(p.Category, "EMS") || strings.Contains(p.Category, "Energy Management"):
		return []string{
			p.Name + ":",
			fmt.Sprintf("%dx Energy Management System;", qty),
			fmt.Sprintf("%dx Advanced monitoring platform;", qty),
			fmt.Sprintf("%dx AI algorithms included.", qty),
		}
	default:
		return []string{
			p.Name + ":",
			fmt.Sprintf("%dx %s;", qty, p.Category),
			fmt.Sprintf("%dx Complete system included.", qty),
		}
	}
}

func usageText(usage []string) string {
	if len(usage) == 0 {
		return ""
	}
	labels := make([]string, 0, len(usage))
	for _, u := range usage {
		if label, ok := usageLabels[u]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, u)
		}
	}
	return strings.Join(labels, ", ")
}

// euro formats an amount with dot thousands separators and a comma
// decimal mark, always two decimals.
func euro(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// AmountIT formats an amount the way Italian correspondence quotes it,
// dropping the decimals when the value is whole.
func AmountIT(v float64) string {
	return strings.TrimSuffix(euro(v), ",00")
}
