// Package pdf renders printable documents with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"cuaderno/internal/model"
)

// InvoiceFilename names the PDF of an invoice after its number.
func InvoiceFilename(inv model.Invoice) string {
	number := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, inv.Number)
	return "factura-" + number + ".pdf"
}

// RenderInvoice produces an A4 invoice. issuer may be nil when no fiscal
// profile has been saved; the issuer block is then left out.
func RenderInvoice(inv model.Invoice, issuer *model.FiscalProfile) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Factura "+inv.Number), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	title := "FACTURA EMITIDA"
	party := "Cliente"
	if inv.Type == model.InvoiceTypeReceived {
		title = "FACTURA RECIBIDA"
		party = "Proveedor"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Nº "+inv.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, tr("Fecha: "+displayDate(inv.Date)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Parties ───────────────────────────────────────────────────────────────
	half := contentW / 2
	y := pdf.GetY()
	if issuer != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(half, 6, tr("Datos fiscales"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(half-4, 5, tr(issuerBlock(issuer)), "", "L", false)
	}
	leftBottom := pdf.GetY()

	pdf.SetXY(15+half, y)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 6, tr(party), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	lines := []string{inv.Counterparty}
	if inv.CounterpartyTaxID != "" {
		lines = append(lines, "NIF/CIF: "+inv.CounterpartyTaxID)
	}
	if inv.CounterpartyAddress != "" {
		lines = append(lines, inv.CounterpartyAddress)
	}
	pdf.SetX(15 + half)
	pdf.MultiCell(half, 5, tr(strings.Join(lines, "\n")), "", "L", false)
	if pdf.GetY() < leftBottom {
		pdf.SetY(leftBottom)
	}
	pdf.Ln(6)

	// ── Concept ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 242, 235)
	pdf.CellFormat(contentW, 7, tr("Descripción"), "B", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	description := inv.Description
	if description == "" {
		description = "-"
	}
	pdf.MultiCell(contentW, 5, tr(description), "", "L", false)
	pdf.Ln(4)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := contentW * 0.7
	valueW := contentW - labelW
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 6, tr("Base imponible"), "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 6, tr(euros(inv.TaxableBase)), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, tr(fmt.Sprintf("IVA (%s%%)", inv.VATRate.String())), "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 6, tr(euros(inv.VATAmount())), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "TOTAL", "T", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 8, tr(euros(inv.Total)), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	status := "Pendiente de pago"
	if inv.Paid {
		status = "Pagada"
	}
	pdf.CellFormat(contentW, 5, tr("Estado: "+status), "", 1, "L", false, 0, "")
	if inv.Notes != "" {
		pdf.MultiCell(contentW, 5, tr("Notas: "+inv.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func issuerBlock(p *model.FiscalProfile) string {
	lines := []string{p.LegalName, "NIF/CIF: " + p.TaxID}
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if place := strings.TrimSpace(strings.Join(nonEmpty(p.PostalCode, p.Locality), " ")); place != "" {
		if p.Province != "" {
			place += " (" + p.Province + ")"
		}
		lines = append(lines, place)
	}
	if p.Country != "" {
		lines = append(lines, p.Country)
	}
	if p.Email != nil && *p.Email != "" {
		lines = append(lines, *p.Email)
	}
	if p.Phone != nil && *p.Phone != "" {
		lines = append(lines, "Tel. "+*p.Phone)
	}
	return strings.Join(lines, "\n")
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func euros(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " €"
}

func displayDate(d model.Date) string {
	t, err := d.Time()
	if err != nil {
		return d.String()
	}
	return t.Format("02/01/2006")
}
