package document

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// coreFontFamily is used when no UTF-8 font is configured. It only draws Windows-1252 text.
const coreFontFamily = "Helvetica"

// ErrFontRequired is returned when the PDF holds text the core font cannot encode and no UTF-8 font
// is configured.
var ErrFontRequired = errors.New("document.font_path must name a TrueType font with Hangul glyphs")

const (
	pageMargin = 36.0
	rowHeight  = 22.0
	lineHeight = 18.0
)

// Widths of the eight table columns, in points. They add up to the printable width of A4.
var columnWidths = []float64{36, 120, 32, 102, 62, 58, 56, 57.28}

func (r *Renderer) renderPDF(c content) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(c.Date)
	pdf.SetModificationDate(c.Date)
	pdf.SetTitle(c.Title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	family := coreFontFamily
	tr := func(s string) string { return s }
	if len(r.font) > 0 {
		pdf.AddUTF8FontFromBytes(r.fontFamily, "", r.font)
		family = r.fontFamily
	} else if text, ok := c.firstNonWinAnsi(); ok {
		return nil, errors.Wrapf(ErrFontRequired, "cannot encode %q", text)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, lineHeight, tr(c.FormNumber), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 16)
	pdf.CellFormat(0, 28, tr(c.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, lineHeight, tr(c.Subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont(family, "", 9)
	x, y := pdf.GetXY()
	cx := x
	for i, label := range c.Columns {
		pdf.SetXY(cx, y)
		pdf.CellFormat(columnWidths[i], 2*rowHeight, tr(label), "1", 0, "C", false, 0, "")
		cx += columnWidths[i]
	}
	groupX := cx
	groupWidth := 0.0
	for i := range c.WorkerColumns {
		groupWidth += columnWidths[len(c.Columns)+i]
	}
	pdf.SetXY(groupX, y)
	pdf.CellFormat(groupWidth, rowHeight, tr(c.WorkerGroup), "1", 0, "C", false, 0, "")
	for i, label := range c.WorkerColumns {
		w := columnWidths[len(c.Columns)+i]
		pdf.SetXY(cx, y+rowHeight)
		pdf.CellFormat(w, rowHeight, tr(label), "1", 0, "C", false, 0, "")
		cx += w
	}
	cx = x
	for i, value := range c.Row {
		pdf.SetXY(cx, y+2*rowHeight)
		pdf.CellFormat(columnWidths[i], rowHeight, tr(value), "1", 0, "C", false, 0, "")
		cx += columnWidths[i]
	}
	pdf.SetXY(x, y+3*rowHeight)
	pdf.Ln(lineHeight)

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(0, lineHeight, tr(c.Confirmation), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)
	for _, line := range []string{c.DateLine, c.CompanyLine, c.ManagerLine} {
		pdf.CellFormat(0, lineHeight, tr(line), "", 1, "R", false, 0, "")
	}
	pdf.Ln(lineHeight)

	pdf.SetFont(family, "", 9)
	pdf.MultiCell(0, 14, tr(strings.Join(c.Remarks, "\n")), "1", "L", false)

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// firstNonWinAnsi returns the first text of the content holding a rune outside Windows-1252, the
// encoding of the core PDF fonts.
func (c content) firstNonWinAnsi() (string, bool) {
	for _, text := range c.texts() {
		for _, r := range text {
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				return text, true
			}
		}
	}
	return "", false
}
