// Package document renders the gas appliance change confirmation (연소기 변경 확인서) as a word
// processing document and as a PDF.
package document

import (
	"github.com/pkg/errors"
)

// Media types of the rendered documents.
const (
	MIMEWord = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)

// Output holds both renderings of one form.
type Output struct {
	Word     []byte
	PDF      []byte
	BaseName string
}

// WordFileName returns the download name of the word document.
func (o Output) WordFileName() string {
	return o.BaseName + ".docx"
}

// PDFFileName returns the download name of the PDF.
func (o Output) PDFFileName() string {
	return o.BaseName + ".pdf"
}

// Options configure a Renderer.
type Options struct {
	// Font is a TrueType font with Hangul glyphs embedded in the PDF. Without it Render fails with
	// ErrFontRequired on any text outside Windows-1252.
	Font       []byte
	FontFamily string
	// Compress enables stream compression in the PDF.
	Compress bool
}

// Renderer produces confirmation documents. It holds no mutable state and is safe for concurrent
// use.
type Renderer struct {
	font       []byte
	fontFamily string
	compress   bool
}

// NewRenderer returns a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	family := opts.FontFamily
	if family == "" {
		family = "hangul"
	}
	return &Renderer{font: opts.Font, fontFamily: family, compress: opts.Compress}
}

// Render validates the form and renders both documents. The same form always yields the same bytes.
func (r *Renderer) Render(f Form) (Output, error) {
	if err := f.Validate(); err != nil {
		return Output{}, err
	}
	c := newContent(f)
	word, err := renderWord(c)
	if err != nil {
		return Output{}, errors.Wrap(err, "failed to render word document")
	}
	pdf, err := r.renderPDF(c)
	if err != nil {
		return Output{}, errors.Wrap(err, "failed to render pdf document")
	}
	return Output{Word: word, PDF: pdf, BaseName: BaseName(f.SiteManager)}, nil
}
