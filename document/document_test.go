package document

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

// testRenderer embeds a UTF-8 font and leaves the PDF streams uncompressed so its text can be
// searched.
func testRenderer(t *testing.T, compress bool) *Renderer {
	font, err := os.ReadFile(filepath.Join("testdata", "DejaVuSansCondensed.ttf"))
	require.NoError(t, err)
	return NewRenderer(Options{Font: font, FontFamily: "dejavu", Compress: compress})
}

var pdfEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)

// pdfText returns text the way it appears in a content stream drawn with a UTF-8 font.
func pdfText(t *testing.T, text string) string {
	encoded, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().String(text)
	require.NoError(t, err)
	return pdfEscaper.Replace(encoded)
}

func sampleForm() Form {
	return Form{
		Number:              DefaultNumber,
		ApplianceName:       "NGB553-20K (LNG, FF)",
		Quantity:            2,
		ChangeDate:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		WorkerAffiliation:   "Acme Service",
		WorkerName:          "Kim",
		WorkerQualification: WorkerQualifications[0],
		InstallerCompany:    "Acme Install",
		SiteManager:         "Lee",
	}
}

func TestForm_Validate(t *testing.T) {
	assert.NoError(t, sampleForm().Validate())

	f := sampleForm()
	f.WorkerName = "  "
	assert.True(t, errors.Is(f.Validate(), ErrIncomplete))

	f = sampleForm()
	f.InstallerCompany = ""
	f.SiteManager = ""
	f.Quantity = 0
	assert.Equal(t, []string{"installer_company", "site_manager", "quantity"}, f.Missing())
	assert.Equal(t, ErrIncomplete, f.Validate())

	f = sampleForm()
	f.ChangeDate = time.Time{}
	assert.Equal(t, ErrIncomplete, f.Validate())

	f = sampleForm()
	f.WorkerQualification = "해당없음"
	assert.Equal(t, ErrUnknownQualification, f.Validate())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ABC", Sanitize("A/B:C"))
	assert.Equal(t, "홍길동", Sanitize("  홍길동 "))
	assert.Equal(t, FallbackName, Sanitize(`\/*?:"<>|`))
	assert.Equal(t, FallbackName, Sanitize("   "))
	// Decomposed jamo compose to the same name.
	assert.Equal(t, "한", Sanitize("한"))

	assert.Equal(t, "연소기_변경_확인서_ABC", BaseName("A/B:C"))
}

func TestRender_IncompleteForm(t *testing.T) {
	f := sampleForm()
	f.SiteManager = ""
	_, err := testRenderer(t, false).Render(f)
	assert.Equal(t, ErrIncomplete, err)
}

func TestRender_Word(t *testing.T) {
	out, err := testRenderer(t, false).Render(sampleForm())
	require.NoError(t, err)
	assert.Equal(t, "연소기_변경_확인서_Lee.docx", out.WordFileName())

	body := readZipEntry(t, out.Word, "word/document.xml")
	for _, text := range []string{
		formNumber, title, subtitle, changeDescription, confirmation, workerGroup,
		"번호", "연소기명", "수량", "변경내역", "변경일자", "소 속", "성명(서명)", "작업자격",
		"NO.1", "NGB553-20K (LNG, FF)", "2024-03-05", "Acme Service", "Kim", WorkerQualifications[0],
		"2024년 03월 05일", "○ 시공업체(상호): Acme Install", "Lee", "[비고]",
	} {
		assert.Contains(t, body, text)
	}
	assert.Contains(t, body, "vMerge")
	assert.Contains(t, body, "gridSpan")
}

func TestRender_PDF(t *testing.T) {
	f := sampleForm()
	f.WorkerAffiliation = "경동서비스"
	f.WorkerName = "김철수"
	f.WorkerQualification = WorkerQualifications[2]
	f.InstallerCompany = "경동설비(주)"
	f.SiteManager = "홍길동"

	out, err := testRenderer(t, false).Render(f)
	require.NoError(t, err)
	assert.Equal(t, "연소기_변경_확인서_홍길동.pdf", out.PDFFileName())
	require.True(t, bytes.HasPrefix(out.PDF, []byte("%PDF-")))

	pdf := string(out.PDF)
	for _, text := range []string{
		title, changeDescription, confirmation,
		"NO.1", "NGB553-20K (LNG, FF)", "2024-03-05", "2024년 03월 05일",
		"경동서비스", "김철수", WorkerQualifications[2], "경동설비(주)", "홍길동",
	} {
		assert.Contains(t, pdf, pdfText(t, text), text)
	}
}

func TestRender_PDFRequiresFont(t *testing.T) {
	_, err := NewRenderer(Options{}).Render(sampleForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFontRequired))
	assert.Contains(t, err.Error(), formNumber)
}

func TestContent_FirstNonWinAnsi(t *testing.T) {
	c := content{Title: "Confirmation", Row: []string{"Café", "NO.1"}, Remarks: []string{"[note]"}}
	_, found := c.firstNonWinAnsi()
	assert.False(t, found)

	c.ManagerLine = "○ manager: Lee"
	text, found := c.firstNonWinAnsi()
	assert.True(t, found)
	assert.Equal(t, "○ manager: Lee", text)

	text, found = newContent(sampleForm()).firstNonWinAnsi()
	assert.True(t, found)
	assert.Equal(t, formNumber, text)
}

func TestRenderPDF_CoreFontWritesWinAnsi(t *testing.T) {
	r := NewRenderer(Options{})
	data, err := r.renderPDF(content{Title: "Café", Row: []string{"NO.1"}})
	require.NoError(t, err)
	pdf := string(data)
	assert.Contains(t, pdf, "(Caf\xe9)")
	assert.NotContains(t, pdf, "Caf\xc3\xa9")
}

func TestRender_Deterministic(t *testing.T) {
	r := testRenderer(t, true)
	first, err := r.Render(sampleForm())
	require.NoError(t, err)
	// Entries of the word archive would otherwise carry the second they were written in.
	time.Sleep(2100 * time.Millisecond)
	second, err := r.Render(sampleForm())
	require.NoError(t, err)

	assert.Equal(t, first.PDF, second.PDF)
	assert.Equal(t, first.Word, second.Word)
}

func TestStampZip(t *testing.T) {
	archive := func(mod time.Time) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for _, name := range []string{"[Content_Types].xml", "word/document.xml", "docProps/core.xml"} {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: mod})
			require.NoError(t, err)
			_, err = w.Write([]byte("<" + name + "/>"))
			require.NoError(t, err)
		}
		require.NoError(t, zw.Close())
		return buf.Bytes()
	}
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	first, err := stampZip(archive(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)), date)
	require.NoError(t, err)
	second, err := stampZip(archive(time.Date(2026, 6, 1, 18, 30, 4, 0, time.UTC)), date)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	zr, err := zip.NewReader(bytes.NewReader(first), int64(len(first)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		assert.True(t, f.Modified.Equal(date), f.Name)
	}
	assert.Equal(t, []string{"[Content_Types].xml", "word/document.xml", "docProps/core.xml"}, names)
	assert.Equal(t, "<word/document.xml/>", readZipEntry(t, first, "word/document.xml"))

	_, err = stampZip([]byte("not a zip"), date)
	assert.Error(t, err)
}

func readZipEntry(t *testing.T, archive []byte, name string) string {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("%s not found in archive", name)
	return ""
}
