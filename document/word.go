package document

import (
	"archive/zip"
	"bytes"
	"io"
	"time"

	"baliance.com/gooxml/color"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/pkg/errors"
)

func renderWord(c content) ([]byte, error) {
	doc := document.New()
	doc.CoreProperties.SetTitle(c.Title)
	doc.CoreProperties.SetCreated(c.Date)
	doc.CoreProperties.SetModified(c.Date)

	addLine(doc, c.FormNumber, wml.ST_JcLeft, 10, false)
	addLine(doc, c.Title, wml.ST_JcCenter, 16, true)
	addLine(doc, c.Subtitle, wml.ST_JcCenter, 10, false)
	doc.AddParagraph()

	table := newBorderedTable(doc)

	// The first five headers span both header rows, the worker group spans three columns.
	top := table.AddRow()
	for _, label := range c.Columns {
		cell := top.AddCell()
		cell.Properties().SetVerticalMerge(wml.ST_MergeRestart)
		addCellText(cell, label)
	}
	group := top.AddCell()
	group.Properties().SetColumnSpan(len(c.WorkerColumns))
	addCellText(group, c.WorkerGroup)

	sub := table.AddRow()
	for range c.Columns {
		cell := sub.AddCell()
		cell.Properties().SetVerticalMerge(wml.ST_MergeContinue)
		cell.AddParagraph()
	}
	for _, label := range c.WorkerColumns {
		addCellText(sub.AddCell(), label)
	}

	data := table.AddRow()
	for _, value := range c.Row {
		addCellText(data.AddCell(), value)
	}

	doc.AddParagraph()
	addLine(doc, c.Confirmation, wml.ST_JcLeft, 11, false)
	doc.AddParagraph()
	addLine(doc, c.DateLine, wml.ST_JcRight, 11, false)
	addLine(doc, c.CompanyLine, wml.ST_JcRight, 11, false)
	addLine(doc, c.ManagerLine, wml.ST_JcRight, 11, false)
	doc.AddParagraph()

	run := newBorderedTable(doc).AddRow().AddCell().AddParagraph().AddRun()
	for i, line := range c.Remarks {
		if i > 0 {
			run.AddBreak()
		}
		run.AddText(line)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return stampZip(buf.Bytes(), c.Date)
}

// stampZip rewrites a zip archive with every entry dated mod, keeping the entry order. The document
// library dates entries with the time of saving.
func stampZip(data []byte, mod time.Time) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "read archive")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: f.Method, Modified: mod})
		if err != nil {
			return nil, err
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", f.Name)
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "copy %s", f.Name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addLine(doc *document.Document, text string, align wml.ST_Jc, size float64, bold bool) {
	para := doc.AddParagraph()
	para.Properties().SetAlignment(align)
	run := para.AddRun()
	run.Properties().SetSize(measurement.Distance(size) * measurement.Point)
	if bold {
		run.Properties().SetBold(true)
	}
	run.AddText(text)
}

func addCellText(cell document.Cell, text string) {
	para := cell.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	para.AddRun().AddText(text)
}

func newBorderedTable(doc *document.Document) document.Table {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 1*measurement.Point)
	return table
}
