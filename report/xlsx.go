package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tealeg/xlsx/v2"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/document"
)

// Sheet names of the spreadsheet exports.
const (
	CatalogSheet = "catalog"
	HistorySheet = "history"
)

var catalogHeader = []string{"구분", "세부구분", "모델명", "연료", "급배기방식", "용량", "비고", "전환여부"}

var historyHeader = []string{
	"번호", "연소기명", "수량", "변경일자", "소속", "성명", "작업자격", "시공업체", "시공관리자", "파일명",
}

// WriteCatalogXLSX writes the records as a spreadsheet with one row per record.
func WriteCatalogXLSX(w io.Writer, records []catalog.Record) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(CatalogSheet)
	if err != nil {
		return errors.Wrap(err, "xlsx: add sheet")
	}
	addRow(sheet, catalogHeader)
	for _, r := range records {
		addRow(sheet, []string{
			string(r.Category), string(r.Subtype), r.ModelName, string(r.Fuel),
			string(r.ExhaustMode), r.Capacity, r.Note, r.Eligibility,
		})
	}
	return errors.Wrap(f.Write(w), "xlsx: write")
}

// WriteHistoryXLSX writes the forms rendered in a session, oldest first.
func WriteHistoryXLSX(w io.Writer, forms []document.Form) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(HistorySheet)
	if err != nil {
		return errors.Wrap(err, "xlsx: add sheet")
	}
	addRow(sheet, historyHeader)
	for _, form := range forms {
		row := sheet.AddRow()
		row.AddCell().SetString(form.Number)
		row.AddCell().SetString(form.ApplianceName)
		row.AddCell().SetInt(form.Quantity)
		row.AddCell().SetString(form.ChangeDate.Format("2006-01-02"))
		for _, v := range []string{
			form.WorkerAffiliation, form.WorkerName, form.WorkerQualification,
			form.InstallerCompany, form.SiteManager, document.BaseName(form.SiteManager),
		} {
			row.AddCell().SetString(v)
		}
	}
	return errors.Wrap(f.Write(w), "xlsx: write")
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
