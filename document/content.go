package document

import (
	"strconv"
	"time"
)

// The fixed text of the confirmation template.
const (
	formNumber        = "[별지 제44호 서식]<개정 23.07.11>"
	title             = "연소기 변경 확인서"
	subtitle          = "(제4-22조 및 제4-31조 관련)"
	changeDescription = "✔ 가스보일러 급배기방식 전환"
	confirmation      = "상기와 같이 연소기 변경 작업을 실시하였음을 확인합니다."
	workerGroup       = "연소기 변경 작업자"
)

var columnLabels = []string{"번호", "연소기명", "수량", "변경내역", "변경일자"}
var workerLabels = []string{"소 속", "성명(서명)", "작업자격"}

var remarks = []string{
	"[비고]",
	"1. 변경내역은 해당되는 사항에 ✔ 표시",
	"2. 기술능력은 연소기 변경 작업자의 자격 기재",
	"   가. 열량법령 작업자격 : 지침 별표18 (예시 : 연소기 제조사 A/S 종사자)",
	"   나. 가스보일러 급배기방식 전환 작업자격 : KGS GC2008 또는 GC209 (예시 : 가스보일러 제조사 A/S 교육 이수자)",
}

// content is the semantic content shared by the word and pdf renderings of one form.
type content struct {
	FormNumber string
	Title      string
	Subtitle   string

	// Columns head the five columns that span both header rows.
	Columns []string
	// WorkerGroup spans the last three columns above WorkerColumns.
	WorkerGroup   string
	WorkerColumns []string
	// Row holds the eight data cells.
	Row []string

	Confirmation string
	DateLine     string
	CompanyLine  string
	ManagerLine  string
	Remarks      []string

	Date time.Time
}

func newContent(f Form) content {
	return content{
		FormNumber:    formNumber,
		Title:         title,
		Subtitle:      subtitle,
		Columns:       columnLabels,
		WorkerGroup:   workerGroup,
		WorkerColumns: workerLabels,
		Row: []string{
			f.Number,
			f.ApplianceName,
			strconv.Itoa(f.Quantity),
			changeDescription,
			f.ChangeDate.Format("2006-01-02"),
			f.WorkerAffiliation,
			f.WorkerName,
			f.WorkerQualification,
		},
		Confirmation: confirmation,
		DateLine:     f.ChangeDate.Format("2006년 01월 02일"),
		CompanyLine:  "○ 시공업체(상호): " + f.InstallerCompany,
		ManagerLine:  "○ 시공관리자  : " + f.SiteManager + "   (서명) ",
		Remarks:      remarks,
		Date:         f.ChangeDate,
	}
}

// texts lists every string drawn from the content.
func (c content) texts() []string {
	texts := []string{c.FormNumber, c.Title, c.Subtitle, c.WorkerGroup}
	texts = append(texts, c.Columns...)
	texts = append(texts, c.WorkerColumns...)
	texts = append(texts, c.Row...)
	texts = append(texts, c.Confirmation, c.DateLine, c.CompanyLine, c.ManagerLine)
	return append(texts, c.Remarks...)
}
