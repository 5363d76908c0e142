package web

import (
	"html/template"
	"time"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

const appTitle = "경동나비엔 가스보일러 급배기전환 모델 확인 프로그램"

// stepView is one dropdown of the product page.
type stepView struct {
	Name       string
	Label      string
	Candidates []string
	Selected   string
}

// decisionView is the verdict shown under the dropdowns.
type decisionView struct {
	Found       bool
	Convertible bool
	Verdict     string
	Summary     string
}

type pageData struct {
	Title   string
	State   string
	Message string

	// Qualification page
	Qualifications  []string
	NoQualification string
	Qualification   string

	// Product page
	Steps    []stepView
	Decision *decisionView

	// Form page
	Number               string
	ApplianceName        string
	Fields               map[string]string
	WorkerQualifications []string
	HistoryCount         int
}

// snapshot captures what the page of the wizard's current state shows.
func snapshot(wz *wizard.Wizard, now time.Time, message string) pageData {
	p := pageData{
		Title:   appTitle,
		State:   wz.State().String(),
		Message: message,
	}
	switch wz.State() {
	case wizard.StateQualification:
		p.Qualifications = wizard.Qualifications
		p.NoQualification = wizard.NoQualification
		p.Qualification = wz.Qualification()
	case wizard.StateProductSelection:
		sel := wz.Selection()
		for _, step := range selector.Steps {
			p.Steps = append(p.Steps, stepView{
				Name:       step.String(),
				Label:      step.Label(),
				Candidates: wz.Candidates(step),
				Selected:   sel.Get(step),
			})
		}
		if d, ok := wz.Decision(); ok {
			p.Decision = &decisionView{
				Found:       d.Found(),
				Convertible: d.Convertible(),
				Verdict:     d.Verdict(),
				Summary:     d.Summary(),
			}
		}
	case wizard.StateFormEntry:
		p.Title = "연소기 변경 확인서 작성 (급배기방식 전환)"
		p.Number = document.DefaultNumber
		p.ApplianceName = wz.ApplianceName()
		p.Fields = wz.Fields(now)
		p.WorkerQualifications = document.WorkerQualifications
		p.HistoryCount = len(wz.History())
	}
	return p
}

var pageTmpl = template.Must(template.New("").Parse(pageTmplText))

var pageTmplText = `
{{ define "PAGE" }}
<!DOCTYPE html>
<html lang="ko">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{ .Title }}</title>
	<style>
		body { font-family: "Malgun Gothic", Roboto, Arial, sans-serif; margin-left: 5%; margin-right: 5%; }
		.warning { color: red; font-weight: bold; }
		.convertible { color: blue; font-weight: bold; }
		.not-convertible { color: red; font-weight: bold; }
		select, input[type=text], input[type=number], input[type=date] { border: 1px solid black; border-radius: 4px; padding: 2px; }
		.inline { display: inline-block; margin-right: 1em; }
	</style>
</head>
<body>
	<h1>{{ .Title }}</h1>
	{{ if eq .State "qualification" }}{{ template "QUALIFICATION" . }}{{ end }}
	{{ if eq .State "product_selection" }}{{ template "PRODUCT" . }}{{ end }}
	{{ if eq .State "form_entry" }}{{ template "FORM" . }}{{ end }}
	<p><a href="/catalog">모델 목록</a></p>
</body>
</html>
{{ end }}

{{ define "QUALIFICATION" }}
	<h3>1. 급배기방식 전환 절차</h3>
	<ol>
		<li>가스보일러 포장박스 및 제품 명판에 <b>"본 제품은 급배기방식 (FF/FE) 전환이 가능합니다"</b> 라는 문구가 있는지 확인해주세요.<br>
			<span style="color:red;">※ 제품 명판에 전환가능문구가 없으면 급배기전환 불가</span></li>
		<li>전환설치가 가능한 제품은 설치설명서에 따라 작업해주세요.</li>
		<li>급배기방식 전환 후, 본체에 '급배기전환 표지판'을 부착해주세요.</li>
		<li>'연소기 변경 확인서'를 검사처에 제출해주세요.
			<ul>
				<li>특정가스사용시설 또는 LPG 특정사용시설 등 → <b>안전공사검사원</b>에게 제출</li>
				<li>특정가스사용시설 외 가정용보일러 설치시설 등 → <b>도시가스사</b>에 제출</li>
			</ul>
		</li>
	</ol>

	<h3>2. 급배기방식 전환 작업자의 자격 : 아래 항목 중 하나를 선택해주세요.</h3>
	<form action="/qualification" method="post">
		<p>급배기전환 작업이 가능한 작업자인지 확인해주세요.</p>
		{{ $answer := .Qualification }}
		{{ range .Qualifications }}
			<label><input type="radio" name="qualification" value="{{ . }}"{{ if eq . $answer }} checked{{ end }}> {{ . }}</label><br>
		{{ end }}
		<label><input type="radio" name="qualification" value="{{ .NoQualification }}"{{ if eq .NoQualification $answer }} checked{{ end }}> {{ .NoQualification }}</label><br>
		{{ if .Message }}<p class="warning">{{ .Message }}</p>{{ end }}
		<button type="submit">급배기전환 작업이 가능합니다.</button>
	</form>
{{ end }}

{{ define "PRODUCT" }}
	<h3>급배기전환 제품을 선택하세요</h3>
	<form action="/back" method="post" class="inline"><button type="submit">◀ 이전으로</button></form>

	<form action="/selection" method="post">
		{{ range .Steps }}
			<p>
				<label for="{{ .Name }}">{{ .Label }}</label>
				{{ $selected := .Selected }}
				<select id="{{ .Name }}" name="{{ .Name }}" onchange="this.form.submit()">
				{{ range .Candidates }}
					<option value="{{ . }}"{{ if eq . $selected }} selected{{ end }}>{{ . }}</option>
				{{ end }}
				</select>
			</p>
		{{ end }}
		<button type="submit" formaction="/decide">판별하기</button>
	</form>

	{{ with .Decision }}
		{{ if .Found }}
			<p>{{ .Summary }}</p>
			<p><b>전환여부 : <span class="{{ if .Convertible }}convertible{{ else }}not-convertible{{ end }}">{{ .Verdict }}</span></b>
			{{ if .Convertible }}<br><small>(우측의 "연소기 변경 확인서 (급배기방식 전환)" 버튼을 눌러주세요)</small>{{ end }}</p>
		{{ else }}
			<p class="warning">{{ .Summary }}</p>
		{{ end }}
	{{ end }}
	{{ if .Message }}<p class="warning">{{ .Message }}</p>{{ end }}

	<form action="/proceed" method="post">
		<button type="submit"{{ if not .Decision }} disabled{{ else if not .Decision.Convertible }} disabled{{ end }}>연소기 변경 확인서 (급배기방식 전환)</button>
	</form>
	<form action="/restart" method="post"><button type="submit">처음으로</button></form>
{{ end }}

{{ define "FORM" }}
	<form action="/back" method="post" class="inline"><button type="submit">◀ 이전으로</button></form>

	<form action="/form" method="post">
		<h3>■ 급배기전환 제품 정보</h3>
		<p>
			<label class="inline">번호 <input type="text" value="{{ .Number }}" disabled></label>
			<label class="inline">연소기명 <input type="text" size="40" value="{{ .ApplianceName }}" disabled></label>
			<label class="inline">수량 <input type="number" name="quantity" min="1" value="{{ index .Fields "quantity" }}"></label>
			<label class="inline">변경일자 <input type="date" name="change_date" value="{{ index .Fields "change_date" }}"></label>
		</p>
		<p><label><input type="checkbox" checked disabled> 가스보일러 급배기방식 전환 (✔)</label></p>

		<h3>■ 연소기 변경 작업자 정보</h3>
		<p>
			<label class="inline">소속 <input type="text" name="worker_affiliation" value="{{ index .Fields "worker_affiliation" }}"></label>
			<label class="inline">성명(서명) <input type="text" name="worker_name" value="{{ index .Fields "worker_name" }}"></label>
		</p>
		<p>작업자격<br>
		{{ $current := index .Fields "worker_qualification" }}
		{{ range .WorkerQualifications }}
			<label><input type="radio" name="worker_qualification" value="{{ . }}"{{ if eq . $current }} checked{{ end }}> {{ . }}</label><br>
		{{ end }}
		</p>
		<p>
			<label class="inline">시공업체(상호) <input type="text" name="installer_company" value="{{ index .Fields "installer_company" }}"></label>
			<label class="inline">시공관리자 <input type="text" name="site_manager" value="{{ index .Fields "site_manager" }}"></label>
		</p>
		{{ if .Message }}<p class="warning">{{ .Message }}</p>{{ end }}
		<button type="submit" name="format" value="docx">연소기 변경 확인서 다운로드 (Word)</button>
		<button type="submit" name="format" value="pdf">연소기 변경 확인서 다운로드 (PDF)</button>
	</form>
	{{ if .HistoryCount }}<p><a href="/history.xlsx">작성 이력 ({{ .HistoryCount }}건)</a></p>{{ end }}
	<form action="/restart" method="post"><button type="submit">처음으로</button></form>
{{ end }}
`
