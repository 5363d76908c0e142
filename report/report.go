/*
Functions for generating HTML reports of the boiler catalog and its load issues.
*/

package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/diagnostics"
)

type reportData struct {
	Source  string
	Records []catalog.Record
	Issues  []diagnostics.Issue
	Filter  *catalog.Filter
}

// ReportCatalog generates a HTML report listing every catalog record and whether its flue
// conversion is allowed.
func ReportCatalog(c *catalog.Catalog, w io.Writer) error {
	return reportTmpl.ExecuteTemplate(w, "CATALOG", reportData{Source: c.Source(), Records: c.Records()})
}

// ReportCatalogFiltered generates a HTML report of the catalog records matching the filter.
func ReportCatalogFiltered(c *catalog.Catalog, w io.Writer, f *catalog.Filter) error {
	return reportTmpl.ExecuteTemplate(w, "CATALOGFILT", reportData{Source: c.Source(), Records: c.Select(f), Filter: f})
}

// ReportIssues generates a HTML report of the issues found while loading the catalog.
func ReportIssues(c *catalog.Catalog, w io.Writer) error {
	return reportTmpl.ExecuteTemplate(w, "ISSUES", reportData{Source: c.Source(), Issues: c.Issues()})
}

// Prints a filter in a nicely formatted manner to be shown in the report
func (report reportData) PrintFilter() string {
	if report.Filter == nil || report.Filter.IsEmpty() {
		return "No filter"
	}
	filterString := ""
	if report.Filter.ModelRegexp != nil {
		filterString = fmt.Sprintf("%s (Model: \"%s\")", filterString, report.Filter.ModelRegexp)
	}
	if report.Filter.NoteRegexp != nil {
		filterString = fmt.Sprintf("%s (Note: \"%s\")", filterString, report.Filter.NoteRegexp)
	}
	if report.Filter.AnyFieldRegexp != nil {
		filterString = fmt.Sprintf("%s (Any Field: \"%s\")", filterString, report.Filter.AnyFieldRegexp)
	}
	if len(report.Filter.FieldRegexp) > 0 {
		names := make([]string, 0, len(report.Filter.FieldRegexp))
		for name := range report.Filter.FieldRegexp {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]string, 0, len(names))
		for _, name := range names {
			fields = append(fields, fmt.Sprintf("%s=%s", name, report.Filter.FieldRegexp[name]))
		}
		filterString = fmt.Sprintf("%s (Fields: \"%s\")", filterString, strings.Join(fields, ", "))
	}
	return strings.TrimSpace(filterString)
}

// Convertible returns the number of records of the report allowing the conversion.
func (report reportData) Convertible() int {
	n := 0
	for _, r := range report.Records {
		if r.Convertible {
			n++
		}
	}
	return n
}

// NotConvertible returns the number of records of the report not allowing the conversion.
func (report reportData) NotConvertible() int {
	return len(report.Records) - report.Convertible()
}

func verdictClass(r catalog.Record) string {
	if r.Convertible {
		return "text-primary"
	}
	return "text-danger"
}

func severityClass(i diagnostics.Issue) string {
	switch i.Severity {
	case diagnostics.IssueSeverityMajor:
		return "text-danger"
	case diagnostics.IssueSeverityMinor:
		return "text-warning"
	}
	return "text-muted"
}

func issueCode(i diagnostics.Issue) string {
	_, code := i.Type.Name()
	return code
}

var functionMap = template.FuncMap{
	"verdictClass":  verdictClass,
	"severityClass": severityClass,
	"issueCode":     issueCode,
}

var reportTmpl = template.Must(template.Must(template.New("").Funcs(functionMap).Parse(headerFooterTmplText)).Parse(reportTmplText))

var headerFooterTmplText = `
{{define "HEADER"}}
<html lang="ko">
	<head>
		<meta charset="utf-8">
		<meta http-equiv="X-UA-Compatible" content="IE=edge">
		<meta name="viewport" content="width=device-width, initial-scale=1">

		<title>가스보일러 급배기전환 모델</title>

		<!-- BOOTSTRAP -->
		<link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/bootstrap/3.3.7/css/bootstrap.min.css" integrity="sha384-BVYiiSIFeK1dGmJRAkycuHAHRg32OmUcww7on3RYdg4Va+PmSTsz/K68vbdEjh4u" crossorigin="anonymous">

		<!-- CUSTOM -->
		<style>
			h1 {
				text-align: left;
			}
			body {
				font-family: "Malgun Gothic", Roboto, Arial, sans-serif;
				max-width: 3000px;
				margin-left: 5%;
				margin-right: 5%;
			}
		</style>
	</head>
	<body>
{{end}}

{{define "FOOTER"}}
	</body>
</html>
{{end}}
`

var reportTmplText = `
{{ define "RECORDS" }}
	<p>전환가능 {{ .Convertible }} / 전환불가 {{ .NotConvertible }}</p>
	<table class="table table-condensed table-bordered">
		<thead>
			<tr>
				<th>구분</th><th>세부구분</th><th>모델명</th><th>연료</th><th>급배기방식</th><th>용량</th><th>비고</th><th>전환여부</th>
			</tr>
		</thead>
		<tbody>
		{{ range .Records }}
			<tr>
				<td>{{ .Category }}</td>
				<td>{{ .Subtype }}</td>
				<td>{{ .ModelName }}</td>
				<td>{{ .Fuel }}</td>
				<td>{{ .ExhaustMode }}</td>
				<td>{{ .Capacity }}</td>
				<td>{{ .Note }}</td>
				<td class="{{ verdictClass . }}">{{ .Eligibility }}</td>
			</tr>
		{{ else }}
			<tr><td colspan="8" class="text-danger">No records</td></tr>
		{{ end }}
		</tbody>
	</table>
{{ end }}

{{ define "CATALOG" }}
	{{ template "HEADER" }}
	<h1>급배기전환 모델 목록</h1>
	<p><em>{{ .Source }}</em></p>
	{{ template "RECORDS" . }}
	{{ template "FOOTER" }}
{{ end }}

{{ define "CATALOGFILT" }}
	{{ template "HEADER" }}
	<h1>급배기전환 모델 목록</h1>
	<p><em>{{ .Source }}</em></p>

	<h3><em>Filter Criteria: {{ .PrintFilter }} </em></h3>
	{{ template "RECORDS" . }}
	{{ template "FOOTER" }}
{{ end }}

{{ define "ISSUES" }}
	{{ template "HEADER" }}
	<h1>Issues</h1>
	<p><em>{{ .Source }}</em></p>

	<ul>
	{{ range .Issues }}
		<li class="{{ severityClass . }}">
			[{{ issueCode . }}] {{ .String }}
		</li>
	{{ else }}
		<li class="text-success">No issues found.</li>
	{{ end }}
	</ul>
	{{ template "FOOTER" }}
{{ end }}
`
