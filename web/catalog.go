package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/report"
)

// recordJSON is the wire form of a catalog record.
type recordJSON struct {
	Line        int      `json:"line"`
	Category    string   `json:"category"`
	Subtype     string   `json:"subtype"`
	ModelName   string   `json:"model"`
	Fuel        string   `json:"fuel"`
	ExhaustMode string   `json:"exhaust"`
	Capacities  []string `json:"capacities"`
	Note        string   `json:"note"`
	Eligibility string   `json:"eligibility"`
	Convertible bool     `json:"convertible"`
}

func toRecordJSON(records []catalog.Record) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON{
			Line:        r.Line,
			Category:    string(r.Category),
			Subtype:     string(r.Subtype),
			ModelName:   r.ModelName,
			Fuel:        string(r.Fuel),
			ExhaustMode: string(r.ExhaustMode),
			Capacities:  r.Capacities(),
			Note:        r.Note,
			Eligibility: r.Eligibility,
			Convertible: r.Convertible,
		})
	}
	return out
}

// filterFromQuery builds the record filter of the model, note and field query parameters.
func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	return catalog.CreateFilter(q.Get("model"), q.Get("note"), q["field"])
}

// catalogPage serves the catalog report. The view parameter selects the issues report or the
// highlighted catalog source instead.
func (s *Server) catalogPage(w http.ResponseWriter, r *http.Request) error {
	c := s.selector.Catalog()
	var buf bytes.Buffer

	switch r.URL.Query().Get("view") {
	case "issues":
		if err := report.ReportIssues(c, &buf); err != nil {
			return err
		}
	case "source":
		if err := highlightJSON(&buf, toRecordJSON(c.Records())); err != nil {
			return err
		}
	default:
		filter, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		if filter.IsEmpty() {
			err = report.ReportCatalog(c, &buf)
		} else {
			err = report.ReportCatalogFiltered(c, &buf, &filter)
		}
		if err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// highlightJSON writes v as an indented JSON document rendered to standalone HTML with line
// numbers.
func highlightJSON(w *bytes.Buffer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode catalog")
	}
	lexer := lexers.Get("json")
	if lexer == nil {
		return errors.New("no lexer for json")
	}
	iterator, err := lexer.Tokenise(nil, string(data))
	if err != nil {
		return errors.Wrap(err, "failed to tokenise catalog")
	}
	formatter := html.New(html.Standalone(true), html.WithLineNumbers(true), html.LinkableLineNumbers(true, "L"), html.WithClasses(true))
	style := styles.Get("vs")
	return formatter.Format(w, style, iterator)
}

func (s *Server) catalogJSON(w http.ResponseWriter, r *http.Request) error {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil
	}
	writeJSON(w, http.StatusOK, toRecordJSON(s.selector.Catalog().Select(&filter)))
	return nil
}

func (s *Server) catalogXLSX(w http.ResponseWriter, r *http.Request) error {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	var buf bytes.Buffer
	if err := report.WriteCatalogXLSX(&buf, s.selector.Catalog().Select(&filter)); err != nil {
		return err
	}
	writeAttachment(w, catalogXLSXName, mimeXLSX, buf.Bytes())
	return nil
}
