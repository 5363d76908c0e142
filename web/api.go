package web

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/selector"
)

type errorResponse struct {
	Error string `json:"error"`
}

type candidatesResponse struct {
	Step       string   `json:"step"`
	Label      string   `json:"label"`
	Candidates []string `json:"candidates"`
}

type decisionResponse struct {
	Outcome       selector.Outcome   `json:"outcome"`
	Selection     selector.Selection `json:"selection"`
	Verdict       string             `json:"verdict,omitempty"`
	ApplianceName string             `json:"appliance_name,omitempty"`
	Summary       string             `json:"summary"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// selectionFromQuery reads the steps before the requested one from the query parameters named
// after the steps.
func selectionFromQuery(r *http.Request, before selector.Step) selector.Selection {
	var sel selector.Selection
	q := r.URL.Query()
	for _, step := range selector.Steps[:before] {
		sel.Set(step, q.Get(step.String()))
	}
	return sel
}

// apiCandidates answers the values offered for a step. Every earlier step must be given and valid.
func (s *Server) apiCandidates(w http.ResponseWriter, r *http.Request) {
	step, err := selector.ParseStep(r.URL.Query().Get("step"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	prior := selectionFromQuery(r, step)
	for _, st := range selector.Steps[:step] {
		if prior.Get(st) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: errors.Wrapf(selector.ErrIncomplete, "%s is missing", st).Error(),
			})
			return
		}
	}
	if err := s.selector.Validate(prior); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	candidates := s.selector.Candidates(step, prior)
	if candidates == nil {
		candidates = []string{}
	}
	writeJSON(w, http.StatusOK, candidatesResponse{
		Step:       step.String(),
		Label:      step.Label(),
		Candidates: candidates,
	})
}

// apiDecide answers the decision for a complete selection posted as JSON.
func (s *Server) apiDecide(w http.ResponseWriter, r *http.Request) {
	var sel selector.Selection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&sel); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errors.Wrap(err, "invalid selection").Error()})
		return
	}
	d, err := s.selector.Decide(sel)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.Decisions.WithLabelValues(d.Outcome.String()).Inc()
	writeJSON(w, http.StatusOK, decisionResponse{
		Outcome:       d.Outcome,
		Selection:     d.Selection,
		Verdict:       d.Verdict(),
		ApplianceName: d.ApplianceName(),
		Summary:       d.Summary(),
	})
}
