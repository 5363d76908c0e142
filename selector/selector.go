/*
Cascading narrowing of the catalog, one dropdown at a time, and the conversion eligibility decision.
*/
package selector

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
)

// Step is one of the six narrowing steps, in the order they are taken.
type Step int

const (
	StepCategory Step = iota
	StepSubtype
	StepModel
	StepCapacity
	StepFuel
	StepExhaustMode
)

// Steps lists every step in order.
var Steps = []Step{StepCategory, StepSubtype, StepModel, StepCapacity, StepFuel, StepExhaustMode}

var stepNames = [...]string{"category", "subtype", "model", "capacity", "fuel", "exhaust"}
var stepLabels = [...]string{"1. 구분", "2. 세부구분", "3. 모델명", "4. 용량", "5. 사용연료", "6. 급배기방식"}

// ErrNotCandidate is returned when a value is chosen that was not offered for the step.
var ErrNotCandidate = errors.New("value is not a candidate for this step")

// ErrIncomplete is returned when a decision is requested before all six steps are chosen.
var ErrIncomplete = errors.New("selection is incomplete")

func (s Step) valid() bool {
	return s >= StepCategory && s <= StepExhaustMode
}

// String returns the machine name of the step, as used in forms and query strings.
func (s Step) String() string {
	if !s.valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Label returns the dropdown label shown for the step.
func (s Step) Label() string {
	if !s.valid() {
		return s.String()
	}
	return stepLabels[s]
}

// ParseStep returns the step with the given machine name.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, errors.Errorf("unknown step `%s`", name)
}

// Selection is the in-progress narrowing path. Empty fields are not chosen yet.
type Selection struct {
	Category    string `json:"category"`
	Subtype     string `json:"subtype"`
	ModelName   string `json:"model"`
	Capacity    string `json:"capacity"`
	Fuel        string `json:"fuel"`
	ExhaustMode string `json:"exhaust"`
}

func (s *Selection) field(step Step) *string {
	switch step {
	case StepCategory:
		return &s.Category
	case StepSubtype:
		return &s.Subtype
	case StepModel:
		return &s.ModelName
	case StepCapacity:
		return &s.Capacity
	case StepFuel:
		return &s.Fuel
	case StepExhaustMode:
		return &s.ExhaustMode
	}
	panic(fmt.Sprintf("selector: invalid step %d", int(step)))
}

// Get returns the value chosen for a step.
func (s Selection) Get(step Step) string {
	return *s.field(step)
}

// Set chooses the value of a step and clears every later step, whose candidates depend on it.
func (s *Selection) Set(step Step, value string) {
	*s.field(step) = value
	s.ResetFrom(step + 1)
}

// ResetFrom clears the given step and every later one.
func (s *Selection) ResetFrom(step Step) {
	for _, st := range Steps {
		if st >= step {
			*s.field(st) = ""
		}
	}
}

// Complete reports whether all six steps are chosen.
func (s Selection) Complete() bool {
	for _, st := range Steps {
		if s.Get(st) == "" {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no step is chosen.
func (s Selection) IsEmpty() bool {
	return s == Selection{}
}

// Query returns the catalog query implied by the steps before the given one.
func (s Selection) Query(before Step) catalog.Query {
	var q catalog.Query
	for _, st := range Steps {
		if st >= before {
			break
		}
		v := s.Get(st)
		switch st {
		case StepCategory:
			q.Category = catalog.Category(v)
		case StepSubtype:
			q.Subtype = catalog.Subtype(v)
		case StepModel:
			q.ModelName = v
		case StepCapacity:
			q.Capacity = v
		case StepFuel:
			q.Fuel = catalog.Fuel(v)
		case StepExhaustMode:
			q.ExhaustMode = catalog.ExhaustMode(v)
		}
	}
	return q
}

// Selector narrows a catalog along the six steps.
type Selector struct {
	catalog *catalog.Catalog
}

// New returns a selector over the given catalog.
func New(c *catalog.Catalog) *Selector {
	return &Selector{catalog: c}
}

// Catalog returns the catalog the selector narrows.
func (s *Selector) Catalog() *catalog.Catalog {
	return s.catalog
}

// Subset returns the records surviving the choices made before the given step.
func (s *Selector) Subset(step Step, prior Selection) []catalog.Record {
	return s.catalog.Lookup(prior.Query(step))
}

// Candidates returns the distinct values offered for a step, in the order they are first seen in
// the catalog, among the records surviving the choices of the previous steps. Capacity candidates
// are the union of trimmed labels, with the sentinel collapsed into a single NoCapacity entry.
func (s *Selector) Candidates(step Step, prior Selection) []string {
	return candidates(s.Subset(step, prior), step)
}

func candidates(subset []catalog.Record, step Step) []string {
	var values []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	for _, r := range subset {
		switch step {
		case StepCategory:
			add(string(r.Category))
		case StepSubtype:
			add(string(r.Subtype))
		case StepModel:
			add(r.ModelName)
		case StepCapacity:
			for _, c := range r.Capacities() {
				add(c)
			}
		case StepFuel:
			add(string(r.Fuel))
		case StepExhaustMode:
			add(string(r.ExhaustMode))
		}
	}
	return values
}

// Narrow keeps the records of subset that agree with value at the given step. The value must be
// one of the candidates of subset for that step.
func (s *Selector) Narrow(subset []catalog.Record, step Step, value string) ([]catalog.Record, error) {
	if !step.valid() {
		return nil, errors.Errorf("invalid step %d", int(step))
	}
	if !contains(candidates(subset, step), value) {
		return nil, errors.Wrapf(ErrNotCandidate, "%s `%s`", step, value)
	}
	// A selection holding only this step queries on that field alone.
	var only Selection
	*only.field(step) = value
	q := only.Query(step + 1)

	var narrowed []catalog.Record
	for _, r := range subset {
		if q.Matches(r) {
			narrowed = append(narrowed, r)
		}
	}
	return narrowed, nil
}

// Validate checks that every chosen value of the selection was a candidate given the choices
// before it.
func (s *Selector) Validate(sel Selection) error {
	subset := s.catalog.Records()
	for _, st := range Steps {
		v := sel.Get(st)
		if v == "" {
			return nil
		}
		var err error
		if subset, err = s.Narrow(subset, st, v); err != nil {
			return err
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
