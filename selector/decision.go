package selector

import (
	"fmt"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
)

// Outcome is the result of an eligibility decision.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeConvertible
	OutcomeNotConvertible
)

// NotFoundMessage is the warning shown when no record matches a complete selection.
const NotFoundMessage = "선택한 조건에 맞는 모델이 없습니다."

func (o Outcome) String() string {
	switch o {
	case OutcomeConvertible:
		return "convertible"
	case OutcomeNotConvertible:
		return "not_convertible"
	}
	return "not_found"
}

// MarshalText encodes the outcome by its name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Decision is the eligibility verdict for a complete selection.
type Decision struct {
	Outcome   Outcome
	Selection Selection
	// Record is the authoritative record, the first matching one in declaration order. It is the
	// zero record when nothing matched.
	Record catalog.Record
}

// Decide looks up the record matching all six fields of the selection. When several records match,
// the first one in catalog order is authoritative. No match is a NotFound decision, not an error.
func (s *Selector) Decide(sel Selection) (Decision, error) {
	if !sel.Complete() {
		return Decision{}, ErrIncomplete
	}
	matches := s.catalog.Lookup(sel.Query(StepExhaustMode + 1))
	if len(matches) == 0 {
		return Decision{Outcome: OutcomeNotFound, Selection: sel}, nil
	}
	d := Decision{Outcome: OutcomeNotConvertible, Selection: sel, Record: matches[0]}
	if d.Record.Convertible {
		d.Outcome = OutcomeConvertible
	}
	return d, nil
}

// Convertible reports whether the decision allows the conversion.
func (d Decision) Convertible() bool {
	return d.Outcome == OutcomeConvertible
}

// Found reports whether a record matched.
func (d Decision) Found() bool {
	return d.Outcome != OutcomeNotFound
}

// Verdict returns the eligibility word shown to the user.
func (d Decision) Verdict() string {
	switch d.Outcome {
	case OutcomeConvertible:
		return catalog.EligibilityConvertible
	case OutcomeNotConvertible:
		return catalog.EligibilityNotConvertible
	}
	return ""
}

// ApplianceName returns the appliance name written into the confirmation document, for example
// "NGB553-20K (LNG, FF)".
func (d Decision) ApplianceName() string {
	if !d.Found() {
		return ""
	}
	return fmt.Sprintf("%s-%s (%s, %s)", d.Record.ModelName, d.Selection.Capacity, d.Selection.Fuel, d.Selection.ExhaustMode)
}

// Summary returns the sentence describing the decision.
func (d Decision) Summary() string {
	if !d.Found() {
		return NotFoundMessage
	}
	return fmt.Sprintf("%s에 설치되는 %s 가스보일러 %s (%s) 는 급배기방식 %s 합니다.",
		d.Record.Note, d.Record.Category, d.ApplianceName(), d.Record.Subtype, d.Verdict())
}
