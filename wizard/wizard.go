// Package wizard implements the three step interaction of a conversion check: the worker
// qualification gate, the product selection and the confirmation form entry.
//
// A Wizard is owned by a single session and is not safe for concurrent use.
package wizard

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
)

// State is the page the wizard is on.
type State int

const (
	StateQualification State = iota
	StateProductSelection
	StateFormEntry
)

func (s State) String() string {
	switch s {
	case StateQualification:
		return "qualification"
	case StateProductSelection:
		return "product_selection"
	case StateFormEntry:
		return "form_entry"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Qualifications are the worker qualifications that allow a conversion.
var Qualifications = []string{
	"가스보일러 제조사의 A/S 종사자",
	"가스보일러 판매업체 직원으로서 가스보일러 제조사의 A/S 교육을 받은 자",
	"가스보일러 판매업체 직원으로서 A/S 업무에 2년 이상 근무한 자",
}

// NoQualification is the "none of the above" answer of the qualification gate.
const NoQualification = "해당없음"

// User visible texts of blocked transitions.
const (
	QualificationWarning  = "※ 위 자격이 없는 설치업자는 급배기방식을 전환하여 설치할 수 없습니다."
	QualificationRequired = "급배기전환 작업이 가능한 작업자인지 확인해주세요."
	DecisionRequired      = "판별하기를 눌러 전환여부를 먼저 확인해주세요."
)

// Names of the form fields kept in the session.
const (
	FieldQuantity            = "quantity"
	FieldChangeDate          = "change_date"
	FieldWorkerAffiliation   = "worker_affiliation"
	FieldWorkerName          = "worker_name"
	FieldWorkerQualification = "worker_qualification"
	FieldInstallerCompany    = "installer_company"
	FieldSiteManager         = "site_manager"
)

// FormFields lists the editable form fields in page order.
var FormFields = []string{
	FieldQuantity,
	FieldChangeDate,
	FieldWorkerAffiliation,
	FieldWorkerName,
	FieldWorkerQualification,
	FieldInstallerCompany,
	FieldSiteManager,
}

// DateLayout is the layout of the change date field.
const DateLayout = "2006-01-02"

var (
	// ErrWrongState is returned for an operation that does not apply to the current state.
	ErrWrongState = errors.New("operation not available in this step")
	// ErrUnknownField is returned by SetField for a name outside FormFields.
	ErrUnknownField = errors.New("unknown form field")
)

// Blocked is the error of a transition refused by its guard. The wizard stays where it was and the
// message is meant to be shown to the user.
type Blocked struct {
	State   State
	Message string
}

func (b *Blocked) Error() string {
	return b.Message
}

// Wizard is the explicit state of one conversion check.
type Wizard struct {
	selector *selector.Selector

	state         State
	qualification string
	selection     selector.Selection
	decision      *selector.Decision
	applianceName string
	fields        map[string]string
	history       []document.Form
}

// New returns a wizard at the qualification step.
func New(s *selector.Selector) *Wizard {
	return &Wizard{selector: s, fields: map[string]string{}}
}

// State returns the current step.
func (w *Wizard) State() State {
	return w.state
}

// Qualification returns the last answer of the qualification gate.
func (w *Wizard) Qualification() string {
	return w.qualification
}

// Selection returns the current product selection.
func (w *Wizard) Selection() selector.Selection {
	return w.selection
}

// Decision returns the last decision if it was made for the current selection.
func (w *Wizard) Decision() (selector.Decision, bool) {
	if w.decision == nil || w.decision.Selection != w.selection {
		return selector.Decision{}, false
	}
	return *w.decision, true
}

// ApplianceName returns the appliance name frozen when entering the form step.
func (w *Wizard) ApplianceName() string {
	return w.applianceName
}

func (w *Wizard) expect(s State) error {
	if w.state != s {
		return errors.Wrapf(ErrWrongState, "in %s, expected %s", w.state, s)
	}
	return nil
}

// Qualify answers the qualification gate and moves to the product selection when the answer is
// one of Qualifications.
func (w *Wizard) Qualify(answer string) error {
	if err := w.expect(StateQualification); err != nil {
		return err
	}
	w.qualification = answer
	if answer == NoQualification {
		return &Blocked{State: w.state, Message: QualificationWarning}
	}
	for _, q := range Qualifications {
		if q == answer {
			w.state = StateProductSelection
			return nil
		}
	}
	return &Blocked{State: w.state, Message: QualificationRequired}
}

// Candidates returns the values offered for a step given the selection made so far.
func (w *Wizard) Candidates(step selector.Step) []string {
	return w.selector.Candidates(step, w.selection)
}

// Choose sets a step of the selection and clears the later steps. The value must be one of the
// step's candidates.
func (w *Wizard) Choose(step selector.Step, value string) error {
	if err := w.expect(StateProductSelection); err != nil {
		return err
	}
	if step < selector.StepCategory || step > selector.StepExhaustMode {
		return errors.Errorf("invalid step %d", step)
	}
	for _, prior := range selector.Steps[:step] {
		if w.selection.Get(prior) == "" {
			return errors.Wrapf(selector.ErrIncomplete, "%s is not chosen", prior)
		}
	}
	next := w.selection
	next.Set(step, value)
	if err := w.selector.Validate(next); err != nil {
		return err
	}
	w.selection = next
	return nil
}

// Clear unsets a step of the selection and every step after it.
func (w *Wizard) Clear(step selector.Step) {
	w.selection.ResetFrom(step)
}

// FillDefaults sets every step that is unset, or holds a value no longer offered, to its first
// candidate. The selection is complete afterwards unless the catalog offers nothing for a step.
func (w *Wizard) FillDefaults() {
	for _, step := range selector.Steps {
		candidates := w.selector.Candidates(step, w.selection)
		if len(candidates) == 0 {
			return
		}
		current := w.selection.Get(step)
		offered := false
		for _, c := range candidates {
			if c == current {
				offered = true
				break
			}
		}
		if !offered {
			w.selection.Set(step, candidates[0])
		}
	}
}

// Decide makes the eligibility decision for the current selection and remembers it.
func (w *Wizard) Decide() (selector.Decision, error) {
	if err := w.expect(StateProductSelection); err != nil {
		return selector.Decision{}, err
	}
	d, err := w.selector.Decide(w.selection)
	if err != nil {
		return selector.Decision{}, err
	}
	w.decision = &d
	return d, nil
}

// Proceed moves to the form step. It is allowed only after a convertible decision for the current
// selection, whose appliance name becomes the appliance name of the form.
func (w *Wizard) Proceed() error {
	if err := w.expect(StateProductSelection); err != nil {
		return err
	}
	d, ok := w.Decision()
	if !ok {
		return &Blocked{State: w.state, Message: DecisionRequired}
	}
	if !d.Convertible() {
		return &Blocked{State: w.state, Message: d.Summary()}
	}
	w.applianceName = d.ApplianceName()
	w.state = StateFormEntry
	return nil
}

// Back navigates one step backwards. Leaving the form keeps the selection and its decision.
// Leaving the product selection clears the selection and the qualification. Typed form fields are
// always kept.
func (w *Wizard) Back() {
	switch w.state {
	case StateFormEntry:
		w.state = StateProductSelection
	case StateProductSelection:
		w.state = StateQualification
		w.qualification = ""
		w.clearSelection()
	}
}

// Restart returns to the qualification step with an empty selection. Typed form fields and the
// history are kept for the session.
func (w *Wizard) Restart() {
	w.state = StateQualification
	w.qualification = ""
	w.clearSelection()
}

func (w *Wizard) clearSelection() {
	w.selection = selector.Selection{}
	w.decision = nil
	w.applianceName = ""
}

// SetField stores a form field by name.
func (w *Wizard) SetField(name, value string) error {
	if !isFormField(name) {
		return errors.Wrap(ErrUnknownField, name)
	}
	w.fields[name] = value
	return nil
}

// Field returns the stored value of a form field, empty when never set.
func (w *Wizard) Field(name string) string {
	return w.fields[name]
}

// Fields returns all form fields with the defaults applied for the ones never set: quantity 1,
// today's date and the first worker qualification.
func (w *Wizard) Fields(now time.Time) map[string]string {
	fields := map[string]string{
		FieldQuantity:            "1",
		FieldChangeDate:          now.Format(DateLayout),
		FieldWorkerQualification: document.WorkerQualifications[0],
	}
	for name, value := range w.fields {
		fields[name] = value
	}
	return fields
}

// Form builds the confirmation form from the stored fields. The form is returned along with its
// validation error so the page can be redrawn with what was typed.
func (w *Wizard) Form(now time.Time) (document.Form, error) {
	if err := w.expect(StateFormEntry); err != nil {
		return document.Form{}, err
	}
	fields := w.Fields(now)
	form := document.Form{
		Number:              document.DefaultNumber,
		ApplianceName:       w.applianceName,
		WorkerAffiliation:   strings.TrimSpace(fields[FieldWorkerAffiliation]),
		WorkerName:          strings.TrimSpace(fields[FieldWorkerName]),
		WorkerQualification: fields[FieldWorkerQualification],
		InstallerCompany:    strings.TrimSpace(fields[FieldInstallerCompany]),
		SiteManager:         strings.TrimSpace(fields[FieldSiteManager]),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(fields[FieldQuantity])); err == nil {
		form.Quantity = n
	}
	if d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(fields[FieldChangeDate]), now.Location()); err == nil {
		form.ChangeDate = d
	}
	return form, form.Validate()
}

// Record appends a rendered form to the session history.
func (w *Wizard) Record(form document.Form) {
	w.history = append(w.history, form)
}

// History returns the forms rendered in this session, oldest first.
func (w *Wizard) History() []document.Form {
	return append([]document.Form(nil), w.history...)
}

func isFormField(name string) bool {
	for _, f := range FormFields {
		if f == name {
			return true
		}
	}
	return false
}
