package wizard

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
)

var today = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func newWizard() *Wizard {
	return New(selector.New(catalog.Default()))
}

func choose(t *testing.T, w *Wizard, values ...string) {
	for i, v := range values {
		require.NoError(t, w.Choose(selector.Step(i), v))
	}
}

// qualified returns a wizard on the form step for NGB553-20K (LNG, FF).
func qualified(t *testing.T) *Wizard {
	w := newWizard()
	require.NoError(t, w.Qualify(Qualifications[1]))
	choose(t, w, "일반형", "개방식", "NGB553", "20K", "LNG", "FF")
	_, err := w.Decide()
	require.NoError(t, err)
	require.NoError(t, w.Proceed())
	return w
}

func TestQualify(t *testing.T) {
	w := newWizard()
	assert.Equal(t, StateQualification, w.State())

	err := w.Qualify(NoQualification)
	var blocked *Blocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, QualificationWarning, blocked.Message)
	assert.Equal(t, StateQualification, w.State())

	err = w.Qualify("")
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, QualificationRequired, blocked.Message)

	require.NoError(t, w.Qualify(Qualifications[0]))
	assert.Equal(t, StateProductSelection, w.State())
	assert.Equal(t, Qualifications[0], w.Qualification())

	err = w.Qualify(Qualifications[0])
	assert.True(t, errors.Is(err, ErrWrongState))
}

func TestQualify_NoneBlocksAfterBackNavigation(t *testing.T) {
	w := qualified(t)
	w.Back()
	w.Back()
	assert.Equal(t, StateQualification, w.State())

	err := w.Qualify(NoQualification)
	var blocked *Blocked
	assert.True(t, errors.As(err, &blocked))
	assert.Equal(t, StateQualification, w.State())
}

func TestChoose(t *testing.T) {
	w := newWizard()
	assert.True(t, errors.Is(w.Choose(selector.StepCategory, "일반형"), ErrWrongState))

	require.NoError(t, w.Qualify(Qualifications[2]))
	assert.True(t, errors.Is(w.Choose(selector.StepModel, "NGB553"), selector.ErrIncomplete))
	assert.True(t, errors.Is(w.Choose(selector.StepCategory, "가정용"), selector.ErrNotCandidate))
	assert.Error(t, w.Choose(selector.Step(7), "x"))

	choose(t, w, "일반형", "개방식", "NGB553", "20K")
	assert.Equal(t, []string{"LNG", "LPG"}, w.Candidates(selector.StepFuel))

	require.NoError(t, w.Choose(selector.StepModel, "NGB513"))
	assert.Empty(t, w.Selection().Capacity)
}

func TestFillDefaults(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.Qualify(Qualifications[0]))

	w.FillDefaults()
	sel := w.Selection()
	assert.True(t, sel.Complete())
	assert.Equal(t, "일반형", sel.Category)
	assert.Equal(t, "개방식", sel.Subtype)

	// A valid choice is kept, the steps after it default again.
	require.NoError(t, w.Choose(selector.StepModel, "NGB553"))
	w.FillDefaults()
	assert.Equal(t, "NGB553", w.Selection().ModelName)
	assert.Equal(t, "13K", w.Selection().Capacity)
	assert.True(t, w.Selection().Complete())
}

func TestProceed_RequiresConvertibleDecision(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.Qualify(Qualifications[0]))
	choose(t, w, "일반형", "개방식", "NGB553", "13K", "LPG", "FF")

	var blocked *Blocked
	require.True(t, errors.As(w.Proceed(), &blocked))
	assert.Equal(t, DecisionRequired, blocked.Message)

	d, err := w.Decide()
	require.NoError(t, err)
	assert.Equal(t, selector.OutcomeNotConvertible, d.Outcome)
	require.True(t, errors.As(w.Proceed(), &blocked))
	assert.Equal(t, d.Summary(), blocked.Message)
	assert.Equal(t, StateProductSelection, w.State())

	// A decision made for another selection does not count.
	require.NoError(t, w.Choose(selector.StepCapacity, "20K"))
	choose(t, w, "일반형", "개방식", "NGB553", "20K", "LPG", "FF")
	_, ok := w.Decision()
	assert.False(t, ok)
	require.True(t, errors.As(w.Proceed(), &blocked))

	d, err = w.Decide()
	require.NoError(t, err)
	assert.True(t, d.Convertible())
	require.NoError(t, w.Proceed())
	assert.Equal(t, StateFormEntry, w.State())
	assert.Equal(t, "NGB553-20K (LPG, FF)", w.ApplianceName())
}

func TestDecide_Incomplete(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.Qualify(Qualifications[0]))
	choose(t, w, "일반형")
	_, err := w.Decide()
	assert.True(t, errors.Is(err, selector.ErrIncomplete))
}

func TestBack(t *testing.T) {
	w := qualified(t)
	require.NoError(t, w.SetField(FieldWorkerName, "Kim"))

	w.Back()
	assert.Equal(t, StateProductSelection, w.State())
	assert.True(t, w.Selection().Complete())
	d, ok := w.Decision()
	assert.True(t, ok)
	assert.True(t, d.Convertible())
	require.NoError(t, w.Proceed())
	assert.Equal(t, "Kim", w.Field(FieldWorkerName))

	w.Back()
	w.Back()
	assert.Equal(t, StateQualification, w.State())
	assert.True(t, w.Selection().IsEmpty())
	assert.Empty(t, w.Qualification())
	assert.Empty(t, w.ApplianceName())
	assert.Equal(t, "Kim", w.Field(FieldWorkerName))

	w.Back()
	assert.Equal(t, StateQualification, w.State())
}

func TestRestart(t *testing.T) {
	w := qualified(t)
	require.NoError(t, w.SetField(FieldSiteManager, "Lee"))
	w.Record(document.Form{SiteManager: "Lee"})

	w.Restart()
	assert.Equal(t, StateQualification, w.State())
	assert.True(t, w.Selection().IsEmpty())
	assert.Equal(t, "Lee", w.Field(FieldSiteManager))
	assert.Len(t, w.History(), 1)
}

func TestSetField(t *testing.T) {
	w := newWizard()
	assert.True(t, errors.Is(w.SetField("colour", "red"), ErrUnknownField))
	assert.NoError(t, w.SetField(FieldQuantity, "3"))
	assert.Equal(t, "3", w.Field(FieldQuantity))
}

func TestFields_Defaults(t *testing.T) {
	w := newWizard()
	fields := w.Fields(today)
	assert.Equal(t, "1", fields[FieldQuantity])
	assert.Equal(t, "2024-03-05", fields[FieldChangeDate])
	assert.Equal(t, document.WorkerQualifications[0], fields[FieldWorkerQualification])
	assert.Empty(t, fields[FieldSiteManager])
}

func TestForm(t *testing.T) {
	w := newWizard()
	_, err := w.Form(today)
	assert.True(t, errors.Is(err, ErrWrongState))

	w = qualified(t)
	form, err := w.Form(today)
	assert.Equal(t, document.ErrIncomplete, err)
	assert.Equal(t, "NGB553-20K (LNG, FF)", form.ApplianceName)
	assert.Equal(t, 1, form.Quantity)

	for name, value := range map[string]string{
		FieldQuantity:          "2",
		FieldChangeDate:        "2024-02-29",
		FieldWorkerAffiliation: "Acme Service",
		FieldWorkerName:        " Kim ",
		FieldInstallerCompany:  "Acme Install",
		FieldSiteManager:       "Lee",
	} {
		require.NoError(t, w.SetField(name, value))
	}
	form, err = w.Form(today)
	require.NoError(t, err)
	assert.Equal(t, document.Form{
		Number:              "NO.1",
		ApplianceName:       "NGB553-20K (LNG, FF)",
		Quantity:            2,
		ChangeDate:          time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		WorkerAffiliation:   "Acme Service",
		WorkerName:          "Kim",
		WorkerQualification: document.WorkerQualifications[0],
		InstallerCompany:    "Acme Install",
		SiteManager:         "Lee",
	}, form)

	require.NoError(t, w.SetField(FieldQuantity, "zero"))
	_, err = w.Form(today)
	assert.Equal(t, document.ErrIncomplete, err)
}

func TestHistory_IsACopy(t *testing.T) {
	w := newWizard()
	w.Record(document.Form{SiteManager: "Lee"})
	h := w.History()
	h[0].SiteManager = "Park"
	assert.Equal(t, "Lee", w.History()[0].SiteManager)
}
