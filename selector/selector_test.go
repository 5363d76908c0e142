package selector

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
)

func newSelection(values ...string) Selection {
	var sel Selection
	for i, v := range values {
		*sel.field(Step(i)) = v
	}
	return sel
}

func TestStep_Names(t *testing.T) {
	for _, st := range Steps {
		parsed, err := ParseStep(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
	assert.Equal(t, "4. 용량", StepCapacity.Label())
	assert.Equal(t, "exhaust", StepExhaustMode.String())

	_, err := ParseStep("colour")
	assert.Error(t, err)
	assert.Equal(t, "step(9)", Step(9).String())
}

func TestSelection_SetResetsLaterSteps(t *testing.T) {
	sel := newSelection("일반형", "개방식", "NGB553", "20K", "LNG", "FF")
	assert.True(t, sel.Complete())

	sel.Set(StepModel, "NGB513")
	assert.Equal(t, newSelection("일반형", "개방식", "NGB513"), sel)
	assert.False(t, sel.Complete())

	sel.ResetFrom(StepCategory)
	assert.True(t, sel.IsEmpty())
}

func TestSelector_Candidates(t *testing.T) {
	s := New(catalog.Default())

	assert.Equal(t, []string{"일반형", "콘덴싱", "캐스케이드용"}, s.Candidates(StepCategory, Selection{}))
	assert.Equal(t, []string{"개방식", "밀폐식"}, s.Candidates(StepSubtype, newSelection("일반형")))
	assert.Equal(t, []string{"NGB513", "NGB553"}, s.Candidates(StepModel, newSelection("일반형", "개방식")))
	assert.Equal(t, []string{"13K", "16K", "20K", "25K", "30K", "35K"},
		s.Candidates(StepCapacity, newSelection("일반형", "개방식", "NGB553")))
	assert.Equal(t, []string{"LNG", "LPG"},
		s.Candidates(StepFuel, newSelection("일반형", "개방식", "NGB553", "13K")))
	assert.Equal(t, []string{"FF", "FE"},
		s.Candidates(StepExhaustMode, newSelection("일반형", "개방식", "NGB553", "20K", "LPG")))
	assert.Equal(t, []string{"FF"},
		s.Candidates(StepExhaustMode, newSelection("일반형", "개방식", "NGB553", "13K", "LPG")))

	// Later choices do not restrict earlier steps.
	assert.Equal(t, s.Candidates(StepModel, newSelection("일반형", "개방식")),
		s.Candidates(StepModel, newSelection("일반형", "개방식", "NGB553", "20K")))
}

func TestSelector_CandidatesAreIdempotent(t *testing.T) {
	s := New(catalog.Default())
	prior := newSelection("콘덴싱", "밀폐식", "NCB790(single)")
	first := s.Candidates(StepCapacity, prior)
	assert.Equal(t, first, s.Candidates(StepCapacity, prior))
	assert.Equal(t, []string{"45LSS", "75LSS", "100LSS"}, first)
}

func TestSelector_CapacityCandidatesAreLabelUnion(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	for _, category := range s.Candidates(StepCategory, Selection{}) {
		for _, subtype := range s.Candidates(StepSubtype, newSelection(category)) {
			for _, model := range s.Candidates(StepModel, newSelection(category, subtype)) {
				prior := newSelection(category, subtype, model)
				expected := map[string]bool{}
				for _, r := range c.Lookup(prior.Query(StepCapacity)) {
					for _, label := range r.Capacities() {
						expected[label] = true
					}
				}
				got := s.Candidates(StepCapacity, prior)
				assert.Len(t, got, len(expected), "%v", prior)
				for _, label := range got {
					assert.True(t, expected[label], "%v offers %s", prior, label)
				}
			}
		}
	}
}

func TestSelector_CapacitySentinelCollapses(t *testing.T) {
	source := `
- {category: 일반형, subtype: 개방식, model: M1, fuel: LNG, exhaust: FF, capacity: 없음, note: a, eligibility: 전환가능}
- {category: 일반형, subtype: 개방식, model: M1, fuel: LPG, exhaust: FF, capacity: " 없음", note: a, eligibility: 전환불가}
- {category: 일반형, subtype: 개방식, model: M1, fuel: LPG, exhaust: FE, capacity: "10K", note: a, eligibility: 전환불가}
`
	c, err := catalog.Load([]byte(source), catalog.LoadOptions{Source: "test"})
	require.NoError(t, err)
	s := New(c)

	prior := newSelection("일반형", "개방식", "M1")
	assert.Equal(t, []string{catalog.NoCapacity, "10K"}, s.Candidates(StepCapacity, prior))

	prior.Capacity = catalog.NoCapacity
	assert.Equal(t, []string{"LNG", "LPG"}, s.Candidates(StepFuel, prior))
	prior.Fuel = "LPG"
	assert.Equal(t, []string{"FF"}, s.Candidates(StepExhaustMode, prior))
}

func TestSelector_Narrow(t *testing.T) {
	s := New(catalog.Default())
	subset := s.Catalog().Records()

	var err error
	subset, err = s.Narrow(subset, StepCategory, "캐스케이드용")
	require.NoError(t, err)
	assert.Len(t, subset, 12)

	subset, err = s.Narrow(subset, StepModel, "NFB790")
	require.NoError(t, err)
	assert.Len(t, subset, 4)

	subset, err = s.Narrow(subset, StepCapacity, "100LS")
	require.NoError(t, err)
	assert.Len(t, subset, 4)

	_, err = s.Narrow(subset, StepFuel, "CNG")
	assert.True(t, errors.Is(err, ErrNotCandidate))

	_, err = s.Narrow(subset, Step(42), "x")
	assert.Error(t, err)
}

func TestSelector_Validate(t *testing.T) {
	s := New(catalog.Default())
	assert.NoError(t, s.Validate(Selection{}))
	assert.NoError(t, s.Validate(newSelection("일반형", "개방식", "NGB553", "20K")))

	err := s.Validate(newSelection("일반형", "개방식", "NCB354"))
	assert.True(t, errors.Is(err, ErrNotCandidate))
}
