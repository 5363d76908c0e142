/*
 * Types used for catalog records
 */
package catalog

import "strings"

// Category is the product line of a boiler model.
type Category string

const (
	CategoryStandard   Category = "일반형"
	CategoryCondensing Category = "콘덴싱"
	CategoryCascade    Category = "캐스케이드용"
)

// Subtype is the flue type of a boiler model.
type Subtype string

const (
	SubtypeOpenFlue   Subtype = "개방식"
	SubtypeSealedFlue Subtype = "밀폐식"
)

// Fuel is the gas the boiler burns.
type Fuel string

const (
	FuelLNG Fuel = "LNG"
	FuelLPG Fuel = "LPG"
)

// ExhaustMode is one of the two supply/exhaust flue configurations.
type ExhaustMode string

const (
	ExhaustFF ExhaustMode = "FF"
	ExhaustFE ExhaustMode = "FE"
)

// NoCapacity is the capacity sentinel of models that are sold without a capacity label. It only
// matches a lookup for NoCapacity itself.
const NoCapacity = "없음"

// The two eligibility labels found in the catalog source.
const (
	EligibilityConvertible    = "전환가능"
	EligibilityNotConvertible = "전환불가"
)

// ParseCategory returns the category named by s and whether it is one of the known ones.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryStandard, CategoryCondensing, CategoryCascade:
		return c, true
	}
	return "", false
}

// ParseSubtype returns the subtype named by s and whether it is one of the known ones.
func ParseSubtype(s string) (Subtype, bool) {
	switch t := Subtype(s); t {
	case SubtypeOpenFlue, SubtypeSealedFlue:
		return t, true
	}
	return "", false
}

// ParseFuel returns the fuel named by s and whether it is one of the known ones.
func ParseFuel(s string) (Fuel, bool) {
	switch f := Fuel(s); f {
	case FuelLNG, FuelLPG:
		return f, true
	}
	return "", false
}

// ParseExhaustMode returns the exhaust mode named by s and whether it is one of the known ones.
func ParseExhaustMode(s string) (ExhaustMode, bool) {
	switch m := ExhaustMode(s); m {
	case ExhaustFF, ExhaustFE:
		return m, true
	}
	return "", false
}

// Record is one row of the catalog. Records are values and the catalog never hands out
// references to its own copies, so they cannot be changed after loading.
type Record struct {
	// Position is the index of the record in declaration order.
	Position int
	// Line is the line of the record in the catalog source.
	Line        int
	Category    Category
	Subtype     Subtype
	ModelName   string
	Fuel        Fuel
	ExhaustMode ExhaustMode
	// Capacity is the raw, comma separated capacity label list.
	Capacity string
	// Note is the distribution channel label.
	Note        string
	Eligibility string
	Convertible bool
}

// HasNoCapacity returns whether the record carries the NoCapacity sentinel.
func (r Record) HasNoCapacity() bool {
	return strings.TrimSpace(r.Capacity) == NoCapacity
}

// Capacities returns the trimmed capacity labels of the record. A record with the sentinel
// yields exactly one NoCapacity label.
func (r Record) Capacities() []string {
	if r.HasNoCapacity() {
		return []string{NoCapacity}
	}
	parts := strings.Split(r.Capacity, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// MatchesCapacity reports whether label is one of the record's capacity labels. Matching is
// exact per trimmed label.
func (r Record) MatchesCapacity(label string) bool {
	if r.HasNoCapacity() {
		return label == NoCapacity
	}
	for _, c := range r.Capacities() {
		if c == label {
			return true
		}
	}
	return false
}

// Fields returns the record's fields by uppercase name, as used by filters and listings.
func (r Record) Fields() map[string]string {
	return map[string]string{
		FieldCategory:    string(r.Category),
		FieldSubtype:     string(r.Subtype),
		FieldModel:       r.ModelName,
		FieldCapacity:    r.Capacity,
		FieldFuel:        string(r.Fuel),
		FieldExhaust:     string(r.ExhaustMode),
		FieldNote:        r.Note,
		FieldEligibility: r.Eligibility,
	}
}

// Field names of a record.
const (
	FieldCategory    = "CATEGORY"
	FieldSubtype     = "SUBTYPE"
	FieldModel       = "MODEL"
	FieldCapacity    = "CAPACITY"
	FieldFuel        = "FUEL"
	FieldExhaust     = "EXHAUST"
	FieldNote        = "NOTE"
	FieldEligibility = "ELIGIBILITY"
)

// FieldNames lists the record field names in display order.
var FieldNames = []string{
	FieldCategory, FieldSubtype, FieldModel, FieldCapacity,
	FieldFuel, FieldExhaust, FieldNote, FieldEligibility,
}

// Query selects records by exact field values. Empty fields are wildcards.
type Query struct {
	Category    Category
	Subtype     Subtype
	ModelName   string
	Capacity    string
	Fuel        Fuel
	ExhaustMode ExhaustMode
}

// Matches reports whether the record satisfies every non-empty field of the query.
func (q Query) Matches(r Record) bool {
	if q.Category != "" && q.Category != r.Category {
		return false
	}
	if q.Subtype != "" && q.Subtype != r.Subtype {
		return false
	}
	if q.ModelName != "" && q.ModelName != r.ModelName {
		return false
	}
	if q.Capacity != "" && !r.MatchesCapacity(q.Capacity) {
		return false
	}
	if q.Fuel != "" && q.Fuel != r.Fuel {
		return false
	}
	if q.ExhaustMode != "" && q.ExhaustMode != r.ExhaustMode {
		return false
	}
	return true
}
