package catalog

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Filter holds the different parameters used to filter catalog listings and reports.
type Filter struct {
	ModelRegexp    *regexp.Regexp
	NoteRegexp     *regexp.Regexp
	AnyFieldRegexp *regexp.Regexp
	FieldRegexp    map[string]*regexp.Regexp
}

// CreateFilter compiles the filter regular expressions given on the command line or in a web form.
// Each entry of fieldFilter is either NAME=REGEXP for a single field, or a bare REGEXP that any
// field may match.
func CreateFilter(modelFilter, noteFilter string, fieldFilter []string) (Filter, error) {
	filter := Filter{}
	filter.FieldRegexp = make(map[string]*regexp.Regexp, 0)
	var err error
	if len(modelFilter) > 0 {
		filter.ModelRegexp, err = regexp.Compile(modelFilter)
		if err != nil {
			return filter, errors.Wrap(err, "model filter")
		}
	}
	if len(noteFilter) > 0 {
		filter.NoteRegexp, err = regexp.Compile(noteFilter)
		if err != nil {
			return filter, errors.Wrap(err, "note filter")
		}
	}
	for _, f := range fieldFilter {
		if f == "" {
			continue
		}
		if strings.Contains(f, "=") {
			parts := strings.SplitN(f, "=", 2)
			name := strings.ToUpper(strings.TrimSpace(parts[0]))
			if !isFieldName(name) {
				return filter, errors.Errorf("unknown field `%s`", parts[0])
			}
			r, err := regexp.Compile(parts[1])
			if err != nil {
				return filter, errors.Wrapf(err, "%s filter", name)
			}
			filter.FieldRegexp[name] = r
		} else {
			if filter.AnyFieldRegexp != nil {
				return filter, errors.New("cannot specify more than one any field filter")
			}
			filter.AnyFieldRegexp, err = regexp.Compile(f)
			if err != nil {
				return filter, errors.Wrap(err, "field filter")
			}
		}
	}
	return filter, nil
}

func isFieldName(name string) bool {
	for _, n := range FieldNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsEmpty returns whether the filter has no restriction.
func (f Filter) IsEmpty() bool {
	return f.ModelRegexp == nil && f.NoteRegexp == nil &&
		f.AnyFieldRegexp == nil && len(f.FieldRegexp) == 0
}

// Matches returns true if the record matches the filter.
func (r Record) Matches(filter *Filter) bool {
	if filter == nil {
		return true
	}
	if filter.ModelRegexp != nil && !filter.ModelRegexp.MatchString(r.ModelName) {
		return false
	}
	if filter.NoteRegexp != nil && !filter.NoteRegexp.MatchString(r.Note) {
		return false
	}
	fields := r.Fields()
	if filter.AnyFieldRegexp != nil {
		var matches bool
		// Any of the fields must match.
		for _, value := range fields {
			if filter.AnyFieldRegexp.MatchString(value) {
				matches = true
				break
			}
		}
		if !matches {
			return false
		}
	}
	// Each of the filtered fields must match.
	for name, e := range filter.FieldRegexp {
		if !e.MatchString(fields[name]) {
			return false
		}
	}
	return true
}

// Select returns the records of the catalog that match the filter.
func (c *Catalog) Select(filter *Filter) []Record {
	var matches []Record
	for _, r := range c.records {
		if r.Matches(filter) {
			matches = append(matches, r)
		}
	}
	return matches
}
