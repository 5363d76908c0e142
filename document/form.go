package document

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// ErrIncomplete is the single condition reported when any required field of a form is missing.
var ErrIncomplete = errors.New("모든 필수 항목을 입력해주세요.")

// ErrUnknownQualification is returned for a worker qualification outside WorkerQualifications.
var ErrUnknownQualification = errors.New("작업자격을 선택해주세요.")

// DefaultNumber is the fixed item number of a confirmation document.
const DefaultNumber = "NO.1"

// WorkerQualifications are the qualifications a conversion worker can declare on the form.
var WorkerQualifications = []string{
	"가스보일러 제조사의 A/S 종사자",
	"가스보일러 판매업체 직원으로서 제조사 A/S 교육 이수자",
	"가스보일러 판매업체 직원으로서 A/S 업무 2년 이상",
}

// Form is the payload of a confirmation document.
type Form struct {
	Number              string    `json:"number"`
	ApplianceName       string    `json:"appliance_name"`
	Quantity            int       `json:"quantity"`
	ChangeDate          time.Time `json:"change_date"`
	WorkerAffiliation   string    `json:"worker_affiliation"`
	WorkerName          string    `json:"worker_name"`
	WorkerQualification string    `json:"worker_qualification"`
	InstallerCompany    string    `json:"installer_company"`
	SiteManager         string    `json:"site_manager"`
}

// Missing returns the json names of the required fields that are not filled in.
func (f Form) Missing() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"number", f.Number},
		{"appliance_name", f.ApplianceName},
		{"worker_affiliation", f.WorkerAffiliation},
		{"worker_name", f.WorkerName},
		{"worker_qualification", f.WorkerQualification},
		{"installer_company", f.InstallerCompany},
		{"site_manager", f.SiteManager},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if f.Quantity < 1 {
		missing = append(missing, "quantity")
	}
	if f.ChangeDate.IsZero() {
		missing = append(missing, "change_date")
	}
	return missing
}

// Validate checks the form as a whole. Any missing field yields ErrIncomplete, never a per-field
// error.
func (f Form) Validate() error {
	if len(f.Missing()) > 0 {
		return ErrIncomplete
	}
	for _, q := range WorkerQualifications {
		if q == f.WorkerQualification {
			return nil
		}
	}
	return ErrUnknownQualification
}

var unsafeFileChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// FallbackName replaces a site manager name with nothing left after sanitizing.
const FallbackName = "이름없음"

// FilePrefix starts the name of every generated document.
const FilePrefix = "연소기_변경_확인서_"

// Sanitize strips the characters that are unsafe in file names and surrounding blanks. The name
// is NFC normalised first so decomposed Hangul from some input methods yields the same file name.
func Sanitize(name string) string {
	s := strings.TrimSpace(unsafeFileChars.ReplaceAllString(norm.NFC.String(name), ""))
	if s == "" {
		return FallbackName
	}
	return s
}

// BaseName returns the file name, without extension, of the documents signed by a site manager.
func BaseName(siteManager string) string {
	return FilePrefix + Sanitize(siteManager)
}
