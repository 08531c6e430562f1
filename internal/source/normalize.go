package source

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/timmy/jobnest/internal/domain"
)

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

type remoteRule struct {
	keywords []string
	value    domain.RemoteType
}

// remoteRules are checked in order; the first match wins. Hybrid comes
// first because hybrid postings usually also mention onsite or remote days.
var remoteRules = []remoteRule{
	{[]string{"hybrid"}, domain.RemoteTypeHybrid},
	{[]string{"on site", "onsite", "in office", "office based", "vor ort"}, domain.RemoteTypeOnsite},
	{[]string{"remote", "work from home", "wfh", "anywhere", "worldwide"}, domain.RemoteTypeRemote},
}

type employmentRule struct {
	keywords []string
	value    domain.EmploymentType
}

// employmentRules go from most to least specific. full_time is last since
// "full time" shows up inside internship and contract descriptions too.
var employmentRules = []employmentRule{
	{[]string{"internship", "intern", "trainee", "praktikum", "working student", "werkstudent"}, domain.EmploymentInternship},
	{[]string{"freelance", "freelancer", "freelancing"}, domain.EmploymentFreelance},
	{[]string{"temporary", "temp", "seasonal", "fixed term"}, domain.EmploymentTemporary},
	{[]string{"part time", "parttime", "teilzeit"}, domain.EmploymentPartTime},
	{[]string{"contract", "contractor", "contracting"}, domain.EmploymentContract},
	{[]string{"full time", "fulltime", "permanent", "vollzeit"}, domain.EmploymentFullTime},
}

// matchText lower-cases text, turns punctuation into single spaces and pads
// both ends, so keywords can be matched on word boundaries.
func matchText(texts ...string) string {
	joined := strings.ToLower(strings.Join(texts, " "))
	return " " + strings.Join(strings.Fields(reNonWord.ReplaceAllString(joined, " ")), " ") + " "
}

func containsWord(text, keyword string) bool {
	return strings.Contains(text, " "+keyword+" ")
}

// ClassifyRemote derives a RemoteType from free text such as a location
// line or a provider's remote flag description.
func ClassifyRemote(texts ...string) domain.RemoteType {
	text := matchText(texts...)
	for _, rule := range remoteRules {
		for _, kw := range rule.keywords {
			if containsWord(text, kw) {
				return rule.value
			}
		}
	}
	return domain.RemoteTypeUnknown
}

// ClassifyEmployment derives an EmploymentType from raw job type text.
func ClassifyEmployment(texts ...string) domain.EmploymentType {
	text := matchText(texts...)
	for _, rule := range employmentRules {
		for _, kw := range rule.keywords {
			if containsWord(text, kw) {
				return rule.value
			}
		}
	}
	return domain.EmploymentUnknown
}

// SyntheticID builds a stable external ID for providers without a native one.
func SyntheticID(title, company, url string) string {
	key := strings.Join([]string{
		strings.TrimSpace(title),
		strings.TrimSpace(company),
		strings.TrimSpace(url),
	}, "|")
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// KeepUsable drops records without an external ID or title.
func KeepUsable(jobs []NormalizedJob) []NormalizedJob {
	out := make([]NormalizedJob, 0, len(jobs))
	for _, j := range jobs {
		if j.Usable() {
			out = append(out, j)
		}
	}
	return out
}
