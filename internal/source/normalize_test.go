package source

import (
	"testing"

	"github.com/timmy/jobnest/internal/domain"
)

func TestClassifyRemote(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.RemoteType
	}{
		{"remote with qualifier", "Remote (EU timezone preferred)", domain.RemoteTypeRemote},
		{"hybrid beats onsite", "Hybrid - 3 days onsite", domain.RemoteTypeHybrid},
		{"hybrid beats remote", "Remote-friendly hybrid team", domain.RemoteTypeHybrid},
		{"on-site hyphenated", "Berlin, On-site", domain.RemoteTypeOnsite},
		{"on site spaced", "On site in Munich", domain.RemoteTypeOnsite},
		{"worldwide", "Worldwide", domain.RemoteTypeRemote},
		{"empty", "", domain.RemoteTypeUnknown},
		{"unrecognized", "Berlin, Germany", domain.RemoteTypeUnknown},
		{"remote inside word is ignored", "Remotesensing Labs, Oslo", domain.RemoteTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRemote(tt.text); got != tt.want {
				t.Errorf("ClassifyRemote(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyEmployment(t *testing.T) {
	tests := []struct {
		text string
		want domain.EmploymentType
	}{
		{"full-time", domain.EmploymentFullTime},
		{"Full Time", domain.EmploymentFullTime},
		{"FULLTIME", domain.EmploymentFullTime},
		{"full_time", domain.EmploymentFullTime},
		{"part_time", domain.EmploymentPartTime},
		{"PARTTIME", domain.EmploymentPartTime},
		{"CONTRACTOR", domain.EmploymentContract},
		{"contract", domain.EmploymentContract},
		{"INTERN", domain.EmploymentInternship},
		{"Internship, full time", domain.EmploymentInternship},
		{"freelance", domain.EmploymentFreelance},
		{"Temporary contract", domain.EmploymentTemporary},
		{"International team, full time", domain.EmploymentFullTime},
		{"", domain.EmploymentUnknown},
		{"other", domain.EmploymentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ClassifyEmployment(tt.text); got != tt.want {
				t.Errorf("ClassifyEmployment(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyJoinsMultipleTexts(t *testing.T) {
	if got := ClassifyEmployment("berufserfahren", "part time"); got != domain.EmploymentPartTime {
		t.Errorf("got %s, want part_time", got)
	}
}

func TestSyntheticID(t *testing.T) {
	a := SyntheticID("Go Developer", "Acme", "https://acme.test/jobs/1")
	b := SyntheticID(" Go Developer ", "Acme", "https://acme.test/jobs/1")
	c := SyntheticID("Go Developer", "Acme", "https://acme.test/jobs/2")

	if a != b {
		t.Errorf("surrounding whitespace changed the id: %s != %s", a, b)
	}
	if a == c {
		t.Error("different urls produced the same id")
	}
	if len(a) != 32 {
		t.Errorf("id length = %d, want 32", len(a))
	}
}

func TestKeepUsable(t *testing.T) {
	in := []NormalizedJob{
		{ExternalID: "1", Title: "ok"},
		{ExternalID: "", Title: "no id"},
		{ExternalID: "3", Title: ""},
	}
	out := KeepUsable(in)
	if len(out) != 1 || out[0].ExternalID != "1" {
		t.Errorf("KeepUsable = %+v", out)
	}
}

func TestOKCollapsesEmpty(t *testing.T) {
	if r := OK(nil); r.Outcome != OutcomeEmpty {
		t.Errorf("OK(nil).Outcome = %s", r.Outcome)
	}
	if r := OK([]NormalizedJob{{ExternalID: "1", Title: "t"}}); r.Outcome != OutcomeOK {
		t.Errorf("OK(one).Outcome = %s", r.Outcome)
	}
}
