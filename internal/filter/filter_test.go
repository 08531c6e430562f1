package filter

import (
	"testing"

	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/source"
)

func job(id, title, location string, remote domain.RemoteType, emp domain.EmploymentType) source.NormalizedJob {
	return source.NormalizedJob{
		ExternalID:     id,
		Title:          title,
		CompanyName:    "Acme",
		Location:       location,
		Description:    "desc",
		RemoteType:     remote,
		EmploymentType: emp,
	}
}

var records = []source.NormalizedJob{
	job("1", "Senior React Developer", "Berlin, Germany", domain.RemoteTypeOnsite, domain.EmploymentFullTime),
	job("2", "Java Engineer", "Worldwide", domain.RemoteTypeRemote, domain.EmploymentContract),
	job("3", "React Native Intern", "Remote - Europe", domain.RemoteTypeUnknown, domain.EmploymentInternship),
	job("4", "Go Developer", "Austin, TX", domain.RemoteTypeHybrid, domain.EmploymentPartTime),
}

func ids(jobs []source.NormalizedJob) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ExternalID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		prefs   Preferences
		want    []string
	}{
		{"no constraints", "", Preferences{}, []string{"1", "2", "3", "4"}},
		{"keyword case-insensitive", "REACT", Preferences{}, []string{"1", "3"}},
		{"keyword matches company", "acme", Preferences{}, []string{"1", "2", "3", "4"}},
		{"keyword matches location", "austin", Preferences{}, []string{"4"}},
		{"location substring", "", Preferences{Location: "berlin"}, []string{"1"}},
		{"location remote by text or type", "", Preferences{Location: "Remote"}, []string{"2", "3"}},
		{"job type hyphen", "", Preferences{JobType: "full-time"}, []string{"1"}},
		{"job type part-time", "", Preferences{JobType: "part-time"}, []string{"4"}},
		{"job type any", "", Preferences{JobType: "any"}, []string{"1", "2", "3", "4"}},
		{"combined", "react", Preferences{Location: "remote", JobType: "internship"}, []string{"3"}},
		{"no match", "cobol", Preferences{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(records, tt.keyword, tt.prefs))
			if !equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_IsSubsetAndDoesNotMutate(t *testing.T) {
	in := make([]source.NormalizedJob, len(records))
	copy(in, records)

	out := Apply(in, "developer", Preferences{Location: "tx"})

	if !equal(ids(in), ids(records)) {
		t.Fatalf("input mutated: %v", ids(in))
	}
	seen := map[string]bool{}
	for _, r := range in {
		seen[r.ExternalID] = true
	}
	for _, r := range out {
		if !seen[r.ExternalID] {
			t.Errorf("output contains %q which is not in the input", r.ExternalID)
		}
	}
	if !equal(ids(out), []string{"4"}) {
		t.Errorf("Apply() = %v", ids(out))
	}
}

func TestApply_Idempotent(t *testing.T) {
	prefs := Preferences{Location: "remote", JobType: "contract"}
	once := Apply(records, "java", prefs)
	twice := Apply(once, "java", prefs)
	if !equal(ids(once), ids(twice)) {
		t.Errorf("second pass changed result: %v vs %v", ids(once), ids(twice))
	}
}

func TestKeywordsOrBlank(t *testing.T) {
	if got := KeywordsOrBlank(Preferences{}); !equal(got, []string{""}) {
		t.Errorf("empty prefs: got %q", got)
	}
	kws := []string{"go", "rust"}
	if got := KeywordsOrBlank(Preferences{Keywords: kws}); !equal(got, kws) {
		t.Errorf("got %q", got)
	}
}

func TestFromUser(t *testing.T) {
	u := &domain.User{
		PreferredKeywords: domain.StringArray{"go"},
		PreferredLocation: "Berlin",
		PreferredJobType:  "contract",
	}
	p := FromUser(u)
	if !equal(p.Keywords, []string{"go"}) || p.Location != "Berlin" || p.JobType != "contract" {
		t.Errorf("FromUser() = %+v", p)
	}
}
