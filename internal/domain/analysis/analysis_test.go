package analysis

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

func profileWith(arch, frameworks int) *techstack.Profile {
	p := techstack.NewProfile()
	for i := 0; i < arch; i++ {
		p.Add(techstack.CategoryArchitecture, fmt.Sprintf("arch-%d", i))
	}
	for i := 0; i < frameworks; i++ {
		p.Add(techstack.CategoryFramework, fmt.Sprintf("fw-%d", i))
	}
	return p
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		files   []Signals
		profile *techstack.Profile
		want    int
	}{
		{
			name:    "no insights",
			profile: profileWith(4, 5),
			want:    1,
		},
		{
			name:    "average 8 with two patterns and one framework",
			files:   []Signals{{Score: 7}, {Score: 9}, {Score: 8}},
			profile: profileWith(2, 1),
			want:    9,
		},
		{
			name:    "bonuses are capped",
			files:   []Signals{{Score: 6}},
			profile: profileWith(10, 10),
			want:    9,
		},
		{
			name:    "clamped to ten",
			files:   []Signals{{Score: 10}},
			profile: profileWith(4, 5),
			want:    10,
		},
		{
			name: "security penalty capped at two",
			files: []Signals{
				{Score: 4, HasSecurityConcerns: true}, {Score: 4, HasSecurityConcerns: true},
				{Score: 4, HasSecurityConcerns: true}, {Score: 4, HasSecurityConcerns: true},
				{Score: 4, HasSecurityConcerns: true}, {Score: 4, HasSecurityConcerns: true},
				{Score: 4, HasSecurityConcerns: true}, {Score: 4, HasSecurityConcerns: true},
			},
			profile: techstack.NewProfile(),
			want:    2,
		},
		{
			name:    "clamped to one",
			files:   []Signals{{Score: 1, HasSecurityConcerns: true}, {Score: 1, HasSecurityConcerns: true}},
			profile: nil,
			want:    1,
		},
		{
			name:    "half rounds up",
			files:   []Signals{{Score: 6}, {Score: 7}},
			profile: techstack.NewProfile(),
			want:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.files, tt.profile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Aggregate(tt.files, tt.profile))
		})
	}
}

func TestLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a := NewPending("a1", "owner-1", "https://github.com/acme/api", now)
	assert.Equal(t, StatusPending, a.Status)
	assert.Nil(t, a.Score)

	require.NoError(t, a.Complete(Outcome{Score: 8, Summary: "ok"}, now.Add(time.Minute)))
	assert.Equal(t, StatusCompleted, a.Status)
	require.NotNil(t, a.Score)
	assert.Equal(t, 8, *a.Score)
	assert.NotNil(t, a.FileInsights)
	assert.True(t, a.Terminal())

	assert.ErrorIs(t, a.Complete(Outcome{Score: 5}, now), ErrTerminal)
	assert.ErrorIs(t, a.Fail(errors.New("late"), now), ErrTerminal)
	assert.Equal(t, 8, *a.Score)

	b := NewPending("b1", "owner-1", "nope", now)
	require.NoError(t, b.Fail(errors.New("tree unavailable"), now))
	assert.Equal(t, StatusFailed, b.Status)
	assert.Nil(t, b.Score)
	assert.Equal(t, "tree unavailable", b.Error)
	assert.ErrorIs(t, b.Fail(nil, now), ErrTerminal)
}

func TestComplete_RejectsOutOfRangeScore(t *testing.T) {
	a := NewPending("a1", "o", "u", time.Now())
	assert.Error(t, a.Complete(Outcome{Score: 0}, time.Now()))
	assert.Equal(t, StatusPending, a.Status)
}

func TestComplete_CapsSuggestions(t *testing.T) {
	s := make([]string, 30)
	for i := range s {
		s[i] = fmt.Sprintf("s%d", i)
	}
	a := NewPending("a1", "o", "u", time.Now())
	require.NoError(t, a.Complete(Outcome{Score: 5, Suggestions: s}, time.Now()))
	assert.Len(t, a.Suggestions, MaxSuggestions)
	assert.Equal(t, "s19", a.Suggestions[19])
}

func TestSuggestions(t *testing.T) {
	findings := []techstack.Finding{
		{Path: "z.go", Title: "Slack token exposed", Recommendation: "Revoke it."},
		{Path: "a.go", Title: "AWS access key exposed", Recommendation: "Rotate it."},
	}
	recs := []Recommendation{
		{File: "b.go", Text: "Split the handler."},
		{File: "a.go", Text: "Add tests."},
	}

	got := Suggestions(findings, recs)
	assert.Equal(t, []string{
		"a.go: AWS access key exposed. Rotate it.",
		"z.go: Slack token exposed. Revoke it.",
		"a.go: Add tests.",
		"b.go: Split the handler.",
	}, got)

	many := make([]Recommendation, 50)
	for i := range many {
		many[i] = Recommendation{File: "f.go", Text: fmt.Sprint(i)}
	}
	assert.Len(t, Suggestions(findings, many), MaxSuggestions)
}

func TestSummary(t *testing.T) {
	p := techstack.NewProfile()
	p.CountLanguage("go")
	p.CountLanguage("ts")
	p.Add(techstack.CategoryArchitecture, "REST API")
	p.Add(techstack.CategoryFramework, "React")
	p.SecurityIssues = 1

	got := Summary(SummaryInput{FilesAnalyzed: 5, CodeFiles: 4, Reviewed: 3, Average: 7.666, Profile: p})
	assert.Equal(t, "Analyzed 5 files across 2 languages. Architecture: REST API. Frameworks: React. Reviewed 3 of 4 code files, average score 7.7/10. Security issues: 1. Quality issues: 0.", got)

	assert.Contains(t, Summary(SummaryInput{}), "No code or manifest files")
	assert.Contains(t, Summary(SummaryInput{FilesAnalyzed: 3, CodeFiles: 3, Profile: p}), "None of the 3 code files could be reviewed")
}
