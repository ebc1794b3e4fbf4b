package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

// QualityThreshold: files scoring below it count as quality issues.
const QualityThreshold = 6

// SummaryInput is what the summary line is generated from.
type SummaryInput struct {
	FilesAnalyzed int // code + manifest files
	CodeFiles     int
	Reviewed      int
	Average       float64
	Profile       *techstack.Profile
}

// Summary renders the human-readable summary of a completed run.
func Summary(in SummaryInput) string {
	p := in.Profile
	if p == nil {
		p = techstack.NewProfile()
	}
	if in.FilesAnalyzed == 0 {
		return "No code or manifest files qualified for analysis; score defaults to 1."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d files across %d languages.", in.FilesAnalyzed, len(p.Languages))
	if len(p.Architecture) > 0 {
		fmt.Fprintf(&b, " Architecture: %s.", strings.Join(p.Architecture.Sorted(), ", "))
	}
	if len(p.Frameworks) > 0 {
		fmt.Fprintf(&b, " Frameworks: %s.", strings.Join(p.Frameworks.Sorted(), ", "))
	}
	switch {
	case in.CodeFiles == 0:
		b.WriteString(" No code files to review.")
	case in.Reviewed == 0:
		fmt.Fprintf(&b, " None of the %d code files could be reviewed.", in.CodeFiles)
	default:
		fmt.Fprintf(&b, " Reviewed %d of %d code files, average score %.1f/10.", in.Reviewed, in.CodeFiles, in.Average)
	}
	fmt.Fprintf(&b, " Security issues: %d. Quality issues: %d.", p.SecurityIssues, p.QualityIssues)
	return b.String()
}

// Recommendation is one reviewer recommendation for a file.
type Recommendation struct {
	File string
	Text string
}

// Suggestions lists secret findings first, then recommendations, both in path
// order, capped at MaxSuggestions.
func Suggestions(findings []techstack.Finding, recs []Recommendation) []string {
	fs := append([]techstack.Finding(nil), findings...)
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].Path < fs[j].Path })
	rs := append([]Recommendation(nil), recs...)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].File < rs[j].File })

	out := make([]string, 0, MaxSuggestions)
	for _, f := range fs {
		if len(out) == MaxSuggestions {
			return out
		}
		out = append(out, f.Suggestion())
	}
	for _, r := range rs {
		if len(out) == MaxSuggestions {
			return out
		}
		out = append(out, r.File+": "+r.Text)
	}
	return out
}
