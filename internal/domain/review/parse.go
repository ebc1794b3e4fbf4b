package review

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 7
)

var (
	scoreValue = regexp.MustCompile(`SCORE:\s*(\d+)`)
	listItem   = regexp.MustCompile(`^\d{1,2}\.\s+(.+)$`)
)

// Result is the structured view of one validated review.
type Result struct {
	Score           int
	Purpose         string
	Quality         string
	Architecture    string
	Security        string
	Debt            string
	Recommendations []string
}

// HasSecurityConcerns reports whether the security section says anything.
func (r Result) HasSecurityConcerns() bool { return r.Security != "" }

// Parse extracts the score and sections. Missing sections come back empty.
func Parse(text string) Result {
	sections := Sections(text)
	return Result{
		Score:           ParseScore(text),
		Purpose:         sections[SectionPurpose],
		Quality:         sections[SectionQuality],
		Architecture:    sections[SectionArchitecture],
		Security:        sections[SectionSecurity],
		Debt:            sections[SectionDebt],
		Recommendations: listItems(sections[SectionRecommendations]),
	}
}

// ParseScore returns the integer after SCORE:, clamped to [1,10], or 7 when
// the marker is absent or not followed by digits.
func ParseScore(text string) int {
	m := scoreValue.FindStringSubmatch(text)
	if m == nil {
		return DefaultScore
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultScore
	}
	return Clamp(n)
}

func Clamp(n int) int {
	return max(MinScore, min(MaxScore, n))
}

// Sections splits text at known header lines. A body runs from its header to
// the next known header or the end of text.
func Sections(text string) map[Section]string {
	type mark struct {
		section Section
		start   int // first byte of the header line
		body    int // first byte after the marker
	}
	var marks []mark
	pos := headerPositions(text)
	for s, p := range pos {
		marks = append(marks, mark{section: s, start: p, body: p + len(s.Marker())})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	// later duplicate headers still terminate the preceding body
	bounds := allHeaderStarts(text)
	out := make(map[Section]string, len(marks))
	for _, m := range marks {
		end := len(text)
		for _, b := range bounds {
			if b > m.start {
				end = b
				break
			}
		}
		out[m.section] = strings.TrimSpace(text[m.body:end])
	}
	return out
}

func allHeaderStarts(text string) []int {
	var starts []int
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		for _, s := range Order {
			if strings.HasPrefix(line, s.Marker()) {
				starts = append(starts, offset)
				break
			}
		}
		offset += len(line)
	}
	return starts
}

func listItems(body string) []string {
	var numbered, plain []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := listItem.FindStringSubmatch(line); m != nil {
			numbered = append(numbered, strings.TrimSpace(m[1]))
			continue
		}
		plain = append(plain, line)
	}
	if len(numbered) > 0 {
		return numbered
	}
	return plain
}
