// Package review holds the reviewer output-format contract: the section headers
// the prompt demands, the normalizer and validator applied to raw model text,
// and the parser that extracts the score and sections from validated text.
package review

import "strings"

// Section is a header of the plain-text contract. Headers appear at line start,
// upper case, followed by a colon.
type Section string

const (
	SectionScore           Section = "SCORE"
	SectionPurpose         Section = "PURPOSE"
	SectionQuality         Section = "QUALITY REVIEW"
	SectionArchitecture    Section = "ARCHITECTURE REVIEW"
	SectionSecurity        Section = "SECURITY REVIEW"
	SectionDebt            Section = "TECHNICAL DEBT"
	SectionRecommendations Section = "RECOMMENDATIONS"
)

// Order is the fixed order sections must follow.
var Order = []Section{
	SectionScore,
	SectionPurpose,
	SectionQuality,
	SectionArchitecture,
	SectionSecurity,
	SectionDebt,
	SectionRecommendations,
}

// Required sections must be present for a response to be usable.
var Required = []Section{SectionScore, SectionRecommendations}

// RecommendationCount is how many numbered recommendations the prompt asks for.
const RecommendationCount = 5

// Marker returns the header as it appears in text, e.g. "SCORE:".
func (s Section) Marker() string { return string(s) + ":" }

func lookupSection(name string) (Section, bool) {
	name = strings.ToUpper(strings.Join(strings.Fields(name), " "))
	for _, s := range Order {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}
