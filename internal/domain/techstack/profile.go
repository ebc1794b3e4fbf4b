package techstack

import (
	"encoding/json"
	"sort"
)

// Set is a string set that serializes as a sorted JSON array.
type Set map[string]struct{}

func (s Set) Add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	*s = make(Set, len(arr))
	for _, v := range arr {
		s.Add(v)
	}
	return nil
}

// Profile is the technology profile of one run. Every mutation only adds.
type Profile struct {
	Languages      map[string]int `json:"languages"`
	Frameworks     Set            `json:"frameworks"`
	Tools          Set            `json:"tools"`
	Architecture   Set            `json:"architecturePatterns"`
	SecurityIssues int            `json:"securityIssues"`
	QualityIssues  int            `json:"qualityIssues"`
}

func NewProfile() *Profile {
	return &Profile{
		Languages:    map[string]int{},
		Frameworks:   Set{},
		Tools:        Set{},
		Architecture: Set{},
	}
}

// CountLanguage records one more file with the given extension token.
func (p *Profile) CountLanguage(ext string) {
	if ext == "" {
		return
	}
	p.Languages[ext]++
}

// Add puts tag into the set selected by category.
func (p *Profile) Add(c Category, tag string) {
	switch c {
	case CategoryFramework:
		p.Frameworks.Add(tag)
	case CategoryTool:
		p.Tools.Add(tag)
	case CategoryArchitecture:
		p.Architecture.Add(tag)
	}
}

// Merge folds other into p. Called after tasks join, never concurrently.
func (p *Profile) Merge(other *Profile) {
	if other == nil {
		return
	}
	for k, v := range other.Languages {
		p.Languages[k] += v
	}
	for v := range other.Frameworks {
		p.Frameworks.Add(v)
	}
	for v := range other.Tools {
		p.Tools.Add(v)
	}
	for v := range other.Architecture {
		p.Architecture.Add(v)
	}
	p.SecurityIssues += other.SecurityIssues
	p.QualityIssues += other.QualityIssues
}
