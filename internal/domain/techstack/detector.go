package techstack

import (
	"fmt"
	"slices"
	"strings"
)

// Detector applies the manifest and code rule tables. It holds no run state;
// each call returns a fresh Profile delta that the caller merges.
type Detector struct {
	manifestRules []ManifestRule
	codeRules     []CodeRule
}

func NewDetector() *Detector {
	return NewDetectorWithRules(DefaultManifestRules, DefaultCodeRules)
}

func NewDetectorWithRules(manifest []ManifestRule, code []CodeRule) *Detector {
	lowered := make([]CodeRule, len(code))
	for i, r := range code {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		r.Keywords = kw
		lowered[i] = r
	}
	return &Detector{manifestRules: manifest, codeRules: lowered}
}

// DetectManifest runs the manifest pass for one file. Config files without an
// ecosystem yield an empty profile.
func (d *Detector) DetectManifest(path, content string) (*Profile, error) {
	out := NewProfile()
	if _, ok := EcosystemOf(path); !ok {
		return out, nil
	}
	if strings.TrimSpace(content) == "" {
		return out, fmt.Errorf("%w: %s is empty", ErrManifestUnreadable, path)
	}
	eco, deps, err := Dependencies(path, content)
	if err != nil {
		return out, err
	}
	for _, r := range d.manifestRules {
		if r.Ecosystem != eco {
			continue
		}
		if r.Match == MatchPresent || matchesAny(r, deps) {
			out.Add(r.Category, r.Tag)
		}
	}
	return out, nil
}

func matchesAny(r ManifestRule, deps []string) bool {
	sig := strings.ToLower(r.Signature)
	for _, dep := range deps {
		switch r.Match {
		case MatchExact:
			if dep == sig {
				return true
			}
		case MatchPrefix:
			if strings.HasPrefix(dep, sig) {
				return true
			}
		}
	}
	return false
}

// DetectCode runs the code-content pass over content that was already fetched
// for review. Secret hits are counted as security issues on the delta.
func (d *Detector) DetectCode(path, ext, content string) (*Profile, []Finding) {
	out := NewProfile()
	lower := strings.ToLower(content)
	for _, r := range d.codeRules {
		if len(r.Extensions) > 0 && !slices.Contains(r.Extensions, ext) {
			continue
		}
		if containsAll(lower, r.Keywords) {
			out.Add(r.Category, r.Tag)
		}
	}
	findings := ScanSecrets(path, content)
	out.SecurityIssues += len(findings)
	return out, findings
}

func containsAll(s string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}
