package review

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMarkup        = errors.New("response contains markup")
	ErrMissingMarker = errors.New("response is missing a required section")
	ErrSectionOrder  = errors.New("response sections are out of order")
)

var (
	// any run of heading hashes, bullets or quote markers at line start
	linePrefix = regexp.MustCompile(`^\s*(?:#{1,6}\s*|[-*•+>]\s+)*`)
	numbering  = regexp.MustCompile(`^\(?(\d{1,2})[.)\]:](?:\s+|$)`)
	headerLine = regexp.MustCompile(`(?i)^(score|purpose|quality review|architecture review|security review|technical debt|recommendations)\s*(?::\s*|$)`)
)

var (
	emphasis = strings.NewReplacer("**", "", "`", "")
	// __text__ emphasis; lowercase identifiers like __init__ are dunder names and stay
	underscoreEmphasis = regexp.MustCompile(`__([^_\s](?:[^_]*[^_\s])?)__`)
	dunderName         = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)
)

// stripEmphasis runs to a fixed point so stripping never exposes new markup.
func stripEmphasis(line string) string {
	for {
		next := emphasis.Replace(line)
		next = underscoreEmphasis.ReplaceAllStringFunc(next, func(m string) string {
			inner := m[2 : len(m)-2]
			if dunderName.MatchString(inner) {
				return m
			}
			return inner
		})
		if next == line {
			return line
		}
		line = next
	}
}

// Normalize strips emphasis, heading and list markup, rewrites numbering into
// "N. " form and canonicalizes section headers. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = normalizeLine(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func normalizeLine(line string) string {
	line = stripEmphasis(line)
	line = linePrefix.ReplaceAllString(line, "")
	line = numbering.ReplaceAllString(line, "$1. ")
	if m := headerLine.FindStringSubmatchIndex(line); m != nil {
		name := line[m[2]:m[3]]
		if s, ok := lookupSection(name); ok {
			line = s.Marker() + " " + line[m[1]:]
		}
	}
	return strings.TrimRight(line, " \t")
}

// Validate checks normalized text against the contract.
func Validate(text string) error {
	if i := strings.IndexAny(text, "*`"); i >= 0 {
		return fmt.Errorf("%w: %q at offset %d", ErrMarkup, text[i], i)
	}
	pos := headerPositions(text)
	for _, s := range Required {
		if _, ok := pos[s]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingMarker, s.Marker())
		}
	}
	last, lastSection := -1, Section("")
	for _, s := range Order {
		p, ok := pos[s]
		if !ok {
			continue
		}
		if p < last {
			return fmt.Errorf("%w: %s before %s", ErrSectionOrder, s, lastSection)
		}
		last, lastSection = p, s
	}
	return nil
}

// headerPositions maps each section to the offset of its first header line.
func headerPositions(text string) map[Section]int {
	pos := map[Section]int{}
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		for _, s := range Order {
			if strings.HasPrefix(line, s.Marker()) {
				if _, seen := pos[s]; !seen {
					pos[s] = offset
				}
				break
			}
		}
		offset += len(line)
	}
	return pos
}
