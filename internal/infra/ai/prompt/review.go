package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	"github.com/bryanwahyu/repo-insight/internal/domain/review"
)

// ReviewPrompt builds the single user-role message for one file. The format
// block mirrors review.Order so the validator and the prompt never drift.
func ReviewPrompt(req ai.ReviewRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior software engineer reviewing one %s file from a repository.\n", language(req.Extension))
	fmt.Fprintf(&b, "File path: %s\n\n", req.Path)
	b.WriteString("Respond in plain text only. Do not use markdown, asterisks, underscores for emphasis, backticks, or # headings.\n")
	b.WriteString("Use exactly these section headers, in this order, each at the start of a line:\n\n")
	for _, s := range review.Order {
		b.WriteString(s.Marker())
		b.WriteString(" ")
		b.WriteString(guidance[s])
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nList exactly %d recommendations as lines \"1. \" to \"%d. \".\n", review.RecommendationCount, review.RecommendationCount)
	b.WriteString("Leave SECURITY REVIEW empty when there are no security concerns.\n\n")
	b.WriteString("File content:\n")
	b.WriteString(req.Content)
	return b.String()
}

var guidance = map[review.Section]string{
	review.SectionScore:           "<integer 1-10 for overall quality>",
	review.SectionPurpose:         "<one line on what the file does>",
	review.SectionQuality:         "<readability, naming, error handling, testability>",
	review.SectionArchitecture:    "<structure, responsibilities, patterns used>",
	review.SectionSecurity:        "<concrete vulnerabilities or leaked secrets, or nothing>",
	review.SectionDebt:            "<shortcuts and areas that will be costly to change>",
	review.SectionRecommendations: "<numbered list>",
}

var languages = map[string]string{
	"js": "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript", "cjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript",
	"py": "Python", "go": "Go", "rs": "Rust", "java": "Java", "kt": "Kotlin",
	"rb": "Ruby", "php": "PHP", "cs": "C#", "swift": "Swift", "dart": "Dart",
	"c": "C", "h": "C", "cpp": "C++", "cc": "C++", "hpp": "C++",
	"vue": "Vue", "svelte": "Svelte", "sql": "SQL", "sh": "shell",
}

func language(ext string) string {
	if l, ok := languages[ext]; ok {
		return l
	}
	if ext == "" {
		return "source"
	}
	return "." + ext
}
