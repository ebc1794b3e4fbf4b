package repos

import (
	"path"
	"sort"
	"strings"
)

// MaxFileSize is the size ceiling in bytes; anything larger is ignored.
const MaxFileSize int64 = 100_000

var excludedSegments = map[string]bool{
	"node_modules": true, "bower_components": true, "vendor": true,
	".git": true, ".svn": true, ".hg": true,
	"dist": true, "build": true, "out": true, "target": true, "coverage": true,
	"__pycache__": true, ".next": true, ".nuxt": true, ".venv": true, "venv": true,
	".gradle": true, ".idea": true, ".vscode": true,
}

var codeExtensions = map[string]bool{
	"js": true, "jsx": true, "ts": true, "tsx": true, "mjs": true, "cjs": true,
	"py": true, "java": true, "kt": true, "scala": true, "go": true, "rs": true,
	"c": true, "h": true, "cpp": true, "cc": true, "hpp": true, "cs": true,
	"php": true, "rb": true, "swift": true, "m": true, "dart": true,
	"vue": true, "svelte": true, "sql": true, "sh": true, "lua": true, "ex": true, "exs": true,
}

var configExtensions = map[string]bool{
	"json": true, "yaml": true, "yml": true, "toml": true, "xml": true,
	"ini": true, "gradle": true, "lock": true, "cfg": true, "env": true,
}

var docExtensions = map[string]bool{
	"md": true, "mdx": true, "rst": true, "txt": true, "adoc": true,
}

// manifestNames are top-level dependency/build files matched by basename.
var manifestNames = map[string]bool{
	"package.json":        true,
	"requirements.txt":    true,
	"pyproject.toml":      true,
	"pipfile":             true,
	"go.mod":              true,
	"cargo.toml":          true,
	"pom.xml":             true,
	"build.gradle":        true,
	"build.gradle.kts":    true,
	"composer.json":       true,
	"gemfile":             true,
	"pubspec.yaml":        true,
	"dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	"makefile":            true,
}

// Classification is the partition produced by Classify. Every slice is sorted by path.
type Classification struct {
	Code      []FileCandidate
	Manifests []FileCandidate
	Docs      []FileCandidate
	Ignored   int
}

// Relevant returns the code+manifest union, the set the pipeline reports as "files".
func (c Classification) Relevant() int {
	return len(c.Code) + len(c.Manifests)
}

// Classify partitions the raw listing. It is pure and its output does not depend
// on the order of entries.
func Classify(entries []TreeEntry) Classification {
	var out Classification
	for _, e := range entries {
		fc := ClassifyEntry(e)
		switch fc.Kind {
		case KindCode:
			out.Code = append(out.Code, fc)
		case KindManifest:
			out.Manifests = append(out.Manifests, fc)
		case KindDoc:
			out.Docs = append(out.Docs, fc)
		default:
			out.Ignored++
		}
	}
	sortByPath(out.Code)
	sortByPath(out.Manifests)
	sortByPath(out.Docs)
	return out
}

// ClassifyEntry applies the exclusion rules in order, then the extension/name rules.
func ClassifyEntry(e TreeEntry) FileCandidate {
	fc := FileCandidate{Path: e.Path, Size: e.Size, Extension: Extension(e.Path), Kind: KindIgnored}

	if e.Type != EntryBlob {
		return fc
	}
	if hasExcludedSegment(e.Path) {
		return fc
	}
	if e.Size > MaxFileSize {
		return fc
	}

	base := strings.ToLower(path.Base(e.Path))
	switch {
	case codeExtensions[fc.Extension]:
		fc.Kind = KindCode
	case manifestNames[base] || configExtensions[fc.Extension]:
		fc.Kind = KindManifest
	case docExtensions[fc.Extension]:
		fc.Kind = KindDoc
	}
	return fc
}

// Extension returns the lowercase extension without the dot ("" when none).
func Extension(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func hasExcludedSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if excludedSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

func sortByPath(fs []FileCandidate) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Path < fs[j].Path })
}
