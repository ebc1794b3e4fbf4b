package techstack

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

var (
	ErrManifestUnreadable  = errors.New("manifest unreadable")
	ErrManifestUnparseable = errors.New("manifest unparseable")
)

// Ecosystem identifies the package ecosystem a manifest belongs to.
type Ecosystem string

const (
	EcosystemNPM      Ecosystem = "npm"
	EcosystemPyPI     Ecosystem = "pypi"
	EcosystemGo       Ecosystem = "go"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemMaven    Ecosystem = "maven"
	EcosystemGradle   Ecosystem = "gradle"
	EcosystemComposer Ecosystem = "composer"
	EcosystemRubyGems Ecosystem = "rubygems"
	EcosystemPub      Ecosystem = "pub"
	EcosystemDocker   Ecosystem = "docker"
	EcosystemCompose  Ecosystem = "compose"
	EcosystemMake     Ecosystem = "make"
)

// manifestParser extracts lowercase dependency names from manifest content.
type manifestParser func(content string) ([]string, error)

type manifestKind struct {
	ecosystem Ecosystem
	parse     manifestParser
}

// manifestKinds is keyed by lowercase basename.
var manifestKinds = map[string]manifestKind{
	"package.json":        {EcosystemNPM, parsePackageJSON},
	"requirements.txt":    {EcosystemPyPI, parseRequirements},
	"pyproject.toml":      {EcosystemPyPI, parsePyProject},
	"pipfile":             {EcosystemPyPI, parsePipfile},
	"go.mod":              {EcosystemGo, parseGoMod},
	"cargo.toml":          {EcosystemCargo, parseCargo},
	"pom.xml":             {EcosystemMaven, parsePom},
	"build.gradle":        {EcosystemGradle, parseGradle},
	"build.gradle.kts":    {EcosystemGradle, parseGradle},
	"composer.json":       {EcosystemComposer, parseComposer},
	"gemfile":             {EcosystemRubyGems, parseGemfile},
	"pubspec.yaml":        {EcosystemPub, parsePubspec},
	"dockerfile":          {EcosystemDocker, parseDockerfile},
	"docker-compose.yml":  {EcosystemCompose, parseCompose},
	"docker-compose.yaml": {EcosystemCompose, parseCompose},
	"makefile":            {EcosystemMake, noDependencies},
}

// EcosystemOf reports the ecosystem of a manifest path, false when the file is
// a plain config file without detection rules.
func EcosystemOf(p string) (Ecosystem, bool) {
	k, ok := manifestKinds[strings.ToLower(path.Base(p))]
	return k.ecosystem, ok
}

// Dependencies parses the manifest at p.
func Dependencies(p, content string) (Ecosystem, []string, error) {
	k, ok := manifestKinds[strings.ToLower(path.Base(p))]
	if !ok {
		return "", nil, fmt.Errorf("%w: no parser for %s", ErrManifestUnparseable, p)
	}
	deps, err := k.parse(content)
	if err != nil {
		return k.ecosystem, nil, fmt.Errorf("%w: %s: %v", ErrManifestUnparseable, p, err)
	}
	for i := range deps {
		deps[i] = strings.ToLower(strings.TrimSpace(deps[i]))
	}
	return k.ecosystem, deps, nil
}

func noDependencies(string) ([]string, error) { return nil, nil }

func keys[V any](maps ...map[string]V) []string {
	var out []string
	for _, m := range maps {
		for k := range m {
			out = append(out, k)
		}
	}
	return out
}

func parsePackageJSON(content string) ([]string, error) {
	var pkg struct {
		Dependencies     map[string]string `json:"dependencies"`
		DevDependencies  map[string]string `json:"devDependencies"`
		PeerDependencies map[string]string `json:"peerDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	return keys(pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies), nil
}

func parseComposer(content string) ([]string, error) {
	var pkg struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	return keys(pkg.Require, pkg.RequireDev), nil
}

var requirementName = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)

// pep508Name trims version specifiers, extras and markers from a requirement.
func pep508Name(s string) string {
	m := requirementName.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	return m[1]
}

func parseRequirements(content string) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		if name := pep508Name(line); name != "" {
			out = append(out, name)
		}
	}
	return out, sc.Err()
}

func parsePyProject(content string) ([]string, error) {
	var doc struct {
		Project struct {
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	var out []string
	for _, d := range doc.Project.Dependencies {
		out = append(out, pep508Name(d))
	}
	for _, group := range doc.Project.OptionalDependencies {
		for _, d := range group {
			out = append(out, pep508Name(d))
		}
	}
	out = append(out, keys(doc.Tool.Poetry.Dependencies, doc.Tool.Poetry.DevDependencies)...)
	return out, nil
}

func parsePipfile(content string) ([]string, error) {
	var doc struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	return keys(doc.Packages, doc.DevPackages), nil
}

func parseCargo(content string) ([]string, error) {
	var doc struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	return keys(doc.Dependencies, doc.DevDependencies), nil
}

func parseGoMod(content string) ([]string, error) {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		out = append(out, r.Mod.Path)
	}
	return out, nil
}

func parsePom(content string) ([]string, error) {
	var pom struct {
		Parent struct {
			GroupID    string `xml:"groupId"`
			ArtifactID string `xml:"artifactId"`
		} `xml:"parent"`
		Dependencies []struct {
			GroupID    string `xml:"groupId"`
			ArtifactID string `xml:"artifactId"`
		} `xml:"dependencies>dependency"`
	}
	if err := xml.Unmarshal([]byte(content), &pom); err != nil {
		return nil, err
	}
	var out []string
	if pom.Parent.ArtifactID != "" {
		out = append(out, pom.Parent.ArtifactID)
	}
	for _, d := range pom.Dependencies {
		out = append(out, d.ArtifactID)
	}
	return out, nil
}

// implementation 'org.springframework.boot:spring-boot-starter-web:3.2.0'
var gradleCoordinate = regexp.MustCompile(`["']([A-Za-z0-9._-]+):([A-Za-z0-9._-]+)(?::[^"']*)?["']`)

func parseGradle(content string) ([]string, error) {
	var out []string
	for _, m := range gradleCoordinate.FindAllStringSubmatch(content, -1) {
		out = append(out, m[2])
	}
	return out, nil
}

var gemLine = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["']`)

func parseGemfile(content string) ([]string, error) {
	var out []string
	for _, m := range gemLine.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out, nil
}

func parsePubspec(content string) ([]string, error) {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	return keys(doc.Dependencies, doc.DevDependencies), nil
}

var fromLine = regexp.MustCompile(`(?mi)^\s*FROM\s+(?:--platform=\S+\s+)?(\S+)`)

func parseDockerfile(content string) ([]string, error) {
	var out []string
	for _, m := range fromLine.FindAllStringSubmatch(content, -1) {
		out = append(out, imageName(m[1]))
	}
	return out, nil
}

func parseCompose(content string) ([]string, error) {
	var doc struct {
		Services map[string]struct {
			Image string `yaml:"image"`
		} `yaml:"services"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	var out []string
	for _, svc := range doc.Services {
		if svc.Image != "" {
			out = append(out, imageName(svc.Image))
		}
	}
	return out, nil
}

// imageName reduces "docker.io/library/postgres:16-alpine" to "postgres".
func imageName(ref string) string {
	if i := strings.Index(ref, "@"); i >= 0 {
		ref = ref[:i]
	}
	ref = path.Base(ref)
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	return ref
}
