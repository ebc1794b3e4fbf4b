package techstack

import (
	"regexp"
	"strings"
)

// Finding is one secret signature hit inside a file.
type Finding struct {
	Path           string `json:"path"`
	Title          string `json:"title"`
	Sample         string `json:"sample"`
	Recommendation string `json:"recommendation"`
}

// Suggestion renders the finding as a report suggestion line.
func (f Finding) Suggestion() string {
	return f.Path + ": " + f.Title + ". " + f.Recommendation
}

type signature struct {
	re             *regexp.Regexp
	title          string
	recommendation string
}

// Only high-confidence signatures; generic "secret=" literals are too noisy to
// count as security issues.
var signatures = []signature{
	{regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), "Private key material committed", "Remove the key from the repository and rotate it."},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS access key exposed", "Revoke the key and load credentials from IAM roles or a secret manager."},
	{regexp.MustCompile(`(?i)aws_secret_access_key\s*[:=]\s*["']?[A-Za-z0-9/+=]{20,}`), "AWS secret access key exposed", "Rotate the secret and audit its usage."},
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{20,}`), "GitHub token exposed", "Revoke the token and inject it from CI secrets."},
	{regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), "GitHub PAT exposed", "Revoke the PAT and inject it from CI secrets."},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "Google API key exposed", "Restrict and rotate the key."},
	{regexp.MustCompile(`xox[baprs]-[A-Za-z0-9\-]{10,}`), "Slack token exposed", "Revoke the token in Slack admin."},
	{regexp.MustCompile(`sk_(?:live|test)_[0-9A-Za-z]{10,}`), "Stripe secret key exposed", "Rotate the key in the Stripe dashboard."},
	{regexp.MustCompile(`sk-(?:proj-)?[A-Za-z0-9_\-]{32,}`), "OpenAI API key exposed", "Revoke the key and read it from the environment."},
	{regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?bearer\s+[A-Za-z0-9\-._~+/]{16,}=*`), "Bearer token exposed", "Remove the token from source and rotate it."},
	{regexp.MustCompile(`[a-z][a-z0-9+.-]*://[^\s/:@"']+:[^\s/@"']+@`), "Credentials embedded in URL", "Pass credentials through configuration instead of URLs."},
}

// ScanSecrets returns one finding per signature that matches content.
func ScanSecrets(path, content string) []Finding {
	var out []Finding
	for _, s := range signatures {
		m := s.re.FindString(content)
		if m == "" {
			continue
		}
		out = append(out, Finding{
			Path:           path,
			Title:          s.title,
			Sample:         redact(m),
			Recommendation: s.recommendation,
		})
	}
	return out
}

// redact keeps a short prefix so reports never echo the credential itself.
func redact(s string) string {
	s = strings.TrimSpace(s)
	const keep = 6
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + strings.Repeat("*", min(len(s)-keep, 10))
}
