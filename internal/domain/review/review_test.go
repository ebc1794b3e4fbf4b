package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanReview = `SCORE: 8
PURPOSE: HTTP handler for user signup.
QUALITY REVIEW:
Readable, small functions.
ARCHITECTURE REVIEW:
Handler talks to the repository directly.
SECURITY REVIEW:
Password is logged on error.
TECHNICAL DEBT:
No tests.
RECOMMENDATIONS:
1. Stop logging the password.
2. Add table tests.
3. Inject the repository.
4. Validate the email.
5. Return typed errors.`

func TestNormalize(t *testing.T) {
	raw := "## **Score:** 9/10\r\n" +
		"**Purpose**: CLI entry point\n\n\n" +
		"### Quality Review\n" +
		"- Uses `flag` well\n" +
		"* Long main function\n" +
		"Recommendations:\n" +
		"1) Split main\n" +
		"- 2: Add `--help` text\n" +
		"(3) Wrap errors\n"

	got := Normalize(raw)
	assert.Equal(t, `SCORE: 9/10
PURPOSE: CLI entry point

QUALITY REVIEW:
Uses flag well
Long main function
RECOMMENDATIONS:
1. Split main
2. Add --help text
3. Wrap errors`, got)
	require.NoError(t, Validate(got))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		cleanReview,
		"# Score: 3\n* item\n1) a\n\n\n> quoted\n__b__",
		"____Very bold____ and __init__ and __Mixed text__",
		"recommendations\n- 1. x\n  -  2) y",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"clean", cleanReview, nil},
		{"literal asterisk", "SCORE: 7\nQUALITY REVIEW:\nuses *ptr deref\nRECOMMENDATIONS:\n1. a", ErrMarkup},
		{"backtick", "SCORE: 7\nRECOMMENDATIONS:\n1. run `go vet`", ErrMarkup},
		{"no score", "PURPOSE: x\nRECOMMENDATIONS:\n1. a", ErrMissingMarker},
		{"no recommendations", "SCORE: 7\nPURPOSE: x", ErrMissingMarker},
		{"score mid-line does not count", "The SCORE: 7\nRECOMMENDATIONS:\n1. a", ErrMissingMarker},
		{"out of order", "SCORE: 7\nSECURITY REVIEW:\nx\nQUALITY REVIEW:\ny\nRECOMMENDATIONS:\n1. a", ErrSectionOrder},
		{"optional sections may be missing", "SCORE: 7\nRECOMMENDATIONS:\n1. a", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNormalize_UnderscoreEmphasis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"define __init__ on the class", "define __init__ on the class"},
		{"read x.__dict__ directly", "read x.__dict__ directly"},
		{"package __init__.py exports", "package __init__.py exports"},
		{"__post_init__ validates fields", "__post_init__ validates fields"},
		{"this is __very important__", "this is very important"},
		{"__Warning__: unsafe", "Warning: unsafe"},
		{"snake_case_name stays", "snake_case_name stays"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeKeepsSingleAsterisk(t *testing.T) {
	got := Normalize("SCORE: 6\nQUALITY REVIEW:\nthe *config* pointer is shared\nRECOMMENDATIONS:\n1. a")
	assert.ErrorIs(t, Validate(got), ErrMarkup)
}

func TestParse(t *testing.T) {
	r := Parse(cleanReview)

	assert.Equal(t, 8, r.Score)
	assert.Equal(t, "HTTP handler for user signup.", r.Purpose)
	assert.Equal(t, "Readable, small functions.", r.Quality)
	assert.Equal(t, "Handler talks to the repository directly.", r.Architecture)
	assert.Equal(t, "Password is logged on error.", r.Security)
	assert.Equal(t, "No tests.", r.Debt)
	assert.Equal(t, []string{
		"Stop logging the password.",
		"Add table tests.",
		"Inject the repository.",
		"Validate the email.",
		"Return typed errors.",
	}, r.Recommendations)
	assert.True(t, r.HasSecurityConcerns())
}

func TestParse_IdempotentOnCleanText(t *testing.T) {
	assert.Equal(t, Parse(cleanReview), Parse(Normalize(cleanReview)))
}

func TestParse_MissingSections(t *testing.T) {
	r := Parse("SCORE: 4\nRECOMMENDATIONS:\n1. one")
	assert.Equal(t, 4, r.Score)
	assert.Empty(t, r.Quality)
	assert.Empty(t, r.Security)
	assert.Empty(t, r.Purpose)
	assert.False(t, r.HasSecurityConcerns())
	assert.Equal(t, []string{"one"}, r.Recommendations)
}

func TestParse_SectionsDoNotBleed(t *testing.T) {
	r := Parse("SCORE: 5\nSECURITY REVIEW:\nRECOMMENDATIONS:\n1. a\nSECURITY REVIEW:\nlate")
	assert.Empty(t, r.Security)
	assert.Equal(t, []string{"a"}, r.Recommendations)
}

func TestParse_SecurityKeptAsExtracted(t *testing.T) {
	for _, body := range []string{"None.", "N/A", "No security concerns"} {
		r := Parse("SCORE: 9\nSECURITY REVIEW: " + body + "\nRECOMMENDATIONS:\n1. a")
		assert.Equal(t, body, r.Security)
		assert.True(t, r.HasSecurityConcerns(), body)
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"SCORE: 8", 8},
		{"SCORE:10/10", 10},
		{"SCORE: 0", 1},
		{"SCORE: 42", 10},
		{"SCORE: high", DefaultScore},
		{"no marker", DefaultScore},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseScore(tt.text), tt.text)
	}
}

func TestReviewAttempt(t *testing.T) {
	a := NewReviewAttempt(3)
	assert.Equal(t, Attempting, a.State())

	assert.Equal(t, Attempting, a.Record("SCORE: 7\n*bad*\nRECOMMENDATIONS:\n1. x"))
	assert.ErrorIs(t, a.Err(), ErrMarkup)
	assert.Equal(t, Valid, a.Record("**SCORE:** 7\nRECOMMENDATIONS:\n1. x"))
	assert.NoError(t, a.Err())
	assert.Equal(t, "SCORE: 7\nRECOMMENDATIONS:\n1. x", a.Text())

	// terminal states do not move
	assert.Equal(t, Valid, a.Record("garbage"))
	assert.Equal(t, 2, a.Count())
}

func TestReviewAttempt_Exhausts(t *testing.T) {
	a := NewReviewAttempt(3)
	for i := 0; i < 10 && a.State() == Attempting; i++ {
		a.Record("has a * in it")
	}
	assert.Equal(t, Exhausted, a.State())
	assert.Equal(t, 3, a.Count())
}
