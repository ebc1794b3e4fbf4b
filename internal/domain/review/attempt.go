package review

// State of a ReviewAttempt.
type State int

const (
	Attempting State = iota
	Valid
	Exhausted
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Valid:
		return "valid"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// ReviewAttempt tracks the validate-and-retry loop for one file. It only
// leaves Attempting for Valid or Exhausted and never goes back.
type ReviewAttempt struct {
	max   int
	count int
	state State
	text  string
	err   error
}

func NewReviewAttempt(maxAttempts int) *ReviewAttempt {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ReviewAttempt{max: maxAttempts}
}

// Record normalizes and validates one raw response and advances the state.
func (a *ReviewAttempt) Record(raw string) State {
	if a.state != Attempting {
		return a.state
	}
	a.count++
	a.text = Normalize(raw)
	a.err = Validate(a.text)
	switch {
	case a.err == nil:
		a.state = Valid
	case a.count >= a.max:
		a.state = Exhausted
	}
	return a.state
}

func (a *ReviewAttempt) State() State { return a.state }
func (a *ReviewAttempt) Count() int   { return a.count }

// Text is the last normalized response.
func (a *ReviewAttempt) Text() string { return a.text }

// Err is the validation error of the last response, nil once Valid.
func (a *ReviewAttempt) Err() error { return a.err }
