// Package quiz implements the timed multiple-choice question shown
// between planets.
package quiz

import "fmt"

// Question is one multiple-choice question from a planet's bank.
type Question struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Answer  int      `yaml:"answer"` // Index into Options
}

// Validate reports a malformed question.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question has no text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q needs at least two options", q.Text)
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("question %q answer index %d out of range", q.Text, q.Answer)
	}
	return nil
}

// Result is the outcome of a quiz.
type Result int

const (
	ResultNone Result = iota
	ResultCorrect
	ResultIncorrect
	ResultTimeout
)

func (r Result) String() string {
	switch r {
	case ResultCorrect:
		return "correct"
	case ResultIncorrect:
		return "incorrect"
	case ResultTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// Phase is the quiz's position in its lifecycle.
type Phase int

const (
	PhaseAwaiting Phase = iota // Waiting for a selection
	PhaseResult                // Showing the outcome
	PhaseClosed                // Done; caller may move on
)

// Quiz tracks one question from presentation to completion.
// It is driven by Update and polled by the caller each frame.
type Quiz struct {
	question   Question
	selected   int
	result     Result
	phase      Phase
	answerLeft float64
	resultLeft float64
}

// New starts a quiz with the given answer and result-display windows.
func New(q Question, answerSeconds, resultSeconds float64) *Quiz {
	return &Quiz{
		question:   q,
		selected:   -1,
		answerLeft: answerSeconds,
		resultLeft: resultSeconds,
	}
}

// Select finalizes the answer. Only the first valid selection counts;
// it returns false when the selection was ignored.
func (q *Quiz) Select(option int) bool {
	if q.phase != PhaseAwaiting {
		return false
	}
	if option < 0 || option >= len(q.question.Options) {
		return false
	}

	q.selected = option
	if option == q.question.Answer {
		q.result = ResultCorrect
	} else {
		q.result = ResultIncorrect
	}
	q.phase = PhaseResult
	return true
}

// Update advances the quiz timers by dt seconds.
func (q *Quiz) Update(dt float64) {
	switch q.phase {
	case PhaseAwaiting:
		q.answerLeft -= dt
		if q.answerLeft <= 0 {
			q.answerLeft = 0
			q.result = ResultTimeout
			q.phase = PhaseResult
		}
	case PhaseResult:
		q.resultLeft -= dt
		if q.resultLeft <= 0 {
			q.resultLeft = 0
			q.phase = PhaseClosed
		}
	}
}

// Question returns the question being asked.
func (q *Quiz) Question() Question { return q.question }

// Selected returns the chosen option, or -1.
func (q *Quiz) Selected() int { return q.selected }

// Result returns the outcome so far.
func (q *Quiz) Result() Result { return q.result }

// Phase returns the current phase.
func (q *Quiz) Phase() Phase { return q.phase }

// TimeLeft returns the seconds remaining to answer.
func (q *Quiz) TimeLeft() float64 { return q.answerLeft }

// IsComplete reports whether the result window has elapsed.
func (q *Quiz) IsComplete() bool { return q.phase == PhaseClosed }

// IsCorrect reports whether the quiz was answered correctly.
func (q *Quiz) IsCorrect() bool { return q.result == ResultCorrect }
