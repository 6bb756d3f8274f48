package quiz

import "testing"

func sample() Question {
	return Question{
		Text:    "How many moons does Earth have?",
		Options: []string{"None", "One", "Two", "Four"},
		Answer:  1,
	}
}

func TestCorrectAnswer(t *testing.T) {
	q := New(sample(), 10, 2)

	if !q.Select(1) {
		t.Fatal("first selection should be accepted")
	}
	if q.Result() != ResultCorrect || !q.IsCorrect() {
		t.Errorf("Result() = %v, expected correct", q.Result())
	}
	if q.IsComplete() {
		t.Error("quiz should show the result before completing")
	}

	q.Update(2)
	if !q.IsComplete() {
		t.Error("quiz should complete after the result window")
	}
}

func TestSelectionIsFinal(t *testing.T) {
	q := New(sample(), 10, 2)
	q.Select(0)

	if q.Select(1) {
		t.Error("second selection should be ignored")
	}
	if q.Result() != ResultIncorrect || q.Selected() != 0 {
		t.Errorf("answer changed: result=%v selected=%d", q.Result(), q.Selected())
	}
}

func TestSelectOutOfRange(t *testing.T) {
	q := New(sample(), 10, 2)
	for _, i := range []int{-1, 4, 99} {
		if q.Select(i) {
			t.Errorf("Select(%d) should be rejected", i)
		}
	}
	if q.Phase() != PhaseAwaiting {
		t.Error("invalid selections must not finalize the quiz")
	}
}

func TestTimeout(t *testing.T) {
	q := New(sample(), 1, 0.5)
	dt := 1.0 / 60.0

	for i := 0; i < 59; i++ {
		q.Update(dt)
	}
	if q.Phase() != PhaseAwaiting {
		t.Fatal("quiz timed out early")
	}

	for i := 0; i < 2; i++ {
		q.Update(dt)
	}
	if q.Result() != ResultTimeout {
		t.Fatalf("Result() = %v, expected timeout", q.Result())
	}
	if q.IsCorrect() {
		t.Error("timeout must never count as correct")
	}

	// Selecting after the timer expired changes nothing.
	q.Select(1)
	if q.Result() != ResultTimeout {
		t.Error("late selection overrode the timeout")
	}

	q.Update(0.5)
	if !q.IsComplete() {
		t.Error("quiz should complete after the result window")
	}
}

func TestQuestionValidate(t *testing.T) {
	bad := []Question{
		{Text: "", Options: []string{"a", "b"}},
		{Text: "q", Options: []string{"a"}},
		{Text: "q", Options: []string{"a", "b"}, Answer: 2},
	}
	for _, q := range bad {
		if q.Validate() == nil {
			t.Errorf("expected validation error for %+v", q)
		}
	}
	if err := sample().Validate(); err != nil {
		t.Errorf("valid question rejected: %v", err)
	}
}
