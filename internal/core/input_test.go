package core

import "testing"

func TestInputFrameAnswer(t *testing.T) {
	f := NewInputFrame()
	if f.Answer() != -1 {
		t.Errorf("empty frame should have no answer, got %d", f.Answer())
	}

	f.Set(ActionAnswer3)
	if f.Answer() != 2 {
		t.Errorf("Answer() = %d, expected 2", f.Answer())
	}

	if ActionThrust.AnswerIndex() != -1 {
		t.Error("non-answer actions should map to -1")
	}
}

func TestInputFrameClickAndClear(t *testing.T) {
	f := NewInputFrame()
	f.SetClick(12, 7)

	if !f.Has(ActionClick) || f.ClickX != 12 || f.ClickY != 7 {
		t.Fatalf("click not recorded: %+v", f)
	}

	clone := f.Clone()
	f.Clear()

	if f.Has(ActionClick) || f.ClickX != 0 || f.ClickY != 0 {
		t.Error("Clear should drop actions and click position")
	}
	if !clone.Has(ActionClick) || clone.ClickX != 12 {
		t.Error("Clone should be independent of the original")
	}
}
