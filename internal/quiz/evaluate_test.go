package quiz_test

import (
	"errors"
	"testing"

	"github.com/Barbenshi/HOD/internal/quiz"
)

func boolPtr(b bool) *bool { return &b }

func mcq(id string) quiz.Question {
	return quiz.Question{
		ID:     id,
		CaseID: "c1",
		Type:   quiz.TypeMultipleChoice,
		Text:   "Which drug is first line?",
		Choice: &quiz.ChoicePayload{
			Options: []quiz.Option{
				{ID: "a", Text: "Aspirin"},
				{ID: "b", Text: "Heparin"},
				{ID: "c", Text: "Warfarin"},
			},
			CorrectOptionID: "b",
		},
	}
}

func msq(id string, correct ...string) quiz.Question {
	return quiz.Question{
		ID:     id,
		CaseID: "c1",
		Type:   quiz.TypeMultipleSelect,
		Text:   "Select all that apply",
		Select: &quiz.SelectPayload{
			Options: []quiz.Option{
				{ID: "a", Text: "Fever"},
				{ID: "b", Text: "Cough"},
				{ID: "c", Text: "Rash"},
				{ID: "d", Text: "Nausea"},
			},
			CorrectOptionIDs: correct,
		},
	}
}

func TestEvaluateMultipleChoice(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := mcq("q1")

	v, err := eval.Evaluate(q, quiz.Response{OptionID: "b"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Correct {
		t.Error("expected correct for matching option id")
	}
	if v.CorrectAnswerDisplay != "Heparin" {
		t.Errorf("display = %q, want %q", v.CorrectAnswerDisplay, "Heparin")
	}

	v, err = eval.Evaluate(q, quiz.Response{OptionID: "a"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Correct {
		t.Error("expected incorrect for wrong option id")
	}
}

func TestEvaluateMultipleSelectExactSet(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := msq("q1", "a", "c")

	cases := []struct {
		name    string
		picked  []string
		correct bool
	}{
		{"exact match", []string{"a", "c"}, true},
		{"exact match reordered", []string{"c", "a"}, true},
		{"subset", []string{"a"}, false},
		{"superset", []string{"a", "c", "b"}, false},
		{"disjoint", []string{"b", "d"}, false},
		{"partial overlap", []string{"a", "b"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := eval.Evaluate(q, quiz.Response{OptionIDs: tc.picked})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if v.Correct != tc.correct {
				t.Errorf("picked %v: correct = %v, want %v", tc.picked, v.Correct, tc.correct)
			}
		})
	}

	v, _ := eval.Evaluate(q, quiz.Response{OptionIDs: []string{"a", "c"}})
	if v.CorrectAnswerDisplay != "Fever, Rash" {
		t.Errorf("display = %q, want options-list order %q", v.CorrectAnswerDisplay, "Fever, Rash")
	}
}

func TestEvaluateTrueFalse(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := quiz.Question{
		ID: "q1", CaseID: "c1", Type: quiz.TypeTrueFalse,
		Text: "The patient is stable",
		Bool: &quiz.BoolPayload{CorrectBool: true},
	}

	v, err := eval.Evaluate(q, quiz.Response{Bool: boolPtr(true)})
	if err != nil || !v.Correct {
		t.Fatalf("true should be correct, got %+v err=%v", v, err)
	}
	if v.CorrectAnswerDisplay != "True" {
		t.Errorf("display = %q", v.CorrectAnswerDisplay)
	}
	v, _ = eval.Evaluate(q, quiz.Response{Bool: boolPtr(false)})
	if v.Correct {
		t.Error("false should be incorrect")
	}
}

func TestEvaluateYesNoExplainSameAsTrueFalse(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := quiz.Question{
		ID: "q1", CaseID: "c1", Type: quiz.TypeYesNoExplain,
		Text:        "Would you intubate?",
		Explanation: "Airway is compromised.",
		Bool:        &quiz.BoolPayload{CorrectBool: false},
	}
	v, err := eval.Evaluate(q, quiz.Response{Bool: boolPtr(false)})
	if err != nil || !v.Correct {
		t.Fatalf("got %+v err=%v", v, err)
	}
	if v.CorrectAnswerDisplay != "False" {
		t.Errorf("display = %q", v.CorrectAnswerDisplay)
	}
}

func TestEvaluateFillInTheBlank(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := quiz.Question{
		ID: "q1", CaseID: "c1", Type: quiz.TypeFillInTheBlank,
		Text:  "Name the causative organism",
		Blank: &quiz.BlankPayload{CorrectText: "answer"},
	}

	for _, text := range []string{"answer", " answer ", "\tanswer\n"} {
		v, err := eval.Evaluate(q, quiz.Response{Text: text})
		if err != nil {
			t.Fatalf("evaluate %q: %v", text, err)
		}
		if !v.Correct {
			t.Errorf("%q should be correct (whitespace-insensitive)", text)
		}
	}
	// Case-sensitive, no normalization.
	v, _ := eval.Evaluate(q, quiz.Response{Text: "Answer"})
	if v.Correct {
		t.Error("case mismatch should be incorrect")
	}
	if v.CorrectAnswerDisplay != "answer" {
		t.Errorf("display = %q", v.CorrectAnswerDisplay)
	}
}

func TestEvaluateShortAnswerAlwaysCorrect(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := quiz.Question{
		ID: "q1", CaseID: "c1", Type: quiz.TypeShortAnswer,
		Text:        "Describe your management plan",
		ShortAnswer: &quiz.ShortAnswerPayload{ModelAnswer: "IV fluids and monitoring"},
	}
	for _, text := range []string{"anything", "totally wrong", "x"} {
		v, err := eval.Evaluate(q, quiz.Response{Text: text})
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if !v.Correct {
			t.Errorf("%q: short answer is always correct", text)
		}
		if v.CorrectAnswerDisplay != "IV fluids and monitoring" {
			t.Errorf("display = %q", v.CorrectAnswerDisplay)
		}
	}
}

func TestEvaluateRiskFactorExactSet(t *testing.T) {
	eval := quiz.NewEvaluator()
	q := quiz.Question{
		ID: "q1", CaseID: "c1", Type: quiz.TypeRiskFactor,
		Text: "Pick the patient's risk factors",
		RiskFactor: &quiz.RiskFactorPayload{
			RiskFactors: []quiz.Option{
				{ID: "smoking", Text: "Smoking"},
				{ID: "htn", Text: "Hypertension"},
				{ID: "age", Text: "Age over 65"},
			},
			CorrectFactorIDs: []string{"smoking", "htn"},
		},
	}
	v, err := eval.Evaluate(q, quiz.Response{OptionIDs: []string{"htn", "smoking"}})
	if err != nil || !v.Correct {
		t.Fatalf("got %+v err=%v", v, err)
	}
	if v.CorrectAnswerDisplay != "Smoking, Hypertension" {
		t.Errorf("display = %q", v.CorrectAnswerDisplay)
	}
	v, _ = eval.Evaluate(q, quiz.Response{OptionIDs: []string{"smoking"}})
	if v.Correct {
		t.Error("subset is not partial credit")
	}
}

func TestEvaluateIncompleteResponse(t *testing.T) {
	eval := quiz.NewEvaluator()
	cases := []struct {
		name string
		q    quiz.Question
		resp quiz.Response
	}{
		{"choice no pick", mcq("q1"), quiz.Response{}},
		{"select empty", msq("q1", "a"), quiz.Response{OptionIDs: nil}},
		{"blank whitespace", quiz.Question{
			ID: "q1", CaseID: "c1", Type: quiz.TypeFillInTheBlank,
			Text: "t", Blank: &quiz.BlankPayload{CorrectText: "x"},
		}, quiz.Response{Text: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eval.Evaluate(tc.q, tc.resp)
			if !errors.Is(err, quiz.ErrIncompleteResponse) {
				t.Errorf("err = %v, want ErrIncompleteResponse", err)
			}
		})
	}
}

func TestEvaluateIntegrityErrorDistinctFromIncorrect(t *testing.T) {
	eval := quiz.NewEvaluator()
	// Persisted question with an empty correctness set: authoring defect.
	q := msq("q-broken")

	_, err := eval.Evaluate(q, quiz.Response{OptionIDs: []string{"a"}})
	var ie *quiz.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want IntegrityError", err)
	}
	if ie.QuestionID != "q-broken" {
		t.Errorf("QuestionID = %q", ie.QuestionID)
	}
}
