package quiz

import "strings"

// Response is the learner's raw submission. Exactly one field is meaningful
// for a given question variant; the matching strategy ignores the rest.
type Response struct {
	OptionID  string   `json:"option_id,omitempty"`
	OptionIDs []string `json:"option_ids,omitempty"`
	Bool      *bool    `json:"bool,omitempty"`
	Text      string   `json:"text,omitempty"`
}

// Verdict is the binary outcome plus the canonical presentation of the
// correct answer, rendered verbatim by the learner UI.
type Verdict struct {
	Correct              bool   `json:"correct"`
	CorrectAnswerDisplay string `json:"correct_answer_display"`
}

// Evaluator maps (question, response) to a Verdict. It is pure: no I/O, no
// retained state.
type Evaluator interface {
	Evaluate(q Question, resp Response) (Verdict, error)
}

type strategy interface {
	evaluate(q Question, resp Response) (Verdict, error)
}

type defaultEvaluator struct {
	strategies map[QuestionType]strategy
}

// NewEvaluator installs the built-in per-variant strategies.
func NewEvaluator() Evaluator {
	return &defaultEvaluator{
		strategies: map[QuestionType]strategy{
			TypeMultipleChoice: choiceStrategy{},
			TypeMultipleSelect: selectStrategy{},
			TypeTrueFalse:      boolStrategy{},
			TypeYesNoExplain:   boolStrategy{},
			TypeFillInTheBlank: blankStrategy{},
			TypeShortAnswer:    shortAnswerStrategy{},
			TypeRiskFactor:     riskFactorStrategy{},
		},
	}
}

// Evaluate re-checks the question's own invariants first: a persisted
// question that fails them is an authoring defect (IntegrityError), not an
// incorrect answer.
func (e *defaultEvaluator) Evaluate(q Question, resp Response) (Verdict, error) {
	if err := q.Validate(); err != nil {
		return Verdict{}, &IntegrityError{QuestionID: q.ID, Reason: err.Error()}
	}
	s, ok := e.strategies[q.Type]
	if !ok {
		return Verdict{}, &IntegrityError{QuestionID: q.ID, Reason: "no strategy for type " + string(q.Type)}
	}
	return s.evaluate(q, resp)
}

type choiceStrategy struct{}

func (choiceStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	if resp.OptionID == "" {
		return Verdict{}, ErrIncompleteResponse
	}
	p := q.Choice
	return Verdict{
		Correct:              resp.OptionID == p.CorrectOptionID,
		CorrectAnswerDisplay: optionText(p.Options, p.CorrectOptionID),
	}, nil
}

type selectStrategy struct{}

func (selectStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	if len(resp.OptionIDs) == 0 {
		return Verdict{}, ErrIncompleteResponse
	}
	p := q.Select
	return Verdict{
		Correct:              sameIDSet(resp.OptionIDs, p.CorrectOptionIDs),
		CorrectAnswerDisplay: joinTexts(p.Options, p.CorrectOptionIDs),
	}, nil
}

type boolStrategy struct{}

func (boolStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	if resp.Bool == nil {
		return Verdict{}, ErrIncompleteResponse
	}
	display := "False"
	if q.Bool.CorrectBool {
		display = "True"
	}
	return Verdict{
		Correct:              *resp.Bool == q.Bool.CorrectBool,
		CorrectAnswerDisplay: display,
	}, nil
}

type blankStrategy struct{}

func (blankStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	trimmed := strings.TrimSpace(resp.Text)
	if trimmed == "" {
		return Verdict{}, ErrIncompleteResponse
	}
	// Exact match, case-sensitive. The stored target is assumed pre-trimmed.
	return Verdict{
		Correct:              trimmed == q.Blank.CorrectText,
		CorrectAnswerDisplay: q.Blank.CorrectText,
	}, nil
}

type shortAnswerStrategy struct{}

func (shortAnswerStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	if strings.TrimSpace(resp.Text) == "" {
		return Verdict{}, ErrIncompleteResponse
	}
	// Self-assessed against the model answer; always marked correct.
	return Verdict{Correct: true, CorrectAnswerDisplay: q.ShortAnswer.ModelAnswer}, nil
}

type riskFactorStrategy struct{}

func (riskFactorStrategy) evaluate(q Question, resp Response) (Verdict, error) {
	if len(resp.OptionIDs) == 0 {
		return Verdict{}, ErrIncompleteResponse
	}
	p := q.RiskFactor
	return Verdict{
		Correct:              sameIDSet(resp.OptionIDs, p.CorrectFactorIDs),
		CorrectAnswerDisplay: joinTexts(p.RiskFactors, p.CorrectFactorIDs),
	}, nil
}

func optionText(opts []Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Text
		}
	}
	return ""
}

// joinTexts renders the texts of the given ids in options-list order.
func joinTexts(opts []Option, ids []string) string {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	parts := make([]string, 0, len(ids))
	for _, o := range opts {
		if _, ok := want[o.ID]; ok {
			parts = append(parts, o.Text)
		}
	}
	return strings.Join(parts, ", ")
}

// sameIDSet compares as sets: same cardinality, every member present.
// Partial overlap is not partial credit.
func sameIDSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, id := range a {
		as[id] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, id := range b {
		bs[id] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}
