package quiz

// SessionState is the phase of a learner's single-pass traversal.
type SessionState string

const (
	StateEmpty     SessionState = "empty"     // terminal: snapshot had no questions
	StateAnswering SessionState = "answering" // current question accepts a submission
	StateLocked    SessionState = "locked"    // current question evaluated, advancement unlocked
	StateFinished  SessionState = "finished"  // terminal: summary available
)

// Outcome is the verdict recorded for one answered index.
type Outcome struct {
	Correct bool `json:"correct"`
}

// Summary aggregates a finished session. Unanswered indices are excluded,
// so CorrectCount+IncorrectCount equals the number of answered questions.
type Summary struct {
	CorrectCount   int    `json:"correct_count"`
	IncorrectCount int    `json:"incorrect_count"`
	Total          int    `json:"total"`
	Grade          string `json:"grade"`
}

// Session drives one learner through a snapshot of ordered questions.
// It is single-consumer: callers must serialize access. Authoring edits made
// after the snapshot is taken are invisible to the session.
type Session struct {
	questions []Question
	cursor    int
	state     SessionState
	answers   map[int]Outcome
	eval      Evaluator
}

// NewSession snapshots the given ordered questions. An empty snapshot
// yields the terminal Empty state, which permits no operation.
func NewSession(questions []Question) *Session {
	return NewSessionWithEvaluator(questions, NewEvaluator())
}

func NewSessionWithEvaluator(questions []Question, eval Evaluator) *Session {
	s := &Session{
		questions: append([]Question(nil), questions...),
		answers:   make(map[int]Outcome),
		eval:      eval,
		state:     StateAnswering,
	}
	if len(s.questions) == 0 {
		s.state = StateEmpty
	}
	return s
}

func (s *Session) State() SessionState { return s.state }

// Cursor is the 0-based index of the current question.
func (s *Session) Cursor() int { return s.cursor }

func (s *Session) Len() int { return len(s.questions) }

// Current returns the question under the cursor. ok is false in terminal
// states.
func (s *Session) Current() (Question, bool) {
	if s.state != StateAnswering && s.state != StateLocked {
		return Question{}, false
	}
	return s.questions[s.cursor], true
}

// Outcome reports the recorded verdict for an index, if any.
func (s *Session) Outcome(index int) (Outcome, bool) {
	o, ok := s.answers[index]
	return o, ok
}

// Submit evaluates the learner's response for the current question and
// locks it. Valid only while Answering. An incomplete response causes no
// transition and returns ErrIncompleteResponse; an IntegrityError from the
// evaluator likewise leaves the state untouched so the caller can surface
// the authoring defect separately from learner feedback.
//
// Re-submitting the same index after Retreat overwrites that index's
// recorded outcome.
func (s *Session) Submit(resp Response) (Verdict, error) {
	if s.state != StateAnswering {
		return Verdict{}, &IllegalTransitionError{State: s.state, Op: "submit"}
	}
	v, err := s.eval.Evaluate(s.questions[s.cursor], resp)
	if err != nil {
		return Verdict{}, err
	}
	s.answers[s.cursor] = Outcome{Correct: v.Correct}
	s.state = StateLocked
	return v, nil
}

// Advance moves past a locked question, finishing the session after the
// last index.
func (s *Session) Advance() error {
	if s.state != StateLocked {
		return &IllegalTransitionError{State: s.state, Op: "advance"}
	}
	if s.cursor+1 < len(s.questions) {
		s.cursor++
		s.state = StateAnswering
		return nil
	}
	s.state = StateFinished
	return nil
}

// Retreat steps back one question, clearing the lock for the index now
// current. The outcome previously recorded there survives until the learner
// re-submits it.
func (s *Session) Retreat() error {
	if s.state != StateAnswering && s.state != StateLocked {
		return &IllegalTransitionError{State: s.state, Op: "retreat"}
	}
	if s.cursor == 0 {
		return &IllegalTransitionError{State: s.state, Op: "retreat"}
	}
	s.cursor--
	s.state = StateAnswering
	return nil
}

// Summary folds the recorded outcomes. Valid only once Finished.
func (s *Session) Summary() (Summary, error) {
	if s.state != StateFinished {
		return Summary{}, &IllegalTransitionError{State: s.state, Op: "summary"}
	}
	correct := 0
	answered := 0
	for _, o := range s.answers {
		answered++
		if o.Correct {
			correct++
		}
	}
	sum := Summary{
		CorrectCount:   correct,
		IncorrectCount: answered - correct,
		Total:          len(s.questions),
	}
	switch {
	case correct == sum.Total:
		sum.Grade = "perfect"
	case correct*2 > sum.Total:
		sum.Grade = "good"
	default:
		sum.Grade = "try_again"
	}
	return sum, nil
}
