package quiz

import "strings"

// Validate checks the question against its variant invariants. A question
// that fails validation must not be persisted; callers keep the previous
// value on error.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return invalidf("question text must not be empty")
	}
	if q.CaseID == "" {
		return invalidf("question must belong to a case")
	}
	if n := q.payloadCount(); n != 1 {
		return invalidf("exactly one variant payload required, got %d", n)
	}

	switch q.Type {
	case TypeMultipleChoice:
		if q.Choice == nil {
			return invalidf("%s requires a choice payload", q.Type)
		}
		if err := validateOptions(q.Choice.Options); err != nil {
			return err
		}
		if q.Choice.CorrectOptionID == "" {
			return invalidf("correct option id must be set")
		}
		if !hasOption(q.Choice.Options, q.Choice.CorrectOptionID) {
			return invalidf("correct option id %q not in options", q.Choice.CorrectOptionID)
		}
	case TypeMultipleSelect:
		if q.Select == nil {
			return invalidf("%s requires a select payload", q.Type)
		}
		if err := validateOptions(q.Select.Options); err != nil {
			return err
		}
		if err := validateCorrectSet(q.Select.CorrectOptionIDs, q.Select.Options); err != nil {
			return err
		}
	case TypeTrueFalse:
		if q.Bool == nil {
			return invalidf("%s requires a bool payload", q.Type)
		}
	case TypeYesNoExplain:
		if q.Bool == nil {
			return invalidf("%s requires a bool payload", q.Type)
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return invalidf("%s requires an explanation", q.Type)
		}
	case TypeFillInTheBlank:
		if q.Blank == nil {
			return invalidf("%s requires a blank payload", q.Type)
		}
		if q.Blank.CorrectText == "" {
			return invalidf("correct text must not be empty")
		}
	case TypeShortAnswer:
		if q.ShortAnswer == nil {
			return invalidf("%s requires a short-answer payload", q.Type)
		}
		if strings.TrimSpace(q.ShortAnswer.ModelAnswer) == "" {
			return invalidf("model answer must not be empty")
		}
	case TypeRiskFactor:
		if q.RiskFactor == nil {
			return invalidf("%s requires a risk-factor payload", q.Type)
		}
		if err := validateOptions(q.RiskFactor.RiskFactors); err != nil {
			return err
		}
		if err := validateCorrectSet(q.RiskFactor.CorrectFactorIDs, q.RiskFactor.RiskFactors); err != nil {
			return err
		}
	default:
		return invalidf("unknown question type %q", q.Type)
	}
	return nil
}

func (q *Question) payloadCount() int {
	n := 0
	if q.Choice != nil {
		n++
	}
	if q.Select != nil {
		n++
	}
	if q.Bool != nil {
		n++
	}
	if q.Blank != nil {
		n++
	}
	if q.ShortAnswer != nil {
		n++
	}
	if q.RiskFactor != nil {
		n++
	}
	return n
}

func validateOptions(opts []Option) error {
	if len(opts) < 2 {
		return invalidf("at least 2 options required, got %d", len(opts))
	}
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if o.ID == "" {
			return invalidf("option id must not be empty")
		}
		if strings.TrimSpace(o.Text) == "" {
			return invalidf("option %q text must not be empty", o.ID)
		}
		if _, dup := seen[o.ID]; dup {
			return invalidf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}

func validateCorrectSet(ids []string, opts []Option) error {
	if len(ids) == 0 {
		return invalidf("correct set must not be empty")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalidf("duplicate id %q in correct set", id)
		}
		seen[id] = struct{}{}
		if !hasOption(opts, id) {
			return invalidf("correct id %q not in options", id)
		}
	}
	return nil
}

func hasOption(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
