package quiz

// QuestionType tags the variant a Question carries. The tag is immutable
// after creation; changing a question's shape is delete + recreate.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TypeMultipleSelect QuestionType = "MULTIPLE_SELECT"
	TypeTrueFalse      QuestionType = "TRUE_FALSE"
	TypeYesNoExplain   QuestionType = "YES_NO_EXPLAIN"
	TypeFillInTheBlank QuestionType = "FILL_IN_THE_BLANK"
	TypeShortAnswer    QuestionType = "SHORT_ANSWER"
	TypeRiskFactor     QuestionType = "RISK_FACTOR"
)

// typeWhatIsNext is a legacy alias found in old question exports.
// It is normalized to MULTIPLE_CHOICE at the storage boundary.
const typeWhatIsNext QuestionType = "WHAT_IS_NEXT"

// Option is one selectable answer. IDs are unique within a single
// options / risk-factors list, not globally.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Case is a themed collection of ordered questions.
type Case struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ChoicePayload struct {
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correct_option_id"`
}

type SelectPayload struct {
	Options          []Option `json:"options"`
	CorrectOptionIDs []string `json:"correct_option_ids"`
}

type BoolPayload struct {
	CorrectBool bool `json:"correct_bool"`
}

type BlankPayload struct {
	CorrectText string `json:"correct_text"`
}

type ShortAnswerPayload struct {
	ModelAnswer string `json:"model_answer"`
}

type RiskFactorPayload struct {
	RiskFactors      []Option `json:"risk_factors"`
	CorrectFactorIDs []string `json:"correct_factor_ids"`
}

// Question is a tagged union: exactly one payload pointer is populated,
// and it must match Type. Validate enforces this.
type Question struct {
	ID          string       `json:"id"`
	CaseID      string       `json:"case_id"`
	OrderIndex  int          `json:"order_index"`
	Type        QuestionType `json:"type"`
	Text        string       `json:"text"`
	Explanation string       `json:"explanation,omitempty"`

	Choice      *ChoicePayload      `json:"choice,omitempty"`
	Select      *SelectPayload      `json:"select,omitempty"`
	Bool        *BoolPayload        `json:"bool,omitempty"`
	Blank       *BlankPayload       `json:"blank,omitempty"`
	ShortAnswer *ShortAnswerPayload `json:"short_answer,omitempty"`
	RiskFactor  *RiskFactorPayload  `json:"risk_factor,omitempty"`
}

// Normalize rewrites legacy type aliases in place. Call after decoding
// records from an external store, before Validate.
func (q *Question) Normalize() {
	if q.Type == typeWhatIsNext {
		q.Type = TypeMultipleChoice
	}
}

// Options returns the selectable list for variants that have one, in
// presentation order.
func (q *Question) Options() []Option {
	switch q.Type {
	case TypeMultipleChoice:
		if q.Choice != nil {
			return q.Choice.Options
		}
	case TypeMultipleSelect:
		if q.Select != nil {
			return q.Select.Options
		}
	case TypeRiskFactor:
		if q.RiskFactor != nil {
			return q.RiskFactor.RiskFactors
		}
	}
	return nil
}

// RemoveOption deletes an option from the question's list and scrubs the
// id from the correctness set that referenced it. No-op for variants
// without options.
func (q *Question) RemoveOption(optionID string) {
	switch q.Type {
	case TypeMultipleChoice:
		if q.Choice == nil {
			return
		}
		q.Choice.Options = dropOption(q.Choice.Options, optionID)
		if q.Choice.CorrectOptionID == optionID {
			q.Choice.CorrectOptionID = ""
		}
	case TypeMultipleSelect:
		if q.Select == nil {
			return
		}
		q.Select.Options = dropOption(q.Select.Options, optionID)
		q.Select.CorrectOptionIDs = dropID(q.Select.CorrectOptionIDs, optionID)
	case TypeRiskFactor:
		if q.RiskFactor == nil {
			return
		}
		q.RiskFactor.RiskFactors = dropOption(q.RiskFactor.RiskFactors, optionID)
		q.RiskFactor.CorrectFactorIDs = dropID(q.RiskFactor.CorrectFactorIDs, optionID)
	}
}

// Stripped returns a copy safe to serve to learners: option lists survive,
// correctness fields and model answers do not.
func (q Question) Stripped() Question {
	out := q
	out.Explanation = ""
	switch {
	case q.Choice != nil:
		out.Choice = &ChoicePayload{Options: q.Choice.Options}
	case q.Select != nil:
		out.Select = &SelectPayload{Options: q.Select.Options}
	case q.Bool != nil:
		out.Bool = &BoolPayload{}
	case q.Blank != nil:
		out.Blank = &BlankPayload{}
	case q.ShortAnswer != nil:
		out.ShortAnswer = &ShortAnswerPayload{}
	case q.RiskFactor != nil:
		out.RiskFactor = &RiskFactorPayload{RiskFactors: q.RiskFactor.RiskFactors}
	}
	return out
}

func dropOption(opts []Option, id string) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func dropID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
