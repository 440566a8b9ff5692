package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLStore persists cases and questions via database/sql. The SQL stays
// driver-agnostic so it works on both sqlite (modernc) and Postgres (pgx).
//
// Variant payloads are stored as a single JSON text column; this is the one
// place where options and correctness sets exist in serialized form. Rows
// are decoded into structured payloads before leaving this package.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// payloadRecord is the stored shape of the variant-specific fields.
type payloadRecord struct {
	Choice      *ChoicePayload      `json:"choice,omitempty"`
	Select      *SelectPayload      `json:"select,omitempty"`
	Bool        *BoolPayload        `json:"bool,omitempty"`
	Blank       *BlankPayload       `json:"blank,omitempty"`
	ShortAnswer *ShortAnswerPayload `json:"short_answer,omitempty"`
	RiskFactor  *RiskFactorPayload  `json:"risk_factor,omitempty"`
}

func encodePayload(q Question) (string, error) {
	rec := payloadRecord{
		Choice:      q.Choice,
		Select:      q.Select,
		Bool:        q.Bool,
		Blank:       q.Blank,
		ShortAnswer: q.ShortAnswer,
		RiskFactor:  q.RiskFactor,
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func decodePayload(q *Question, raw string) error {
	var rec payloadRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return err
	}
	q.Choice = rec.Choice
	q.Select = rec.Select
	q.Bool = rec.Bool
	q.Blank = rec.Blank
	q.ShortAnswer = rec.ShortAnswer
	q.RiskFactor = rec.RiskFactor
	q.Normalize()
	return nil
}

func (s *SQLStore) ListCases(ctx context.Context) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,description FROM cases ORDER BY id`)
	if err != nil {
		return nil, storeErr("list cases", err)
	}
	defer rows.Close()
	var out []Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, storeErr("list cases", err)
		}
		out = append(out, c)
	}
	return out, storeErr("list cases", rows.Err())
}

func (s *SQLStore) GetCase(ctx context.Context, id string) (Case, error) {
	var c Case
	err := s.db.QueryRowContext(ctx,
		`SELECT id,title,description FROM cases WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	return c, storeErr("get case", err)
}

func (s *SQLStore) PutCase(ctx context.Context, c Case) (Case, error) {
	if err := validateCase(&c); err != nil {
		return Case{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (id,title,description,created_at) VALUES ($1,$2,$3,$4)`,
		c.ID, c.Title, c.Description, time.Now().Unix())
	return c, storeErr("put case", err)
}

func (s *SQLStore) UpdateCase(ctx context.Context, c Case) (Case, error) {
	if err := validateCase(&c); err != nil {
		return Case{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET title=$1, description=$2 WHERE id=$3`,
		c.Title, c.Description, c.ID)
	if err != nil {
		return Case{}, storeErr("update case", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (s *SQLStore) DeleteCase(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("delete case", err)
	}
	defer tx.Rollback()
	// Explicit cascade; sqlite may run with foreign_keys off.
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE case_id=$1`, id); err != nil {
		return storeErr("delete case", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE id=$1`, id)
	if err != nil {
		return storeErr("delete case", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return storeErr("delete case", tx.Commit())
}

const questionCols = `id,case_id,order_index,type,text,explanation,payload_json`

func scanQuestion(scan func(dest ...any) error) (Question, error) {
	var q Question
	var raw string
	if err := scan(&q.ID, &q.CaseID, &q.OrderIndex, &q.Type, &q.Text, &q.Explanation, &raw); err != nil {
		return Question{}, err
	}
	if err := decodePayload(&q, raw); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, caseID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE case_id=$1 ORDER BY order_index, id`, caseID)
	if err != nil {
		return nil, storeErr("list questions", err)
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, storeErr("list questions", err)
		}
		out = append(out, q)
	}
	return out, storeErr("list questions", rows.Err())
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, storeErr("get question", err)
}

func (s *SQLStore) InsertQuestion(ctx context.Context, q Question) (Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	raw, err := encodePayload(q)
	if err != nil {
		return Question{}, storeErr("insert question", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Question{}, storeErr("insert question", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM cases WHERE id=$1`, q.CaseID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, storeErr("insert question", err)
	}
	// Append at the end; COALESCE covers the first question of a case.
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index)+1, 0) FROM questions WHERE case_id=$1`, q.CaseID).
		Scan(&q.OrderIndex); err != nil {
		return Question{}, storeErr("insert question", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO questions (id,case_id,order_index,type,text,explanation,payload_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		q.ID, q.CaseID, q.OrderIndex, string(q.Type), q.Text, q.Explanation, raw, time.Now().Unix()); err != nil {
		return Question{}, storeErr("insert question", err)
	}
	return q, storeErr("insert question", tx.Commit())
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	prev, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		return Question{}, err
	}
	if q.Type != prev.Type {
		return Question{}, invalidf("question type is immutable; delete and recreate")
	}
	q.CaseID = prev.CaseID
	q.OrderIndex = prev.OrderIndex
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	raw, err := encodePayload(q)
	if err != nil {
		return Question{}, storeErr("update question", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE questions SET text=$1, explanation=$2, payload_json=$3 WHERE id=$4`,
		q.Text, q.Explanation, raw, q.ID)
	return q, storeErr("update question", err)
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return storeErr("delete question", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder reindexes a case's questions to 0..n-1 in the given order inside
// one transaction, so readers never observe a half-renumbered case.
func (s *SQLStore) Reorder(ctx context.Context, caseID string, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("reorder", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE case_id=$1 ORDER BY order_index, id`, caseID)
	if err != nil {
		return storeErr("reorder", err)
	}
	var current []Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			rows.Close()
			return storeErr("reorder", err)
		}
		current = append(current, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return storeErr("reorder", err)
	}
	rows.Close()

	if err := checkPermutation(current, ids); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE questions SET order_index=$1 WHERE id=$2`, i, id); err != nil {
			return storeErr("reorder", err)
		}
	}
	return storeErr("reorder", tx.Commit())
}
