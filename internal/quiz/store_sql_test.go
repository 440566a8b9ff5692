package quiz_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Barbenshi/HOD/internal/db"
	"github.com/Barbenshi/HOD/internal/quiz"
)

func newSQLiteStore(t *testing.T) quiz.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "quiz.db")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return quiz.NewSQLStore(dbh, "sqlite")
}

// The SQL store must satisfy the same contract as the in-memory one.
func TestSQLStoreContract(t *testing.T) {
	runStoreContract(t, newSQLiteStore)
}

// Payloads cross the storage boundary as serialized JSON; what comes back
// must be fully structured again.
func TestSQLStorePayloadRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	c, err := store.PutCase(ctx, quiz.Case{Title: "Sepsis"})
	if err != nil {
		t.Fatal(err)
	}

	in := quiz.Question{
		CaseID: c.ID, Type: quiz.TypeRiskFactor, Text: "Risk factors?",
		Explanation: "See guidelines.",
		RiskFactor: &quiz.RiskFactorPayload{
			RiskFactors: []quiz.Option{
				{ID: "dm", Text: "Diabetes"},
				{ID: "ckd", Text: "Chronic kidney disease"},
			},
			CorrectFactorIDs: []string{"dm"},
		},
	}
	saved, err := store.InsertQuestion(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.GetQuestion(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RiskFactor == nil {
		t.Fatal("payload not decoded")
	}
	if len(got.RiskFactor.RiskFactors) != 2 || got.RiskFactor.RiskFactors[1].Text != "Chronic kidney disease" {
		t.Errorf("risk factors = %+v", got.RiskFactor.RiskFactors)
	}
	if len(got.RiskFactor.CorrectFactorIDs) != 1 || got.RiskFactor.CorrectFactorIDs[0] != "dm" {
		t.Errorf("correct set = %v", got.RiskFactor.CorrectFactorIDs)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("round-tripped question should validate: %v", err)
	}
}
