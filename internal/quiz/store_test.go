package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Barbenshi/HOD/internal/quiz"
)

// storeUnderTest lets the sqlite-backed store run the same contract suite.
type storeFactory func(t *testing.T) quiz.Store

func seedCase(t *testing.T, store quiz.Store, n int) (quiz.Case, []quiz.Question) {
	t.Helper()
	ctx := context.Background()
	c, err := store.PutCase(ctx, quiz.Case{Title: "Chest pain", Description: "ER admission"})
	if err != nil {
		t.Fatalf("put case: %v", err)
	}
	var qs []quiz.Question
	for i := 0; i < n; i++ {
		q := mcq("")
		q.CaseID = c.ID
		out, err := store.InsertQuestion(ctx, q)
		if err != nil {
			t.Fatalf("insert question %d: %v", i, err)
		}
		qs = append(qs, out)
	}
	return c, qs
}

func ids(qs []quiz.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("insert appends at the end", func(t *testing.T) {
		store := newStore(t)
		_, qs := seedCase(t, store, 3)
		for i, q := range qs {
			if q.OrderIndex != i {
				t.Errorf("question %d order index = %d", i, q.OrderIndex)
			}
		}
	})

	t.Run("list sorted by order then id", func(t *testing.T) {
		store := newStore(t)
		c, qs := seedCase(t, store, 3)
		got, err := store.ListQuestions(ctx, c.ID)
		if err != nil {
			t.Fatal(err)
		}
		for i := range qs {
			if got[i].ID != qs[i].ID {
				t.Errorf("position %d: got %s want %s", i, got[i].ID, qs[i].ID)
			}
		}
	})

	t.Run("reorder round trip", func(t *testing.T) {
		store := newStore(t)
		c, qs := seedCase(t, store, 3)
		perm := []string{qs[2].ID, qs[0].ID, qs[1].ID}
		if err := store.Reorder(ctx, c.ID, perm); err != nil {
			t.Fatalf("reorder: %v", err)
		}
		got, err := store.ListQuestions(ctx, c.ID)
		if err != nil {
			t.Fatal(err)
		}
		for i, id := range perm {
			if got[i].ID != id {
				t.Errorf("position %d: got %s want %s", i, got[i].ID, id)
			}
			if got[i].OrderIndex != i {
				t.Errorf("position %d: index %d, want contiguous", i, got[i].OrderIndex)
			}
		}
	})

	t.Run("reorder rejects non-permutations", func(t *testing.T) {
		store := newStore(t)
		c, qs := seedCase(t, store, 3)
		before, _ := store.ListQuestions(ctx, c.ID)

		bad := [][]string{
			{qs[0].ID, qs[1].ID},                         // missing id
			{qs[0].ID, qs[1].ID, "foreign"},              // foreign id
			{qs[0].ID, qs[0].ID, qs[1].ID},               // duplicate
			{qs[0].ID, qs[1].ID, qs[2].ID, qs[0].ID},     // too long
		}
		for _, perm := range bad {
			err := store.Reorder(ctx, c.ID, perm)
			var ve *quiz.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("perm %v: err = %v, want ValidationError", perm, err)
			}
		}
		after, _ := store.ListQuestions(ctx, c.ID)
		for i := range before {
			if after[i].ID != before[i].ID || after[i].OrderIndex != before[i].OrderIndex {
				t.Fatal("failed reorder must leave prior ordering untouched")
			}
		}
	})

	t.Run("delete keeps survivor indices", func(t *testing.T) {
		store := newStore(t)
		c, qs := seedCase(t, store, 3)
		if err := store.DeleteQuestion(ctx, qs[1].ID); err != nil {
			t.Fatal(err)
		}
		got, _ := store.ListQuestions(ctx, c.ID)
		if len(got) != 2 {
			t.Fatalf("len = %d", len(got))
		}
		// Gap at index 1 is permitted; only explicit reorder compacts.
		if got[0].OrderIndex != 0 || got[1].OrderIndex != 2 {
			t.Errorf("indices = %d,%d, want 0,2", got[0].OrderIndex, got[1].OrderIndex)
		}
		// Appending after a gap still lands at the end.
		q := mcq("")
		q.CaseID = c.ID
		added, err := store.InsertQuestion(ctx, q)
		if err != nil {
			t.Fatal(err)
		}
		if added.OrderIndex != 3 {
			t.Errorf("appended index = %d, want max+1 = 3", added.OrderIndex)
		}
	})

	t.Run("update validates before write", func(t *testing.T) {
		store := newStore(t)
		_, qs := seedCase(t, store, 1)
		bad := qs[0]
		bad.Choice = &quiz.ChoicePayload{
			Options:         bad.Choice.Options,
			CorrectOptionID: "nope",
		}
		if _, err := store.UpdateQuestion(ctx, bad); err == nil {
			t.Fatal("expected validation error")
		}
		// Prior value intact.
		got, err := store.GetQuestion(ctx, qs[0].ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Choice.CorrectOptionID != "b" {
			t.Errorf("persisted correct id = %q, want untouched %q", got.Choice.CorrectOptionID, "b")
		}
	})

	t.Run("update rejects type change", func(t *testing.T) {
		store := newStore(t)
		_, qs := seedCase(t, store, 1)
		q := qs[0]
		q.Type = quiz.TypeFillInTheBlank
		q.Choice = nil
		q.Blank = &quiz.BlankPayload{CorrectText: "x"}
		_, err := store.UpdateQuestion(ctx, q)
		var ve *quiz.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("delete case cascades questions", func(t *testing.T) {
		store := newStore(t)
		c, qs := seedCase(t, store, 2)
		if err := store.DeleteCase(ctx, c.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := store.GetCase(ctx, c.ID); !errors.Is(err, quiz.ErrNotFound) {
			t.Errorf("get case err = %v", err)
		}
		for _, q := range qs {
			if _, err := store.GetQuestion(ctx, q.ID); !errors.Is(err, quiz.ErrNotFound) {
				t.Errorf("question %s survived case delete: %v", q.ID, err)
			}
		}
	})

	t.Run("insert validates payload", func(t *testing.T) {
		store := newStore(t)
		c, _ := seedCase(t, store, 0)
		q := msq("", "") // empty correct id set after filtering
		q.CaseID = c.ID
		q.Select.CorrectOptionIDs = nil
		_, err := store.InsertQuestion(ctx, q)
		var ve *quiz.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("not found errors", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetQuestion(ctx, "missing"); !errors.Is(err, quiz.ErrNotFound) {
			t.Errorf("get question: %v", err)
		}
		if err := store.DeleteQuestion(ctx, "missing"); !errors.Is(err, quiz.ErrNotFound) {
			t.Errorf("delete question: %v", err)
		}
		if _, err := store.GetCase(ctx, "missing"); !errors.Is(err, quiz.ErrNotFound) {
			t.Errorf("get case: %v", err)
		}
	})
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) quiz.Store {
		return quiz.NewMemoryStore()
	})
}
