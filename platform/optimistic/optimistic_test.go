package optimistic

import (
	"context"
	"errors"
	"testing"
)

type record struct {
	Status string
	Count  int
}

func TestUpdate_CommitSuccessReturnsTentative(t *testing.T) {
	current := record{Status: "pending", Count: 1}

	got, err := Update(context.Background(), current,
		func(r record) record {
			r.Status = "confirmed"
			r.Count++
			return r
		},
		func(ctx context.Context, r record) error { return nil },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "confirmed" || got.Count != 2 {
		t.Fatalf("expected tentative state, got %+v", got)
	}
}

func TestUpdate_CommitFailureRollsBack(t *testing.T) {
	current := record{Status: "pending", Count: 1}
	commitErr := errors.New("write failed")

	got, err := Update(context.Background(), current,
		func(r record) record {
			r.Status = "confirmed"
			return r
		},
		func(ctx context.Context, r record) error { return commitErr },
	)
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if got != current {
		t.Fatalf("expected original state after rollback, got %+v", got)
	}
}

func TestUpdate_CommitSeesTentativeValue(t *testing.T) {
	var seen record
	_, err := Update(context.Background(), record{Status: "pending"},
		func(r record) record {
			r.Status = "lost"
			return r
		},
		func(ctx context.Context, r record) error {
			seen = r
			return nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Status != "lost" {
		t.Fatalf("commit should receive tentative value, saw %+v", seen)
	}
}
