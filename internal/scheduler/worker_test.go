package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chauffeurtop_backend/internal/notification/inapp"
	quoterepo "chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStaleLister struct {
	stale      []quoterepo.StaleQuote
	err        error
	lastCutoff time.Time
	lastLimit  int
}

func (f *fakeStaleLister) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]quoterepo.StaleQuote, error) {
	f.lastCutoff = cutoff
	f.lastLimit = limit
	return f.stale, f.err
}

type fakeInAppSender struct {
	sent []inapp.SendParams
	err  error
}

func (f *fakeInAppSender) Send(_ context.Context, p inapp.SendParams) error {
	f.sent = append(f.sent, p)
	return f.err
}

func newSweepWorker(lister *fakeStaleLister, sender *fakeInAppSender) *Worker {
	return &Worker{
		quotes: lister,
		inApp:  sender,
		log:    logger.New("development"),
	}
}

func TestStaleQuoteSweepNoStaleQuotes(t *testing.T) {
	lister := &fakeStaleLister{}
	sender := &fakeInAppSender{}
	w := newSweepWorker(lister, sender)

	if err := w.handleStaleQuoteSweep(context.Background(), nil); err != nil {
		t.Fatalf("handleStaleQuoteSweep: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no notification, got %d", len(sender.sent))
	}
	if lister.lastLimit != staleSweepBatch {
		t.Fatalf("limit = %d, want %d", lister.lastLimit, staleSweepBatch)
	}

	// Cutoff should sit the stale age behind now.
	wantCutoff := time.Now().Add(-staleQuoteAge)
	if diff := lister.lastCutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff %v not near %v", lister.lastCutoff, wantCutoff)
	}
}

func TestStaleQuoteSweepSendsDigest(t *testing.T) {
	oldest := quoterepo.StaleQuote{ID: uuid.New(), Name: "Ava Nguyen", City: "Sydney"}
	lister := &fakeStaleLister{stale: []quoterepo.StaleQuote{
		oldest,
		{ID: uuid.New(), Name: "Liam Chen", City: "Melbourne"},
	}}
	sender := &fakeInAppSender{}
	w := newSweepWorker(lister, sender)

	if err := w.handleStaleQuoteSweep(context.Background(), nil); err != nil {
		t.Fatalf("handleStaleQuoteSweep: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one digest, got %d", len(sender.sent))
	}

	got := sender.sent[0]
	if got.Category != "warning" {
		t.Fatalf("category = %q, want warning", got.Category)
	}
	if !strings.Contains(got.Content, "2 booking requests") {
		t.Fatalf("content missing count: %q", got.Content)
	}
	if !strings.Contains(got.Content, "Ava Nguyen") || !strings.Contains(got.Content, "Liam Chen") {
		t.Fatalf("content missing names: %q", got.Content)
	}
	if got.ResourceID == nil || *got.ResourceID != oldest.ID {
		t.Fatalf("resource id should point at the oldest stale quote")
	}
	if got.ResourceType != "quote" {
		t.Fatalf("resource type = %q, want quote", got.ResourceType)
	}
}

func TestStaleQuoteSweepPropagatesListError(t *testing.T) {
	lister := &fakeStaleLister{err: errors.New("db down")}
	sender := &fakeInAppSender{}
	w := newSweepWorker(lister, sender)

	if err := w.handleStaleQuoteSweep(context.Background(), nil); err == nil {
		t.Fatal("expected error when listing fails")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no notification on error, got %d", len(sender.sent))
	}
}
