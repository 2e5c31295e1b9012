package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/session-service/internal/models"
)

func newTestStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotStore(client, time.Hour), mr
}

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	snapshot := &models.SessionSnapshot{
		SessionID:     "sess-1",
		AssessmentID:  "assess-1",
		Mode:          models.ModeStandard,
		Phase:         models.PhaseAnswering,
		TimerState:    models.TimerRunning,
		TimeRemaining: 540,
		Answered:      []int{1, 2},
	}

	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !mr.Exists("assessment:session:sess-1") {
		t.Fatal("expected redis key to be set")
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.AssessmentID != "assess-1" || got.Phase != models.PhaseAnswering || got.TimeRemaining != 540 {
		t.Errorf("snapshot round trip mismatch: %+v", got)
	}
	if len(got.Answered) != 2 {
		t.Errorf("answered list lost: %v", got.Answered)
	}
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSnapshotStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.SessionSnapshot{SessionID: "sess-1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists("assessment:session:sess-1") {
		t.Fatal("expected redis key to be removed")
	}

	// Deleting a missing snapshot is not an error.
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Errorf("re-delete failed: %v", err)
	}
}

func TestSnapshotStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSnapshotStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, &models.SessionSnapshot{SessionID: "sess-1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected expiry after TTL, got %v", err)
	}
}
