package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maourynd/radio-summary/domain"
	"github.com/maourynd/radio-summary/infrastructure/adapters"
)

func stageSegments(store *fakeObjectStore, keysInUploadOrder map[string]string, order []string) {
	for _, name := range order {
		_ = store.Upload(context.Background(), name, []byte(keysInUploadOrder[name]))
	}
}

func newTestComposer(store *fakeObjectStore, state *fakeStateStore, glueTime int64) *batchComposer {
	composer := NewBatchComposer(adapters.NewZerologWrapper(), store, state).(*batchComposer)
	composer.now = func() time.Time { return time.Unix(glueTime, 0) }
	return composer
}

func TestComposeConcatenatesInAscendingKeyOrder(t *testing.T) {
	segments := map[string]string{
		domain.StagedSegmentKey(3, "1311"): "CC",
		domain.StagedSegmentKey(1, "1311"): "AA",
		domain.StagedSegmentKey(2, "1311"): "BB",
	}

	// Two stores staged in different discovery orders must glue to the
	// same clip bytes.
	uploadOrders := [][]string{
		{domain.StagedSegmentKey(3, "1311"), domain.StagedSegmentKey(1, "1311"), domain.StagedSegmentKey(2, "1311")},
		{domain.StagedSegmentKey(1, "1311"), domain.StagedSegmentKey(3, "1311"), domain.StagedSegmentKey(2, "1311")},
	}

	var clips [][]byte
	for _, order := range uploadOrders {
		store := newFakeObjectStore()
		state := newFakeStateStore()
		state.values[domain.StateKeyPendingSegments] = 3
		stageSegments(store, segments, order)

		composer := newTestComposer(store, state, 1700000000)
		published, err := composer.Compose(context.Background())
		if err != nil {
			t.Fatal("compose failed:", err)
		}
		if !published {
			t.Fatal("expected a published clip")
		}
		clips = append(clips, store.objects[domain.GluedClipKey(1700000000)])
	}

	want := "AABBCC"
	for i, clip := range clips {
		if string(clip) != want {
			t.Errorf("clip %d content = %q, want %q", i, clip, want)
		}
	}
}

func TestComposeResetsCounterAndClearsStagingOnSuccess(t *testing.T) {
	store := newFakeObjectStore()
	state := newFakeStateStore()
	state.values[domain.StateKeyPendingSegments] = 27
	_ = store.Upload(context.Background(), domain.StagedSegmentKey(5, "1311"), []byte("audio"))

	composer := newTestComposer(store, state, 1700000100)
	published, err := composer.Compose(context.Background())
	if err != nil || !published {
		t.Fatalf("compose = (%v, %v), want (true, nil)", published, err)
	}

	if pending := state.values[domain.StateKeyPendingSegments]; pending != 0 {
		t.Errorf("pending counter = %d, want 0", pending)
	}
	if keys, _ := store.List(context.Background(), domain.StagingPrefix); len(keys) != 0 {
		t.Errorf("staging not cleared: %v", keys)
	}
}

func TestComposePublishFailureLeavesCounterUntouched(t *testing.T) {
	store := newFakeObjectStore()
	state := newFakeStateStore()
	state.values[domain.StateKeyPendingSegments] = 25
	_ = store.Upload(context.Background(), domain.StagedSegmentKey(5, "1311"), []byte("audio"))
	store.uploadErr[domain.GluedClipKey(1700000200)] = errors.New("s3 write denied")

	composer := newTestComposer(store, state, 1700000200)
	published, err := composer.Compose(context.Background())
	if err == nil || published {
		t.Fatalf("compose = (%v, %v), want publish failure", published, err)
	}

	if pending := state.values[domain.StateKeyPendingSegments]; pending != 25 {
		t.Errorf("pending counter = %d, want unchanged 25", pending)
	}
	if _, found := store.objects[domain.StagedSegmentKey(5, "1311")]; !found {
		t.Error("staged segment was deleted on a failed publish")
	}
}

func TestComposeNothingStagedIsNotSuccess(t *testing.T) {
	store := newFakeObjectStore()
	state := newFakeStateStore()
	state.values[domain.StateKeyPendingSegments] = 25

	composer := newTestComposer(store, state, 1700000300)
	published, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatal("compose failed:", err)
	}
	if published {
		t.Error("compose reported success with nothing staged")
	}
	if pending := state.values[domain.StateKeyPendingSegments]; pending != 25 {
		t.Errorf("pending counter = %d, want unchanged 25", pending)
	}
}

func TestComposeUnparseableNamesSortLast(t *testing.T) {
	store := newFakeObjectStore()
	state := newFakeStateStore()
	ctx := context.Background()
	_ = store.Upload(ctx, domain.StagingPrefix+"stray.mp3", []byte("ZZ"))
	_ = store.Upload(ctx, domain.StagedSegmentKey(2, "1311"), []byte("BB"))
	_ = store.Upload(ctx, domain.StagedSegmentKey(1, "1311"), []byte("AA"))

	composer := newTestComposer(store, state, 1700000400)
	if _, err := composer.Compose(ctx); err != nil {
		t.Fatal("compose failed:", err)
	}

	clip := string(store.objects[domain.GluedClipKey(1700000400)])
	if clip != "AABBZZ" {
		t.Errorf("clip content = %q, want unparseable name glued last", clip)
	}
}
