package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/domain"
	"github.com/maourynd/radio-summary/infrastructure/adapters"
)

type aggregatorFixture struct {
	records    *fakeTranscriptionStore
	summaries  *fakeSummaryStore
	summarizer *fakeSummarizer
	store      *fakeObjectStore
	mailer     *fakeMailer
	aggregator inbound.SummaryAggregatorPort
}

func newAggregatorFixture() *aggregatorFixture {
	fixture := &aggregatorFixture{
		records:    newFakeTranscriptionStore(),
		summaries:  &fakeSummaryStore{},
		summarizer: &fakeSummarizer{digest: "a quiet day overall"},
		store:      newFakeObjectStore(),
		mailer:     &fakeMailer{},
	}
	fixture.aggregator = NewSummaryAggregator(
		adapters.NewZerologWrapper(),
		fixture.records,
		fixture.summaries,
		fixture.summarizer,
		fixture.store,
		&fakeRenderer{},
		fixture.mailer,
	)
	return fixture
}

func (f *aggregatorFixture) addRecord(fileID int64, transcript string) {
	f.records.records[fileID] = domain.Transcription{FileID: fileID, Transcript: transcript}
}

func TestAggregateConcatenatesInFileIDOrder(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(300, "third")
	fixture.addRecord(100, "first")
	fixture.addRecord(200, "second")

	summary, err := fixture.aggregator.Aggregate(context.Background())
	if err != nil {
		t.Fatal("aggregate failed:", err)
	}

	if got := fixture.summarizer.inputs[0]; got != "first second third" {
		t.Errorf("summarizer input = %q, want chronological concatenation", got)
	}
	wantIDs := []int64{100, 200, 300}
	for i, id := range summary.TranscriptionIDs {
		if id != wantIDs[i] {
			t.Errorf("consumed ids = %v, want %v", summary.TranscriptionIDs, wantIDs)
			break
		}
	}
}

func TestAggregateBackLinksConsumedRecords(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(100, "first")
	fixture.addRecord(200, "second")

	summary, err := fixture.aggregator.Aggregate(context.Background())
	if err != nil {
		t.Fatal("aggregate failed:", err)
	}

	for _, fileID := range []int64{100, 200} {
		record := fixture.records.records[fileID]
		if record.AggregationID == nil || *record.AggregationID != summary.ID {
			t.Errorf("record %d not linked to summary %d", fileID, summary.ID)
		}
	}
	if len(fixture.mailer.sent) != 1 {
		t.Errorf("digest emails sent = %d, want 1", len(fixture.mailer.sent))
	}
}

func TestAggregateExcludesAlreadyLinkedRecords(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(100, "new chatter")
	previous := int64(7)
	fixture.records.records[50] = domain.Transcription{FileID: 50, Transcript: "old chatter", AggregationID: &previous}

	if _, err := fixture.aggregator.Aggregate(context.Background()); err != nil {
		t.Fatal("aggregate failed:", err)
	}

	if got := fixture.summarizer.inputs[0]; strings.Contains(got, "old chatter") {
		t.Errorf("already-aggregated record leaked into input: %q", got)
	}
	if linked := fixture.records.records[50].AggregationID; *linked != previous {
		t.Error("prior link was rewritten")
	}
}

func TestAggregateNothingToSummarize(t *testing.T) {
	fixture := newAggregatorFixture()

	if _, err := fixture.aggregator.Aggregate(context.Background()); !errors.Is(err, domain.ErrNothingToSummarize) {
		t.Fatalf("err = %v, want ErrNothingToSummarize", err)
	}

	fixture.addRecord(100, "   ")
	fixture.addRecord(200, "")
	if _, err := fixture.aggregator.Aggregate(context.Background()); !errors.Is(err, domain.ErrNothingToSummarize) {
		t.Fatalf("whitespace-only transcripts: err = %v, want ErrNothingToSummarize", err)
	}

	if len(fixture.summaries.inserted) != 0 {
		t.Error("no aggregation result may be created for empty input")
	}
	if len(fixture.summarizer.inputs) != 0 {
		t.Error("summarizer must not be called with empty input")
	}
}

func TestAggregateSummarizerFailureIsAllOrNothing(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(100, "some chatter")
	fixture.summarizer.err = errors.New("model overloaded")

	if _, err := fixture.aggregator.Aggregate(context.Background()); err == nil {
		t.Fatal("expected the summarizer error to surface")
	}

	if len(fixture.summaries.inserted) != 0 {
		t.Error("aggregation result created despite summarizer failure")
	}
	if fixture.records.records[100].AggregationID != nil {
		t.Error("record mutated despite summarizer failure")
	}
}

func TestAggregatePartialBackLinkFailureKeepsResult(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(100, "first")
	fixture.addRecord(200, "second")
	fixture.records.linkErr[200] = errors.New("row lock timeout")

	summary, err := fixture.aggregator.Aggregate(context.Background())
	if err != nil {
		t.Fatal("aggregate failed:", err)
	}

	if len(fixture.summaries.inserted) != 1 {
		t.Fatal("aggregation result should survive a partial back-link failure")
	}
	if linked := fixture.records.records[100].AggregationID; linked == nil || *linked != summary.ID {
		t.Error("successfully linked record was reverted")
	}
	if fixture.records.records[200].AggregationID != nil {
		t.Error("failed link should remain unlinked")
	}
}

func TestAggregateMailFailureDoesNotRollBack(t *testing.T) {
	fixture := newAggregatorFixture()
	fixture.addRecord(100, "first")
	fixture.mailer.err = errors.New("campaign rejected")

	if _, err := fixture.aggregator.Aggregate(context.Background()); err != nil {
		t.Fatal("distribution failure must not fail the run:", err)
	}
	if len(fixture.summaries.inserted) != 1 {
		t.Error("aggregation result missing after mail failure")
	}
}
