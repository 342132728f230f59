package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

type summaryAggregator struct {
	logger     outbound.LoggerPort
	records    outbound.TranscriptionStorePort
	summaries  outbound.SummaryStorePort
	summarizer outbound.SummarizerPort
	store      outbound.ObjectStorePort
	renderer   outbound.DigestRendererPort
	mailer     outbound.DigestMailerPort
	now        func() time.Time
}

func NewSummaryAggregator(
	logger outbound.LoggerPort,
	records outbound.TranscriptionStorePort,
	summaries outbound.SummaryStorePort,
	summarizer outbound.SummarizerPort,
	store outbound.ObjectStorePort,
	renderer outbound.DigestRendererPort,
	mailer outbound.DigestMailerPort,
) inbound.SummaryAggregatorPort {
	return &summaryAggregator{
		logger:     logger,
		records:    records,
		summaries:  summaries,
		summarizer: summarizer,
		store:      store,
		renderer:   renderer,
		mailer:     mailer,
		now:        time.Now,
	}
}

// Aggregate folds every transcription not yet linked to an aggregation
// result into one digest. Nothing is persisted unless the summarizer
// succeeds; once the result row exists, back-link and distribution
// failures are logged without rolling it back.
func (s *summaryAggregator) Aggregate(ctx context.Context) (*domain.Summary, error) {
	records, err := s.records.ListUnaggregated(ctx)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		texts = append(texts, record.Transcript)
		ids = append(ids, record.FileID)
	}
	fullText := strings.Join(texts, " ")
	if strings.TrimSpace(fullText) == "" {
		return nil, domain.ErrNothingToSummarize
	}

	fullTextKey := fmt.Sprintf("%s%d.txt", domain.FullTextPrefix, s.now().Unix())
	if err := s.store.Upload(ctx, fullTextKey, []byte(fullText)); err != nil {
		return nil, fmt.Errorf("upload full transcript text: %w", err)
	}

	digest, err := s.summarizer.Summarize(ctx, fullText)
	if err != nil {
		return nil, fmt.Errorf("summarize transcripts: %w", err)
	}

	summary := domain.Summary{
		Text:             digest,
		TranscriptionIDs: ids,
		CreatedAt:        s.now(),
	}
	summaryID, err := s.summaries.Insert(ctx, summary)
	if err != nil {
		return nil, err
	}
	summary.ID = summaryID

	for _, record := range records {
		if err := s.records.LinkToSummary(ctx, record.FileID, summaryID); err != nil {
			s.logger.ErrorWithFields(err, "Failed to back-link transcription to summary", map[string]interface{}{
				"fileID":    record.FileID,
				"summaryID": summaryID,
			})
		}
	}

	s.logger.InfoWithFields("Created aggregation result", map[string]interface{}{
		"summaryID":      summaryID,
		"transcriptions": len(records),
	})

	s.distribute(ctx, summary)
	return &summary, nil
}

// distribute publishes the digest artifacts and sends the email. The
// digest row is already durable at this point, so every failure here
// is log-and-continue.
func (s *summaryAggregator) distribute(ctx context.Context, summary domain.Summary) {
	digestKey := fmt.Sprintf("%s%d.txt", domain.SummaryTextPrefix, summary.ID)
	if err := s.store.Upload(ctx, digestKey, []byte(summary.Text)); err != nil {
		s.logger.Error(err, "Failed to upload digest text")
	}

	html, err := s.renderer.Render(summary.Text)
	if err != nil {
		s.logger.Error(err, "Failed to render digest HTML")
		return
	}

	htmlKey := fmt.Sprintf("%s%d.html", domain.HTMLPrefix, s.now().Unix())
	if err := s.store.Upload(ctx, htmlKey, []byte(html)); err != nil {
		s.logger.Error(err, "Failed to upload digest HTML")
	}

	if err := s.mailer.Send(ctx, html); err != nil {
		s.logger.Error(err, "Failed to send digest email")
	}
}
