package adapters

import (
	"bytes"
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
	"github.com/maourynd/radio-summary/domain"
)

type broadcastifySource struct {
	logger  outbound.LoggerPort
	fetcher ContentFetcher
	cfg     *config.ScraperConfig
}

// NewBroadcastifySource reads the feed's calls table over HTTP and
// turns its .mp3 links into segment refs. The ordering key is parsed
// here, once, at the boundary; links without a parseable key never
// enter the pipeline.
func NewBroadcastifySource(logger outbound.LoggerPort, fetcher ContentFetcher, cfg *config.ScraperConfig) outbound.SegmentSourcePort {
	return &broadcastifySource{
		logger:  logger,
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (b *broadcastifySource) Discover(ctx context.Context) ([]domain.SegmentRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.CallsURL, nil)
	if err != nil {
		return nil, err
	}
	if b.cfg.SessionCookie != "" {
		req.Header.Set("Cookie", b.cfg.SessionCookie)
	}

	page, err := b.fetcher.FetchContent(req)
	if err != nil {
		return nil, err
	}

	return b.parseRefs(page)
}

func (b *broadcastifySource) parseRefs(page []byte) ([]domain.SegmentRef, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var refs []domain.SegmentRef
	doc.Find(`#callsTable a[href$=".mp3"]`).Each(func(_ int, anchor *goquery.Selection) {
		href, exists := anchor.Attr("href")
		if !exists {
			return
		}
		key, ok := domain.ParseOrderingKey(href)
		if !ok {
			b.logger.WarnWithFields("Dropping segment link without ordering key", map[string]interface{}{
				"href": href,
			})
			return
		}
		refs = append(refs, domain.SegmentRef{
			URL:    href,
			Key:    key,
			FeedID: b.cfg.FeedID,
		})
	})

	b.logger.DebugWithFields("Discovered segment links", map[string]interface{}{
		"count": len(refs),
	})
	return refs, nil
}

func (b *broadcastifySource) Fetch(ctx context.Context, ref domain.SegmentRef) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, err
	}
	if b.cfg.SessionCookie != "" {
		req.Header.Set("Cookie", b.cfg.SessionCookie)
	}
	return b.fetcher.FetchContent(req)
}
