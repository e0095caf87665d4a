package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docmon-labs/docmon-cli/internal/chunker"
	"github.com/docmon-labs/docmon-cli/internal/classifier"
	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driving"
	"github.com/docmon-labs/docmon-cli/internal/logger"
	"github.com/docmon-labs/docmon-cli/internal/openapi"
	"github.com/docmon-labs/docmon-cli/internal/urlutil"
)

const (
	// recursiveMaxDepth bounds webpage crawls.
	recursiveMaxDepth = 3

	// recursiveMaxPages bounds the total pages per webpage crawl.
	recursiveMaxPages = 50
)

// Ensure MonitorManager implements the interface.
var _ driving.MonitorService = (*MonitorManager)(nil)

// MonitorManager registers documentation URLs for monitoring, runs
// their initial crawl and serves the registration lifecycle.
type MonitorManager struct {
	fetcher  driven.Fetcher
	store    driven.DocumentStore
	monitors driven.MonitorStore
	ingestor *Ingestor
	cfg      chunker.Config

	now func() time.Time
}

// NewMonitorManager creates a monitor manager.
func NewMonitorManager(
	fetcher driven.Fetcher,
	store driven.DocumentStore,
	monitors driven.MonitorStore,
	ingestor *Ingestor,
	cfg chunker.Config,
) *MonitorManager {
	return &MonitorManager{
		fetcher:  fetcher,
		store:    store,
		monitors: monitors,
		ingestor: ingestor,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Monitor registers url, classifies it, runs the crawl strategy the
// classification selects and stores version 1 of the content. An
// already-active registration fails without re-crawling; a previously
// removed one is reactivated and re-crawled.
func (m *MonitorManager) Monitor(ctx context.Context, url, notes string) domain.MonitorResult {
	logger.Section("Monitor Registration")
	url = urlutil.Normalize(url)
	if urlutil.Domain(url) == "" {
		return domain.MonitorResult{URL: url, Error: "invalid URL"}
	}

	existing, err := m.monitors.Get(ctx, url)
	if err != nil {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("reading monitor state: %v", err)}
	}
	if existing != nil && existing.Status == domain.MonitorStatusActive {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("%s is already monitored", url)}
	}

	fetched, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("fetching %s: %v", url, err)}
	}
	if strings.TrimSpace(fetched.Text) == "" {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("fetching %s: empty content", url)}
	}

	docType := classifier.Classify(url, fetched.ContentType, fetched.Text)
	crawlType := docType.CrawlType()
	logger.Info("classified %s as %s (crawl type %s)", url, docType, crawlType)

	pages, chunks, err := m.initialCrawl(ctx, url, crawlType, fetched)
	if err != nil {
		return domain.MonitorResult{URL: url, CrawlType: crawlType, Error: err.Error()}
	}

	doc := domain.MonitoredDocument{
		URL:       url,
		CrawlType: crawlType,
		Status:    domain.MonitorStatusActive,
		Notes:     notes,
		DateAdded: m.now(),
	}
	if existing != nil {
		doc.DateAdded = existing.DateAdded
	}
	if err := m.monitors.Upsert(ctx, doc); err != nil {
		return domain.MonitorResult{URL: url, CrawlType: crawlType, Error: fmt.Sprintf("registering %s: %v", url, err)}
	}
	if err := m.monitors.Touch(ctx, url); err != nil {
		logger.Debug("updating last crawl time for %s failed: %v", url, err)
	}

	return domain.MonitorResult{
		Success:      true,
		URL:          url,
		CrawlType:    crawlType,
		PagesCrawled: pages,
		ChunksStored: chunks,
		Message:      fmt.Sprintf("Monitoring %s (%d pages, %d chunks)", url, pages, chunks),
	}
}

// initialCrawl runs the crawl strategy for crawlType and stores
// version 1 content. Returns pages crawled and chunks stored.
func (m *MonitorManager) initialCrawl(ctx context.Context, url string, crawlType domain.CrawlType, fetched *driven.FetchResult) (int, int, error) {
	switch crawlType {
	case domain.CrawlTypeOpenAPI:
		return m.crawlOpenAPI(ctx, url, fetched.Text)
	case domain.CrawlTypeSitemap:
		return m.crawlSitemap(ctx, url)
	case domain.CrawlTypeTextFile:
		if err := m.reset(ctx, url); err != nil {
			return 0, 0, err
		}
		stored, err := m.ingestor.IngestText(ctx, url, fetched.Text, crawlType, 1)
		if err != nil {
			return 0, 0, err
		}
		return 1, stored, nil
	default:
		return m.crawlWebpages(ctx, url, crawlType)
	}
}

func (m *MonitorManager) crawlOpenAPI(ctx context.Context, url, text string) (int, int, error) {
	spec, err := openapi.Parse(text)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing spec at %s: %w", url, err)
	}
	info := spec.Info()
	logger.Info("spec %q: %d endpoints, %d schemas", info.Title, info.EndpointCount, info.SchemaCount)

	rendered := spec.MarkdownChunks(m.cfg.MaxChunkSize)
	contents := make([]string, len(rendered))
	metas := make([]domain.ChunkMetadata, len(rendered))
	for i, c := range rendered {
		contents[i] = c.Content
		metas[i] = c.Meta
		metas[i].CrawlType = domain.CrawlTypeOpenAPI
		if metas[i].Title == "" {
			metas[i].Title = info.Title
		}
	}

	if err := m.reset(ctx, url); err != nil {
		return 0, 0, err
	}
	stored, err := m.ingestor.IngestPrepared(ctx, url, 1, contents, metas)
	if err != nil {
		return 0, 0, err
	}
	return 1, stored, nil
}

func (m *MonitorManager) crawlSitemap(ctx context.Context, url string) (int, int, error) {
	urls, err := m.fetcher.FetchSitemap(ctx, url)
	if err != nil {
		return 0, 0, fmt.Errorf("reading sitemap %s: %w", url, err)
	}
	if len(urls) == 0 {
		return 0, 0, fmt.Errorf("sitemap %s lists no URLs", url)
	}
	if len(urls) > recursiveMaxPages {
		urls = urls[:recursiveMaxPages]
	}

	pages, err := m.fetcher.FetchBatch(ctx, urls)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching sitemap pages: %w", err)
	}
	return m.storePages(ctx, pages, domain.CrawlTypeSitemap)
}

func (m *MonitorManager) crawlWebpages(ctx context.Context, url string, crawlType domain.CrawlType) (int, int, error) {
	pages, err := m.fetcher.FetchRecursive(ctx, url, recursiveMaxDepth, recursiveMaxPages)
	if err != nil {
		return 0, 0, fmt.Errorf("crawling %s: %w", url, err)
	}
	return m.storePages(ctx, pages, crawlType)
}

// storePages ingests each fetched page as version 1 of its own URL.
// Pages that fail to ingest are logged and skipped.
func (m *MonitorManager) storePages(ctx context.Context, pages []*driven.FetchResult, crawlType domain.CrawlType) (int, int, error) {
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.URL)
	}
	if err := m.store.DeleteChunksByURL(ctx, urls); err != nil {
		return 0, 0, fmt.Errorf("clearing prior content: %w", err)
	}

	crawled, stored := 0, 0
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		n, err := m.ingestor.IngestText(ctx, p.URL, p.Text, crawlType, 1)
		if err != nil {
			logger.Warn("ingesting %s failed: %v", p.URL, err)
			continue
		}
		crawled++
		stored += n
	}
	if crawled == 0 {
		return 0, 0, fmt.Errorf("no pages could be ingested")
	}
	return crawled, stored, nil
}

// reset clears previously stored chunks for url. Registration is the
// only path that deletes content; change checks always append.
func (m *MonitorManager) reset(ctx context.Context, url string) error {
	if err := m.store.DeleteChunksByURL(ctx, []string{url}); err != nil {
		return fmt.Errorf("clearing prior content for %s: %w", url, err)
	}
	return nil
}

// List returns all actively monitored documents.
func (m *MonitorManager) List(ctx context.Context) ([]domain.MonitoredDocument, error) {
	return m.monitors.List(ctx, domain.MonitorStatusActive)
}

// Remove soft-deletes a monitored document. Stored chunks and change
// history are retained.
func (m *MonitorManager) Remove(ctx context.Context, url string) domain.MonitorResult {
	url = urlutil.Normalize(url)
	existing, err := m.monitors.Get(ctx, url)
	if err != nil {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("reading monitor state: %v", err)}
	}
	if existing == nil || existing.Status != domain.MonitorStatusActive {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("%s is not monitored", url)}
	}
	if err := m.monitors.SetStatus(ctx, url, domain.MonitorStatusDeleted); err != nil {
		return domain.MonitorResult{URL: url, Error: fmt.Sprintf("removing %s: %v", url, err)}
	}
	return domain.MonitorResult{
		Success: true,
		URL:     url,
		Message: fmt.Sprintf("Stopped monitoring %s; stored content and history retained", url),
	}
}

// History returns the change records for a URL, newest first.
func (m *MonitorManager) History(ctx context.Context, url string) ([]domain.ChangeRecord, error) {
	return m.store.ChangeHistory(ctx, urlutil.Normalize(url))
}

// Sources returns the distinct source domains with stored content.
func (m *MonitorManager) Sources(ctx context.Context) ([]string, error) {
	return m.store.Sources(ctx)
}
