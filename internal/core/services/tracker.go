package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docmon-labs/docmon-cli/internal/chunker"
	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driving"
	"github.com/docmon-labs/docmon-cli/internal/logger"
	"github.com/docmon-labs/docmon-cli/internal/openapi"
)

// Ensure TrackerService implements the interface.
var _ driving.ChangeTracker = (*TrackerService)(nil)

// TrackerService detects content changes for monitored documents.
// Every failure is reported inside the result envelope; the methods
// never return an error to the caller.
type TrackerService struct {
	fetcher  driven.Fetcher
	store    driven.DocumentStore
	monitors driven.MonitorStore
	differ   driven.DiffProvider
	ingestor *Ingestor
	cfg      chunker.Config

	now func() time.Time
}

// NewTrackerService creates a change tracker.
func NewTrackerService(
	fetcher driven.Fetcher,
	store driven.DocumentStore,
	monitors driven.MonitorStore,
	differ driven.DiffProvider,
	ingestor *Ingestor,
	cfg chunker.Config,
) *TrackerService {
	return &TrackerService{
		fetcher:  fetcher,
		store:    store,
		monitors: monitors,
		differ:   differ,
		ingestor: ingestor,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CheckAndUpdate re-fetches url and compares it against the newest
// stored version. Unchanged content is a terminal success. Diverged
// content is stored as the next version together with an aggregated
// change record.
func (s *TrackerService) CheckAndUpdate(ctx context.Context, url string) domain.CheckResult {
	logger.Section("Change Check")
	logger.Info("checking %s", url)

	fetched, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("fetching %s: %v", url, err)}
	}
	if strings.TrimSpace(fetched.Text) == "" {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("fetching %s: empty content", url)}
	}

	crawlType := s.crawlTypeFor(ctx, url)
	newContents, err := s.renderContents(crawlType, fetched.Text)
	if err != nil {
		return domain.CheckResult{URL: url, Error: err.Error()}
	}

	latest, err := s.store.LatestVersion(ctx, url)
	if err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("reading version state for %s: %v", url, err)}
	}

	if latest == 0 {
		return s.storeInitial(ctx, url, crawlType, fetched.Text, newContents)
	}

	stored, err := s.store.ChunksForVersion(ctx, url, latest)
	if err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("loading version %d of %s: %v", latest, url, err)}
	}
	if reconstruct(stored) == strings.Join(newContents, "\n\n") {
		logger.Info("%s unchanged at version %d", url, latest)
		s.touch(ctx, url)
		return domain.CheckResult{
			Success:        true,
			URL:            url,
			Message:        "No changes detected",
			CurrentVersion: latest,
		}
	}

	return s.storeNewVersion(ctx, url, crawlType, fetched.Text, newContents, latest)
}

// CheckAll runs CheckAndUpdate for every distinct stored URL.
func (s *TrackerService) CheckAll(ctx context.Context) domain.CheckAllResult {
	urls, err := s.store.URLs(ctx)
	if err != nil {
		return domain.CheckAllResult{Error: fmt.Sprintf("listing stored urls: %v", err)}
	}

	result := domain.CheckAllResult{
		Success:          true,
		TotalURLsChecked: len(urls),
		Results:          make([]domain.CheckResult, 0, len(urls)),
	}
	for _, u := range urls {
		result.Results = append(result.Results, s.CheckAndUpdate(ctx, u))
	}
	return result
}

// storeInitial records version 1 with a single added/high change.
func (s *TrackerService) storeInitial(ctx context.Context, url string, crawlType domain.CrawlType, text string, contents []string) domain.CheckResult {
	stored, err := s.ingestText(ctx, url, crawlType, text, contents, 1)
	if err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("storing initial version of %s: %v", url, err)}
	}
	logger.Info("stored initial version of %s (%d chunks)", url, stored)

	change := domain.AnalyzedChange{
		Change: domain.Change{
			Type:    domain.ChangeTypeAdded,
			Summary: "Initial version stored",
			Impact:  domain.ImpactHigh,
		},
		Analysis: domain.ImpactAnalysis{Severity: domain.ImpactHigh},
	}
	s.record(ctx, domain.ChangeRecord{
		URL:       url,
		Version:   1,
		Type:      domain.ChangeTypeAdded,
		Summary:   "Initial version stored",
		Impact:    domain.ImpactHigh,
		Changes:   []domain.AnalyzedChange{change},
		CreatedAt: s.now(),
	})
	s.touch(ctx, url)

	return domain.CheckResult{
		Success:      true,
		URL:          url,
		Message:      "Initial version stored",
		NewVersion:   1,
		ChangesFound: 1,
		Changes:      []domain.AnalyzedChange{change},
	}
}

func (s *TrackerService) storeNewVersion(ctx context.Context, url string, crawlType domain.CrawlType, text string, contents []string, oldVersion int) domain.CheckResult {
	newVersion := oldVersion + 1
	if _, err := s.ingestText(ctx, url, crawlType, text, contents, newVersion); err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("storing version %d of %s: %v", newVersion, url, err)}
	}

	changes, err := s.differ.CompareVersions(ctx, url, oldVersion, newVersion)
	if err != nil {
		return domain.CheckResult{URL: url, Error: fmt.Sprintf("diffing %s versions %d and %d: %v", url, oldVersion, newVersion, err)}
	}

	analyzed := make([]domain.AnalyzedChange, len(changes))
	for i, c := range changes {
		analyzed[i] = domain.AnalyzedChange{Change: c, Analysis: AnalyzeChange(c)}
	}

	changeType, summary, impact := aggregateChanges(analyzed)
	if len(analyzed) == 0 {
		// Content diverged at byte level but not at the diff
		// provider's granularity (formatting-only change).
		changeType, summary, impact = domain.ChangeTypeModified, "Formatting-only change", domain.ImpactLow
	}

	s.record(ctx, domain.ChangeRecord{
		URL:       url,
		Version:   newVersion,
		Type:      changeType,
		Summary:   summary,
		Impact:    impact,
		Changes:   analyzed,
		CreatedAt: s.now(),
	})
	s.touch(ctx, url)

	logger.Info("%s changed: version %d -> %d, %d changes", url, oldVersion, newVersion, len(analyzed))
	return domain.CheckResult{
		Success:      true,
		URL:          url,
		OldVersion:   oldVersion,
		NewVersion:   newVersion,
		ChangesFound: len(analyzed),
		Changes:      analyzed,
	}
}

// ingestText stores contents for openapi documents (which carry
// section metadata) or re-chunks raw text for everything else.
func (s *TrackerService) ingestText(ctx context.Context, url string, crawlType domain.CrawlType, text string, contents []string, version int) (int, error) {
	if crawlType == domain.CrawlTypeOpenAPI {
		spec, err := openapi.Parse(text)
		if err != nil {
			return 0, fmt.Errorf("parsing spec at %s: %w", url, err)
		}
		rendered := spec.MarkdownChunks(s.cfg.MaxChunkSize)
		chunkContents := make([]string, len(rendered))
		metas := make([]domain.ChunkMetadata, len(rendered))
		for i, c := range rendered {
			chunkContents[i] = c.Content
			metas[i] = c.Meta
			metas[i].CrawlType = crawlType
		}
		return s.ingestor.IngestPrepared(ctx, url, version, chunkContents, metas)
	}
	return s.ingestor.IngestText(ctx, url, text, crawlType, version)
}

// renderContents produces the comparable chunk contents for text.
func (s *TrackerService) renderContents(crawlType domain.CrawlType, text string) ([]string, error) {
	if crawlType == domain.CrawlTypeOpenAPI {
		spec, err := openapi.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing spec: %v", err)
		}
		rendered := spec.MarkdownChunks(s.cfg.MaxChunkSize)
		contents := make([]string, len(rendered))
		for i, c := range rendered {
			contents[i] = c.Content
		}
		return contents, nil
	}
	return chunker.Chunk(s.cfg, text), nil
}

// crawlTypeFor reads the registered crawl type, defaulting to a text
// file for URLs stored outside monitor registration.
func (s *TrackerService) crawlTypeFor(ctx context.Context, url string) domain.CrawlType {
	doc, err := s.monitors.Get(ctx, url)
	if err != nil || doc == nil {
		return domain.CrawlTypeTextFile
	}
	return doc.CrawlType
}

func (s *TrackerService) record(ctx context.Context, rec domain.ChangeRecord) {
	if err := s.store.UpsertChangeRecord(ctx, rec); err != nil {
		logger.Warn("recording change for %s version %d failed: %v", rec.URL, rec.Version, err)
	}
}

func (s *TrackerService) touch(ctx context.Context, url string) {
	if err := s.monitors.Touch(ctx, url); err != nil {
		logger.Debug("updating last crawl time for %s failed: %v", url, err)
	}
}

// reconstruct joins stored chunk contents in index order.
func reconstruct(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}
