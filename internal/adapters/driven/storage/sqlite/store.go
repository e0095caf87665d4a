package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docmon-labs/docmon-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document and monitor store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docmon/data/docmon.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docmon", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docmon.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// MonitorStore returns a MonitorStore interface backed by this store.
func (s *Store) MonitorStore() driven.MonitorStore {
	return &monitorStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// InsertChunks stores chunk rows in a single transaction.
func (d *documentStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crawled_pages (id, url, chunk_index, content, version, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url, chunk_index, version) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for chunk %d of %s: %w", chunk.ChunkIndex, chunk.URL, err)
		}
		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.URL, chunk.ChunkIndex, chunk.Content,
			chunk.Version, embeddingBlob, string(metadataJSON), now); err != nil {
			return fmt.Errorf("inserting chunk %d of %s: %w", chunk.ChunkIndex, chunk.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// DeleteChunksByURL removes every stored chunk for the given URLs.
func (d *documentStore) DeleteChunksByURL(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(urls)), ",")
	args := make([]any, len(urls))
	for i, u := range urls {
		args[i] = u
	}
	if _, err := d.store.db.ExecContext(ctx,
		"DELETE FROM crawled_pages WHERE url IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// LatestVersion returns the highest stored version for a URL.
func (d *documentStore) LatestVersion(ctx context.Context, url string) (int, error) {
	var version int
	row := d.store.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM crawled_pages WHERE url = ?", url)
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("reading latest version: %w", err)
	}
	return version, nil
}

// ChunksForVersion returns all chunks stored under (url, version),
// ordered by chunk index.
func (d *documentStore) ChunksForVersion(ctx context.Context, url string, version int) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, url, chunk_index, content, version, embedding, metadata
		FROM crawled_pages
		WHERE url = ? AND version = ?
		ORDER BY chunk_index
	`, url, version)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// VectorSearch ranks newest-version chunks by cosine similarity,
// computed in Go over the candidate rows.
func (d *documentStore) VectorSearch(ctx context.Context, embedding []float32, matchCount int, filter domain.SearchFilter, threshold float64) ([]driven.VectorMatch, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, url, chunk_index, content, version, embedding, metadata
		FROM crawled_pages p
		WHERE embedding IS NOT NULL
		  AND version = (SELECT MAX(version) FROM crawled_pages q WHERE q.url = p.url)
	`)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	var matches []driven.VectorMatch
	for _, c := range chunks {
		if len(c.Embedding) == 0 || !filter.Matches(c.Metadata) {
			continue
		}
		sim := cosineSimilarity(embedding, c.Embedding)
		if sim < threshold {
			continue
		}
		matches = append(matches, driven.VectorMatch{Chunk: c, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if matchCount > 0 && len(matches) > matchCount {
		matches = matches[:matchCount]
	}
	return matches, nil
}

// KeywordSearch returns newest-version chunks containing the pattern,
// case-insensitive.
func (d *documentStore) KeywordSearch(ctx context.Context, pattern string, filter domain.SearchFilter, limit int) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, url, chunk_index, content, version, embedding, metadata
		FROM crawled_pages p
		WHERE LOWER(content) LIKE '%' || LOWER(?) || '%' ESCAPE '\'
		  AND version = (SELECT MAX(version) FROM crawled_pages q WHERE q.url = p.url)
		ORDER BY url, chunk_index
	`, escapeLike(pattern))
	if err != nil {
		return nil, fmt.Errorf("querying keyword matches: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	var out []domain.Chunk
	for _, c := range chunks {
		if !filter.Matches(c.Metadata) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// URLs returns every distinct URL with stored chunks.
func (d *documentStore) URLs(ctx context.Context) ([]string, error) {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT DISTINCT url FROM crawled_pages ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("querying urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// Sources returns the distinct source domains with stored chunks.
// Domains live inside the metadata JSON, so the distinct set is built
// in Go.
func (d *documentStore) Sources(ctx context.Context) ([]string, error) {
	rows, err := d.store.db.QueryContext(ctx, "SELECT metadata FROM crawled_pages")
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}
	defer rows.Close()

	set := map[string]struct{}{}
	for rows.Next() {
		var metadataJSON string
		if err := rows.Scan(&metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning metadata: %w", err)
		}
		var meta domain.ChunkMetadata
		if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
			continue
		}
		if meta.SourceDomain != "" {
			set[meta.SourceDomain] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(set))
	for dmn := range set {
		sources = append(sources, dmn)
	}
	sort.Strings(sources)
	return sources, nil
}

// UpsertChangeRecord stores a change record keyed on (url, version).
func (d *documentStore) UpsertChangeRecord(ctx context.Context, rec domain.ChangeRecord) error {
	changesJSON, err := json.Marshal(rec.Changes)
	if err != nil {
		return fmt.Errorf("marshalling changes: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = d.store.db.ExecContext(ctx, `
		INSERT INTO document_changes (url, version, change_type, summary, impact, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url, version) DO UPDATE SET
			change_type = excluded.change_type,
			summary = excluded.summary,
			impact = excluded.impact,
			changes = excluded.changes
	`, rec.URL, rec.Version, string(rec.Type), rec.Summary, string(rec.Impact),
		string(changesJSON), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving change record: %w", err)
	}
	return nil
}

// ChangeHistory returns change records for a URL, newest version first.
func (d *documentStore) ChangeHistory(ctx context.Context, url string) ([]domain.ChangeRecord, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT url, version, change_type, summary, impact, changes, created_at
		FROM document_changes
		WHERE url = ?
		ORDER BY version DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("querying change history: %w", err)
	}
	defer rows.Close()

	var records []domain.ChangeRecord
	for rows.Next() {
		var rec domain.ChangeRecord
		var changeType, impact, changesJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.URL, &rec.Version, &changeType, &rec.Summary,
			&impact, &changesJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning change record: %w", err)
		}
		rec.Type = domain.ChangeType(changeType)
		rec.Impact = domain.ChangeImpact(impact)
		if err := json.Unmarshal([]byte(changesJSON), &rec.Changes); err != nil {
			return nil, fmt.Errorf("unmarshalling changes: %w", err)
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ==================== Monitor Store ====================

// monitorStore implements driven.MonitorStore.
type monitorStore struct {
	store *Store
}

var _ driven.MonitorStore = (*monitorStore)(nil)

// Upsert stores or updates a monitored document keyed on URL.
func (m *monitorStore) Upsert(ctx context.Context, doc domain.MonitoredDocument) error {
	if doc.DateAdded.IsZero() {
		doc.DateAdded = time.Now().UTC()
	}
	_, err := m.store.db.ExecContext(ctx, `
		INSERT INTO monitored_documentations (url, crawl_type, status, notes, date_added, last_crawled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			crawl_type = excluded.crawl_type,
			status = excluded.status,
			notes = excluded.notes
	`, doc.URL, string(doc.CrawlType), string(doc.Status), doc.Notes,
		doc.DateAdded, nullTime(doc.LastCrawledAt))
	if err != nil {
		return fmt.Errorf("saving monitored document: %w", err)
	}
	return nil
}

// Get retrieves a monitored document by URL. Returns nil when the URL
// was never registered.
func (m *monitorStore) Get(ctx context.Context, url string) (*domain.MonitoredDocument, error) {
	row := m.store.db.QueryRowContext(ctx, `
		SELECT url, crawl_type, status, notes, date_added, last_crawled_at
		FROM monitored_documentations WHERE url = ?
	`, url)

	doc, err := scanMonitoredDocument(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns monitored documents with the given status, ordered by
// date added.
func (m *monitorStore) List(ctx context.Context, status domain.MonitorStatus) ([]domain.MonitoredDocument, error) {
	rows, err := m.store.db.QueryContext(ctx, `
		SELECT url, crawl_type, status, notes, date_added, last_crawled_at
		FROM monitored_documentations
		WHERE status = ?
		ORDER BY date_added
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("querying monitored documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.MonitoredDocument
	for rows.Next() {
		doc, err := scanMonitoredDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// SetStatus updates the lifecycle status for a URL.
func (m *monitorStore) SetStatus(ctx context.Context, url string, status domain.MonitorStatus) error {
	res, err := m.store.db.ExecContext(ctx,
		"UPDATE monitored_documentations SET status = ? WHERE url = ?", string(status), url)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Touch records the time content was last crawled for a URL.
func (m *monitorStore) Touch(ctx context.Context, url string) error {
	res, err := m.store.db.ExecContext(ctx,
		"UPDATE monitored_documentations SET last_crawled_at = ? WHERE url = ?",
		time.Now().UTC(), url)
	if err != nil {
		return fmt.Errorf("updating last crawl time: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helpers ====================

// scanChunks reads chunk rows from a query over the standard column
// list.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.URL, &chunk.ChunkIndex, &chunk.Content,
			&chunk.Version, &embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func scanMonitoredDocument(scan func(...any) error) (*domain.MonitoredDocument, error) {
	var doc domain.MonitoredDocument
	var crawlType, status string
	var dateAdded, lastCrawled sql.NullTime
	if err := scan(&doc.URL, &crawlType, &status, &doc.Notes, &dateAdded, &lastCrawled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning monitored document: %w", err)
	}
	doc.CrawlType = domain.CrawlType(crawlType)
	doc.Status = domain.MonitorStatus(status)
	if dateAdded.Valid {
		doc.DateAdded = dateAdded.Time
	}
	if lastCrawled.Valid {
		doc.LastCrawledAt = lastCrawled.Time
	}
	return &doc, nil
}

// nullTime converts a zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// escapeLike escapes LIKE wildcards in a user-supplied pattern.
func escapeLike(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(pattern)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes cosine similarity, 0 when either vector is
// zero or the dimensions differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
