package watchlist

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shortlist/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrLocked indicates another shortlist process holds the data directory.
var ErrLocked = errors.New("watchlist database is locked by another process")

// Store manages watch-list persistence backed by SQLite. A file lock in the
// data directory enforces a single writer.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the watchlist database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "shortlist.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "watchlist.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the data lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'shortlist clear --yes' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// AddMany appends one new unenriched entry per input title. Titles that are
// empty after trimming are skipped. Returns the number of entries added.
func (s *Store) AddMany(ctx context.Context, titles []string, defaultType MediaType) (int, error) {
	entries := make([]NewEntry, 0, len(titles))
	for _, title := range titles {
		entries = append(entries, NewEntry{Title: title, MediaType: defaultType})
	}
	return s.AddEntries(ctx, entries)
}

// AddEntries appends new unenriched entries preserving input order, with a
// per-entry media type. Entries whose title is empty after trimming are
// skipped. Returns the number of entries added.
func (s *Store) AddEntries(ctx context.Context, entries []NewEntry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var position int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), 0) FROM entries").Scan(&position); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	added := 0
	for _, candidate := range entries {
		title := strings.TrimSpace(candidate.Title)
		if title == "" {
			continue
		}
		mediaType := candidate.MediaType
		if mediaType == "" {
			mediaType = MediaTypeUnknown
		}
		position++
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, position, title, original_title, media_type, details_fetched, watched, added_at)
             VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
			uuid.NewString(), position, title, title, string(mediaType), now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert entry %q: %w", title, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Get fetches an entry by identifier, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns all entries ordered by insertion position.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Update persists an entry by full-row write. A missing id is a silent no-op.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if strings.TrimSpace(entry.Title) == "" {
		return errors.New("entry title must not be empty")
	}
	genreJSON, err := encodeGenreIDs(entry.GenreIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE entries
         SET title = ?, original_title = ?, media_type = ?, catalog_id = ?,
             overview = ?, poster_path = ?, backdrop_path = ?, release_date = ?,
             original_language = ?, genre_ids = ?, popularity = ?, vote_average = ?,
             vote_count = ?, imdb_rating = ?, imdb_id = ?, rt_rating = ?,
             metacritic = ?, details_fetched = ?, watched = ?
         WHERE id = ?`,
		entry.Title,
		entry.OriginalTitle,
		string(entry.MediaType),
		nullableInt64(entry.CatalogID),
		nullableString(entry.Overview),
		nullableString(entry.PosterPath),
		nullableString(entry.BackdropPath),
		nullableString(entry.ReleaseDate),
		nullableString(entry.OriginalLanguage),
		nullableString(genreJSON),
		entry.Popularity,
		entry.VoteAverage,
		entry.VoteCount,
		nullableFloatPtr(entry.IMDBRating),
		nullableString(entry.IMDBID),
		nullableIntPtr(entry.RTRating),
		nullableIntPtr(entry.Metacritic),
		boolToInt(entry.DetailsFetched),
		boolToInt(entry.Watched),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// SetWatched toggles the watched flag. Returns false when the id is unknown.
func (s *Store) SetWatched(ctx context.Context, id string, watched bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE entries SET watched = ? WHERE id = ?`, boolToInt(watched), id)
	if err != nil {
		return false, fmt.Errorf("set watched: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReplaceAll replaces the whole collection in one transaction, renumbering
// positions to match the given order.
func (s *Store) ReplaceAll(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	for i, entry := range entries {
		genreJSON, err := encodeGenreIDs(entry.GenreIDs)
		if err != nil {
			return err
		}
		addedAt := entry.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (
                id, position, title, original_title, media_type, catalog_id,
                overview, poster_path, backdrop_path, release_date, original_language,
                genre_ids, popularity, vote_average, vote_count, imdb_rating,
                imdb_id, rt_rating, metacritic, details_fetched, watched, added_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID,
			i+1,
			entry.Title,
			entry.OriginalTitle,
			string(entry.MediaType),
			nullableInt64(entry.CatalogID),
			nullableString(entry.Overview),
			nullableString(entry.PosterPath),
			nullableString(entry.BackdropPath),
			nullableString(entry.ReleaseDate),
			nullableString(entry.OriginalLanguage),
			nullableString(genreJSON),
			entry.Popularity,
			entry.VoteAverage,
			entry.VoteCount,
			nullableFloatPtr(entry.IMDBRating),
			nullableString(entry.IMDBID),
			nullableIntPtr(entry.RTRating),
			nullableIntPtr(entry.Metacritic),
			boolToInt(entry.DetailsFetched),
			boolToInt(entry.Watched),
			addedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert entry %q: %w", entry.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear removes all entries. Returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// DedupeAll collapses duplicate titles in place and returns the removed count.
func (s *Store) DedupeAll(ctx context.Context) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	deduped, removed := Dedupe(entries)
	if removed == 0 {
		return 0, nil
	}
	if err := s.ReplaceAll(ctx, deduped); err != nil {
		return 0, err
	}
	return removed, nil
}

const entryColumns = "id, position, title, original_title, media_type, catalog_id, overview, poster_path, backdrop_path, release_date, original_language, genre_ids, popularity, vote_average, vote_count, imdb_rating, imdb_id, rt_rating, metacritic, details_fetched, watched, added_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id          string
		position    int64
		title       string
		origTitle   string
		mediaType   string
		catalogID   sql.NullInt64
		overview    sql.NullString
		posterPath  sql.NullString
		backdrop    sql.NullString
		releaseDate sql.NullString
		language    sql.NullString
		genreJSON   sql.NullString
		popularity  sql.NullFloat64
		voteAverage sql.NullFloat64
		voteCount   sql.NullInt64
		imdbRating  sql.NullFloat64
		imdbID      sql.NullString
		rtRating    sql.NullInt64
		metacritic  sql.NullInt64
		fetched     int
		watched     int
		addedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&position,
		&title,
		&origTitle,
		&mediaType,
		&catalogID,
		&overview,
		&posterPath,
		&backdrop,
		&releaseDate,
		&language,
		&genreJSON,
		&popularity,
		&voteAverage,
		&voteCount,
		&imdbRating,
		&imdbID,
		&rtRating,
		&metacritic,
		&fetched,
		&watched,
		&addedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:               id,
		Title:            title,
		OriginalTitle:    origTitle,
		MediaType:        MediaType(mediaType),
		CatalogID:        catalogID.Int64,
		Overview:         overview.String,
		PosterPath:       posterPath.String,
		BackdropPath:     backdrop.String,
		ReleaseDate:      releaseDate.String,
		OriginalLanguage: language.String,
		Popularity:       popularity.Float64,
		VoteAverage:      voteAverage.Float64,
		VoteCount:        voteCount.Int64,
		IMDBID:           imdbID.String,
		DetailsFetched:   fetched != 0,
		Watched:          watched != 0,
	}

	if genreJSON.Valid && genreJSON.String != "" {
		ids, err := decodeGenreIDs(genreJSON.String)
		if err != nil {
			return nil, err
		}
		entry.GenreIDs = ids
	}
	if imdbRating.Valid {
		v := imdbRating.Float64
		entry.IMDBRating = &v
	}
	if rtRating.Valid {
		v := int(rtRating.Int64)
		entry.RTRating = &v
	}
	if metacritic.Valid {
		v := int(metacritic.Int64)
		entry.Metacritic = &v
	}
	if added, err := time.Parse(time.RFC3339Nano, addedRaw); err == nil {
		entry.AddedAt = added
	}
	return entry, nil
}

func encodeGenreIDs(ids []int64) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode genre ids: %w", err)
	}
	return string(data), nil
}

func decodeGenreIDs(value string) ([]int64, error) {
	var ids []int64
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("decode genre ids: %w", err)
	}
	return ids, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloatPtr(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableIntPtr(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
