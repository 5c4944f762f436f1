package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"workua-scraper/internal/observability"
	"workua-scraper/internal/storage"
)

const schemaVersion = 1

type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
}

// NewRepository открывает файл БД (создаёт при отсутствии) и накатывает схему.
// path — путь к файлу или готовый DSN "file:...".
func NewRepository(path string, commandTimeoutMS int, logger *observability.Logger) (*Repository, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite — один писатель
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: time.Duration(commandTimeoutMS) * time.Millisecond,
		logger:         logger,
	}, nil
}

// Migrate создаёт схему, версия хранится в PRAGMA user_version
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS listings (
  key TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  salary TEXT NOT NULL,
  salary_value REAL NOT NULL DEFAULT 0,
  city TEXT NOT NULL,
  published TEXT NOT NULL,
  published_at TEXT,
  link TEXT NOT NULL,
  page INTEGER NOT NULL DEFAULT 0,
  query TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL,
  seen_count INTEGER NOT NULL DEFAULT 1
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_listings_last_seen ON listings(last_seen);`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}

// UpsertListing вставляет вакансию или обновляет поля и счётчик показов
func (r *Repository) UpsertListing(ctx context.Context, rec *storage.ListingRecord) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	seenAt := rec.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}
	seen := seenAt.UTC().Format(time.RFC3339)

	var publishedAt interface{}
	if !rec.PublishedAt.IsZero() {
		publishedAt = rec.PublishedAt.UTC().Format("2006-01-02")
	}

	var seenCount int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO listings (key, title, company, salary, salary_value, city, published, published_at, link, page, query, first_seen, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  salary = excluded.salary,
  salary_value = excluded.salary_value,
  city = excluded.city,
  published = excluded.published,
  published_at = excluded.published_at,
  page = excluded.page,
  query = excluded.query,
  last_seen = excluded.last_seen,
  seen_count = listings.seen_count + 1
RETURNING seen_count;
`,
		rec.Key, rec.Title, rec.Company, rec.Salary, rec.SalaryValue, rec.City,
		rec.Published, publishedAt, rec.Link, rec.Page, rec.Query, seen, seen,
	).Scan(&seenCount)
	if err != nil {
		return false, fmt.Errorf("failed to execute upsert: %w", err)
	}

	return seenCount == 1, nil
}

func (r *Repository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings WHERE key = ?`, key).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) CountListings(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}
	return count, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
