package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"workua-scraper/internal/observability"
	"workua-scraper/internal/storage"
)

// Ожидаемая таблица:
//
//	CREATE TABLE TblJobListings (
//	  [Key] CHAR(64) PRIMARY KEY, [Title] NVARCHAR(512), [Company] NVARCHAR(256),
//	  [Salary] NVARCHAR(64), [SalaryValue] FLOAT, [City] NVARCHAR(128),
//	  [Published] NVARCHAR(64), [PublishedAt] DATE NULL, [Link] NVARCHAR(1024),
//	  [Page] INT, [Query] NVARCHAR(256), [FirstSeen] DATETIME2, [LastSeen] DATETIME2,
//	  [SeenCount] INT DEFAULT 1)
type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
}

func NewRepository(dsn string, commandTimeoutMS int, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Тестируем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: time.Duration(commandTimeoutMS) * time.Millisecond,
		logger:         logger,
	}, nil
}

// UpsertListing сохраняет или обновляет вакансию.
// $action из OUTPUT говорит, была ли вставка.
func (r *Repository) UpsertListing(ctx context.Context, rec *storage.ListingRecord) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	query := `
		MERGE INTO TblJobListings AS target
		USING (SELECT @Key AS [Key]) AS source
		ON target.[Key] = source.[Key]
		WHEN MATCHED THEN
			UPDATE SET
				[Salary] = @Salary,
				[SalaryValue] = @SalaryValue,
				[City] = @City,
				[Published] = @Published,
				[PublishedAt] = @PublishedAt,
				[Page] = @Page,
				[Query] = @Query,
				[LastSeen] = @SeenAt,
				[SeenCount] = target.[SeenCount] + 1
		WHEN NOT MATCHED THEN
			INSERT ([Key], [Title], [Company], [Salary], [SalaryValue], [City], [Published], [PublishedAt], [Link], [Page], [Query], [FirstSeen], [LastSeen], [SeenCount])
			VALUES (@Key, @Title, @Company, @Salary, @SalaryValue, @City, @Published, @PublishedAt, @Link, @Page, @Query, @SeenAt, @SeenAt, 1)
		OUTPUT $action;
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	seenAt := rec.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	var action string
	err = stmt.QueryRowContext(ctx,
		sql.Named("Key", rec.Key),
		sql.Named("Title", rec.Title),
		sql.Named("Company", rec.Company),
		sql.Named("Salary", rec.Salary),
		sql.Named("SalaryValue", rec.SalaryValue),
		sql.Named("City", rec.City),
		sql.Named("Published", rec.Published),
		sql.Named("PublishedAt", storage.NullableTime(rec.PublishedAt)),
		sql.Named("Link", rec.Link),
		sql.Named("Page", rec.Page),
		sql.Named("Query", rec.Query),
		sql.Named("SeenAt", seenAt.UTC()),
	).Scan(&action)
	if err != nil {
		return false, fmt.Errorf("failed to execute upsert: %w", err)
	}

	return action == "INSERT", nil
}

// ExistsByKey проверяет наличие вакансии по ключу
func (r *Repository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM TblJobListings WHERE [Key] = @Key`, sql.Named("Key", key)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}

	return count > 0, nil
}

// CountListings количество вакансий в истории
func (r *Repository) CountListings(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM TblJobListings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}

	return count, nil
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
