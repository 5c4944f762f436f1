package storage

import (
	"context"
	"time"
)

// ListingRecord — принятая вакансия для истории запусков
type ListingRecord struct {
	Key         string // SHA256(link|title|company)
	Title       string
	Company     string
	Salary      string
	SalaryValue float64 // для сортировки, 0 если не указана
	City        string
	Published   string
	PublishedAt time.Time // нулевое значение, если дату не удалось разобрать
	Link        string
	Page        int
	Query       string
	SeenAt      time.Time
}

// Repository интерфейс для работы с историей вакансий
type Repository interface {
	// UpsertListing сохраняет или обновляет вакансию, isNew — впервые увидели
	UpsertListing(ctx context.Context, rec *ListingRecord) (isNew bool, err error)

	// ExistsByKey проверяет наличие вакансии по ключу
	ExistsByKey(ctx context.Context, key string) (bool, error)

	// CountListings количество вакансий в истории
	CountListings(ctx context.Context) (int, error)

	Close() error
}

// NullableTime переводит нулевое время в NULL для БД
func NullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
