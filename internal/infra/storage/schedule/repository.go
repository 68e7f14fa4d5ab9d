package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookitgy/booking-engine/internal/domain"
	"github.com/bookitgy/booking-engine/pkg/dbmetrics"
	"github.com/bookitgy/booking-engine/pkg/psqlbuilder"
)

// Repository репозиторий провайдеров и их рабочих часов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetProvider получает провайдера по ID
func (r *Repository) GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"display_name",
		"timezone",
		"created_at",
	).
		From("providers").
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - build select query: %v", ErrBuildQuery, err)
	}

	var provider domain.Provider
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&provider.ID,
		&provider.UserID,
		&provider.DisplayName,
		&provider.Timezone,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - scan provider: %v", ErrScanRow, err)
	}

	provider.CreatedAt = createdAt.Time

	return &provider, nil
}

// GetProviderByUserID получает провайдера по ID пользователя
// Используется protected-ручками, работающими от имени текущего пользователя
func (r *Repository) GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"display_name",
		"timezone",
		"created_at",
	).
		From("providers").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var provider domain.Provider
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&provider.ID,
		&provider.UserID,
		&provider.DisplayName,
		&provider.Timezone,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderByUserID - scan provider: %v", ErrScanRow, err)
	}

	provider.CreatedAt = createdAt.Time

	return &provider, nil
}

// GetWorkingHours получает все строки рабочих часов провайдера,
// отсортированные по weekday
// Возвращает ErrNoWorkingHours, если строк нет вовсе
func (r *Repository) GetWorkingHours(ctx context.Context, providerID int64) (domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"weekday",
		"is_closed",
		"open_time",
		"close_time",
	).
		From("provider_working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := make(domain.WeekSchedule, 0, domain.DaysPerWeek)
	for rows.Next() {
		var rule domain.WorkingHoursRule

		err := rows.Scan(
			&rule.ID,
			&rule.ProviderID,
			&rule.Weekday,
			&rule.IsClosed,
			&rule.OpenTime,
			&rule.CloseTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
		}

		schedule = append(schedule, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	if len(schedule) == 0 {
		return nil, ErrNoWorkingHours
	}

	return schedule, nil
}

// CreateWorkingHours вставляет набор правил рабочих часов
// Используется при создании дефолтного расписания нового провайдера
func (r *Repository) CreateWorkingHours(ctx context.Context, schedule domain.WeekSchedule) (domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("provider_working_hours").
		Columns("provider_id", "weekday", "is_closed", "open_time", "close_time")

	for _, rule := range schedule {
		insertBuilder = insertBuilder.Values(
			rule.ProviderID,
			rule.Weekday,
			rule.IsClosed,
			rule.OpenTime,
			rule.CloseTime,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	return r.GetWorkingHours(ctx, schedule[0].ProviderID)
}

// UpsertWorkingHours заменяет правило для одного weekday провайдера
// ON CONFLICT по (provider_id, weekday): правила переключаются, не удаляются
func (r *Repository) UpsertWorkingHours(ctx context.Context, rule *domain.WorkingHoursRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("provider_working_hours").
		Columns("provider_id", "weekday", "is_closed", "open_time", "close_time").
		Values(rule.ProviderID, rule.Weekday, rule.IsClosed, rule.OpenTime, rule.CloseTime).
		Suffix(`ON CONFLICT (provider_id, weekday)
DO UPDATE SET is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertWorkingHours - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertWorkingHours - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
