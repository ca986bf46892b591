package block

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-CourtScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtScheduler/pkg/psqlbuilder"
)

const tableName = "blocks"

var columns = []string{
	"id",
	"court_id",
	"block_date",
	"start_time",
	"end_time",
	"created_by",
	"created_at",
	"removed_at",
	"removed_by",
}

// Repository репозиторий блокировок слотов владельцем
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет активную блокировку слота
func (r *Repository) Create(ctx context.Context, b *domain.Block) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "court_id", "block_date", "start_time", "end_time", "created_by", "created_at").
		Values(b.ID, b.CourtID, b.Date, b.Start, b.End, b.CreatedBy, b.CreatedAt).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlotBlocked, b.Key())
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// GetActiveBySlot получает активную блокировку слота
func (r *Repository) GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"court_id":   key.CourtID,
			"block_date": key.Date,
			"start_time": key.Start,
			"end_time":   key.End,
			"removed_at": nil,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - scan block: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListActiveByCourtAndDate возвращает активные блокировки корта на дату
func (r *Repository) ListActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"court_id":   courtID,
			"block_date": date,
			"removed_at": nil,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCourtAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCourtAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.Block, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByCourtAndDate - scan row: %v", ErrScanRow, err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCourtAndDate - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// Remove снимает блокировку (мягкое удаление, запись остаётся в истории)
func (r *Repository) Remove(ctx context.Context, id uuid.UUID, removedBy int64, removedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("removed_at", removedAt).
		Set("removed_by", removedBy).
		Where(squirrel.Eq{"id": id, "removed_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Remove - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Remove - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Remove - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row scanner) (*domain.Block, error) {
	var (
		b         domain.Block
		removedAt sql.NullTime
		removedBy sql.NullInt64
	)

	err := row.Scan(
		&b.ID,
		&b.CourtID,
		&b.Date,
		&b.Start,
		&b.End,
		&b.CreatedBy,
		&b.CreatedAt,
		&removedAt,
		&removedBy,
	)
	if err != nil {
		return nil, err
	}

	if removedAt.Valid {
		t := removedAt.Time
		b.RemovedAt = &t
	}
	if removedBy.Valid {
		v := removedBy.Int64
		b.RemovedBy = &v
	}

	return &b, nil
}
