package slotlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
	"github.com/m04kA/SMC-CourtScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtScheduler/pkg/psqlbuilder"
)

var (
	// ErrNoTransaction возвращается при попытке взять блокировку вне транзакции
	ErrNoTransaction = errors.New("slotlock.repository: lock requires an active transaction")

	// ErrLock возвращается при ошибке получения блокировки
	ErrLock = errors.New("slotlock.repository: failed to acquire slot lock")
)

// Repository сериализует операции над одним слотом через advisory lock PostgreSQL.
// Блокировка держится до конца транзакции; разные слоты друг друга не блокируют.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий блокировок слотов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSlot берёт транзакционную блокировку слота
func (r *Repository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return ErrNoTransaction
	}

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", key.String())).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build query: %v", ErrLock, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLock, key, err)
	}

	return nil
}
