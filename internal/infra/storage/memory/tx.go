package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// ErrNoTransaction возвращается при попытке взять блокировку слота вне транзакции
var ErrNoTransaction = errors.New("memory: lock requires an active transaction")

type txKey struct{}

// txState состояние in-memory транзакции: взятые блокировки и откат изменений
type txState struct {
	held    map[string]bool
	unlocks []func()
	undo    []func()
}

func getTx(ctx context.Context) (*txState, bool) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	return tx, ok
}

// onRollback регистрирует откат изменения, если код выполняется в транзакции
func onRollback(ctx context.Context, fn func()) {
	if tx, ok := getTx(ctx); ok {
		tx.undo = append(tx.undo, fn)
	}
}

// TxManager выполняет функции в in-memory транзакции.
// Блокировки слотов держатся до выхода из Do; при ошибке изменения откатываются.
type TxManager struct{}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := getTx(ctx); ok {
		return fn(ctx)
	}

	tx := &txState{held: make(map[string]bool)}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			tx.release()
			panic(p)
		}
		if err != nil {
			tx.rollback()
		}
		tx.release()
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// DoSerializable в памяти эквивалентен Do: конфликтующие операции сериализуются блокировками слотов
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции без изменений
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (tx *txState) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *txState) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
	tx.unlocks = nil
}

// SlotLockRepository блокировки слотов на keyed mutex
type SlotLockRepository struct {
	store *Store
}

// LockSlot берёт блокировку слота до конца текущей транзакции
func (r *SlotLockRepository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	tx, ok := getTx(ctx)
	if !ok {
		return ErrNoTransaction
	}

	// повторная блокировка того же слота в транзакции не ждёт, как и advisory lock
	if tx.held[key.String()] {
		return nil
	}

	unlock, err := r.store.locks.Lock(ctx, key.String())
	if err != nil {
		return fmt.Errorf("memory: lock %s: %w", key, err)
	}
	tx.held[key.String()] = true
	tx.unlocks = append(tx.unlocks, unlock)

	return nil
}
