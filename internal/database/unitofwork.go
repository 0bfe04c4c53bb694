package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Unit of work errors
var (
	ErrNotConnected     = errors.New("query runner is not connected")
	ErrNoTransaction    = errors.New("no transaction is open")
	ErrTransactionOpen  = errors.New("transaction already open")
	ErrRunnerReleased   = errors.New("query runner already released")
	ErrUnknownPrimaryID = errors.New("record has no primary key")
)

// Runner is a transactional unit of work bound to one connection
type Runner interface {
	Connect(ctx context.Context) error
	StartTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	Release(ctx context.Context) error
	Manager() Manager
}

// Manager writes records through a runner
type Manager interface {
	Save(ctx context.Context, value any) error
	Increment(ctx context.Context, value any, column string, by int) error
}

var (
	_ Runner  = (*QueryRunner)(nil)
	_ Manager = (*EntityManager)(nil)
)

// QueryRunnerFactory hands out query runners backed by the connection pool
type QueryRunnerFactory struct {
	db *gorm.DB
}

// NewQueryRunnerFactory creates a factory over db
func NewQueryRunnerFactory(db *gorm.DB) *QueryRunnerFactory {
	return &QueryRunnerFactory{db: db}
}

// CreateQueryRunner returns an unconnected runner
func (f *QueryRunnerFactory) CreateQueryRunner() Runner {
	return &QueryRunner{db: f.db}
}

// QueryRunner owns a single connection taken from the pool and at most one
// transaction on it. It is not safe for concurrent use.
type QueryRunner struct {
	db       *gorm.DB
	conn     *sql.Conn
	session  *gorm.DB
	tx       *gorm.DB
	released bool
}

// Connect reserves a dedicated connection from the pool
func (r *QueryRunner) Connect(ctx context.Context) error {
	if r.released {
		return ErrRunnerReleased
	}
	if r.conn != nil {
		return nil
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}

	session := r.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = conn
	r.conn = conn
	r.session = session
	return nil
}

// StartTransaction begins a transaction on the reserved connection
func (r *QueryRunner) StartTransaction(ctx context.Context) error {
	if r.conn == nil {
		return ErrNotConnected
	}
	if r.tx != nil {
		return ErrTransactionOpen
	}

	tx := r.session.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}
	r.tx = tx
	return nil
}

// CommitTransaction commits the open transaction
func (r *QueryRunner) CommitTransaction(ctx context.Context) error {
	if r.tx == nil {
		return ErrNoTransaction
	}
	tx := r.tx
	r.tx = nil
	if err := tx.WithContext(ctx).Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction discards the open transaction
func (r *QueryRunner) RollbackTransaction(ctx context.Context) error {
	if r.tx == nil {
		return ErrNoTransaction
	}
	tx := r.tx
	r.tx = nil
	if err := tx.WithContext(ctx).Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// Release rolls back a transaction left open and returns the connection
// to the pool. Releasing an unconnected runner only marks it released.
func (r *QueryRunner) Release(ctx context.Context) error {
	if r.released {
		return ErrRunnerReleased
	}
	r.released = true

	var errs []error
	if r.tx != nil {
		errs = append(errs, r.RollbackTransaction(ctx))
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release connection: %w", err))
		}
		r.conn = nil
		r.session = nil
	}
	return errors.Join(errs...)
}

// Manager returns the entity manager bound to the runner's transaction,
// or to its bare connection when no transaction is open
func (r *QueryRunner) Manager() Manager {
	if r.tx != nil {
		return &EntityManager{db: r.tx}
	}
	return &EntityManager{db: r.session}
}

// EntityManager persists records through a query runner
type EntityManager struct {
	db *gorm.DB
}

// Save inserts or updates value by identity
func (m *EntityManager) Save(ctx context.Context, value any) error {
	if m.db == nil {
		return ErrNotConnected
	}
	if err := m.db.WithContext(ctx).Save(value).Error; err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Increment adds by to column in storage and reads the new value back into value
func (m *EntityManager) Increment(ctx context.Context, value any, column string, by int) error {
	if m.db == nil {
		return ErrNotConnected
	}

	db := m.db.WithContext(ctx)
	result := db.Model(value).Omit(clause.Associations).UpdateColumn(column, gorm.Expr(column+" + ?", by))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrMissingWhereClause) {
			return ErrUnknownPrimaryID
		}
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to increment %s: %w", column, gorm.ErrRecordNotFound)
	}
	if err := db.Select(column).Take(value).Error; err != nil {
		return fmt.Errorf("failed to reload %s: %w", column, err)
	}
	return nil
}
