// Package engine wires the storage layers, catalog and planners into the
// single entry point embedders use to open transactions and run SQL,
// following the same top-level assembly teacher's server.CentauriDB does.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"quarrydb/internal/config"
	"quarrydb/internal/index/planner"
	"quarrydb/internal/logging"
	"quarrydb/internal/metadata"
	"quarrydb/internal/metrics"
	"quarrydb/internal/plan"
	"quarrydb/internal/storage/buffer"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/storage/wal"
)

// Engine owns the storage stack for one database directory: the file
// manager, write-ahead log, buffer pool, lock table, catalog, and the
// planner that compiles and executes SQL text against them. All of it is
// safe for concurrent use by multiple transactions.
type Engine struct {
	cfg config.Config
	fm  *file.FileManager
	lm  *wal.LogManager
	bm  *buffer.BufferManager
	lt  *tx.LockTable

	mu      sync.RWMutex
	mdm     *metadata.Manager
	planner *plan.Planner
}

// Open creates or recovers the database at cfg.DBDirectory, running undo
// recovery when an existing log is found, then initializes the catalog and
// the index-aware planner.
func Open(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(cfg.LoggingConfig())
	log := logging.Component("engine")

	if err := os.MkdirAll(cfg.DBDirectory, 0755); err != nil {
		return nil, fmt.Errorf("engine: create directory %s: %w", cfg.DBDirectory, err)
	}

	fm, err := file.NewFileManager(cfg.DBDirectory, cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("engine: file manager: %w", err)
	}

	// The database is new when it has no log yet; NewLogManager creates one.
	_, statErr := os.Stat(filepath.Join(cfg.DBDirectory, cfg.LogFile))
	isNew := os.IsNotExist(statErr)

	lm, err := wal.NewLogManager(fm, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("engine: log manager: %w", err)
	}

	bm := buffer.NewBufferManager(fm, lm, cfg.BufferPoolSize, cfg.LockWaitTimeout)
	lt := tx.NewLockTable(cfg.LockWaitTimeout)

	e := &Engine{cfg: cfg, fm: fm, lm: lm, bm: bm, lt: lt}

	t, err := e.NewTx()
	if err != nil {
		return nil, fmt.Errorf("engine: open startup transaction: %w", err)
	}

	if isNew {
		log.Info().Msg("creating new database")
	} else {
		log.Info().Msg("recovering existing database")
		timer := metrics.NewTimer()
		if err := t.Recover(); err != nil {
			return nil, fmt.Errorf("engine: recovery failed: %w", err)
		}
		timer.ObserveDuration(metrics.RecoveryDuration)
		metrics.RecoveriesTotal.Inc()
	}

	mdm, err := metadata.NewManager(isNew, t)
	if err != nil {
		return nil, fmt.Errorf("engine: catalog init: %w", err)
	}
	e.mdm = mdm

	qp := plan.NewBasicQueryPlanner(mdm)
	up := planner.NewIndexUpdatePlanner(mdm)
	e.planner = plan.NewPlanner(qp, up)

	if err := t.Commit(); err != nil {
		return nil, fmt.Errorf("engine: commit startup transaction: %w", err)
	}

	return e, nil
}

// NewTx starts a new transaction against this engine's storage stack.
func (e *Engine) NewTx() (*tx.Transaction, error) {
	metrics.TransactionsActive.Inc()
	t, err := tx.NewTransaction(e.fm, e.lm, e.bm, e.lt)
	if err != nil {
		metrics.TransactionsActive.Dec()
		return nil, err
	}
	return t, nil
}

// Planner returns the engine's SQL planner.
func (e *Engine) Planner() *plan.Planner {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.planner
}

// Catalog returns the engine's metadata manager.
func (e *Engine) Catalog() *metadata.Manager {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mdm
}

func (e *Engine) FileMgr() *file.FileManager       { return e.fm }
func (e *Engine) LogMgr() *wal.LogManager          { return e.lm }
func (e *Engine) BufferMgr() *buffer.BufferManager { return e.bm }

// Close flushes and releases the engine's open files.
func (e *Engine) Close() error {
	return e.fm.Close()
}
