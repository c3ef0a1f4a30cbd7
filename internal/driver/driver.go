// Package driver adapts the engine to database/sql/driver, so callers can
// open it with the standard library's sql.Open under the name "quarrydb"
// instead of using internal/engine directly. It is the idiomatic-Go
// rendering of the embedded JDBC-style client façade
// (govanguard/embedded.EmbeddedDriver/Connection/Statement/ResultSet) the
// teacher repo built for the same purpose.
package driver

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	"quarrydb/internal/config"
	"quarrydb/internal/engine"
)

func init() {
	sql.Register("quarrydb", &Driver{})
}

var (
	registryMu sync.Mutex
	registry   = map[string]*sharedEngine{}
)

// sharedEngine lets multiple sql.DB connections opened against the same
// DSN share one Engine (and therefore one buffer pool and lock table),
// since two Engines over the same directory would corrupt each other's
// write-ahead log.
type sharedEngine struct {
	eng      *engine.Engine
	refCount int
}

// Driver implements database/sql/driver.Driver. Its DSN is a database
// directory path; Engine-level tuning beyond the defaults is only
// available through internal/engine and internal/config directly.
type Driver struct{}

func (d *Driver) Open(dsn string) (driver.Conn, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	shared, ok := registry[dsn]
	if !ok {
		cfg := config.Default()
		cfg.DBDirectory = dsn
		eng, err := engine.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("driver: open %s: %w", dsn, err)
		}
		shared = &sharedEngine{eng: eng}
		registry[dsn] = shared
	}
	shared.refCount++

	return newConn(dsn, shared.eng)
}

func releaseEngine(dsn string) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	shared, ok := registry[dsn]
	if !ok {
		return nil
	}
	shared.refCount--
	if shared.refCount > 0 {
		return nil
	}
	delete(registry, dsn)
	return shared.eng.Close()
}
