package metadata

import (
	"sync"

	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// refreshThreshold is the number of GetStatInfo calls after which the
// manager recomputes every table's statistics from scratch, so estimates
// don't drift arbitrarily far from a database that keeps changing.
const refreshThreshold = 100

// StatManager caches per-table statistics, recomputing all of them every
// refreshThreshold calls to GetStatInfo.
type StatManager struct {
	tm         *TableManager
	mu         sync.Mutex
	tableStats map[string]StatInfo
	numCalls   int
}

func NewStatManager(tm *TableManager, t *tx.Transaction) (*StatManager, error) {
	sm := &StatManager{tm: tm, tableStats: make(map[string]StatInfo)}
	if err := sm.refreshStatistics(t); err != nil {
		return nil, err
	}
	return sm, nil
}

// GetStatInfo returns tableName's cached statistics, computing them on
// first reference and triggering a full refresh once every
// refreshThreshold calls.
func (sm *StatManager) GetStatInfo(tableName string, layout *record.Layout, t *tx.Transaction) (StatInfo, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.numCalls++
	if sm.numCalls > refreshThreshold {
		if err := sm.refreshStatistics(t); err != nil {
			return StatInfo{}, err
		}
	}

	si, ok := sm.tableStats[tableName]
	if !ok {
		var err error
		si, err = sm.calcTableStats(tableName, layout, t)
		if err != nil {
			return StatInfo{}, err
		}
		sm.tableStats[tableName] = si
	}
	return si, nil
}

// RefreshStatistics forces an immediate recomputation of every table's
// statistics.
func (sm *StatManager) RefreshStatistics(t *tx.Transaction) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.refreshStatistics(t)
}

func (sm *StatManager) refreshStatistics(t *tx.Transaction) error {
	sm.tableStats = make(map[string]StatInfo)
	sm.numCalls = 0

	tcatLayout, err := sm.tm.GetLayout("tblcat", t)
	if err != nil {
		return err
	}
	ts, err := record.NewTableScan(t, "tblcat", tcatLayout)
	if err != nil {
		return err
	}
	defer ts.Close()

	for ts.Next() {
		tableName, err := ts.GetString("tblname")
		if err != nil {
			return err
		}
		layout, err := sm.tm.GetLayout(tableName, t)
		if err != nil {
			return err
		}
		stats, err := sm.calcTableStats(tableName, layout, t)
		if err != nil {
			return err
		}
		sm.tableStats[tableName] = stats
	}
	return nil
}

func (sm *StatManager) calcTableStats(tableName string, layout *record.Layout, t *tx.Transaction) (StatInfo, error) {
	numRecs := 0
	numBlocks := 0

	ts, err := record.NewTableScan(t, tableName, layout)
	if err != nil {
		return StatInfo{}, err
	}
	defer ts.Close()

	for ts.Next() {
		numRecs++
		rid, err := ts.GetRID()
		if err != nil {
			return StatInfo{}, err
		}
		if rid.BlockNumber()+1 > numBlocks {
			numBlocks = rid.BlockNumber() + 1
		}
	}
	return NewStatInfo(numBlocks, numRecs), nil
}
