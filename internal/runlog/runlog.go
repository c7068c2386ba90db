// Package runlog records lifecycle, governor, and mesh events into an
// in-memory GORM/SQLite handle so the control server and PDF exporter
// have something queryable to summarize a run with. The database is
// opened against ":memory:" and discarded with the process — nothing
// here persists across restarts, matching the RAM-resident swarm and
// SSID state the rest of the system already lives in.
package runlog

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// EventKind distinguishes the four event kinds this log records.
type EventKind string

const (
	EventRotation       EventKind = "rotation"
	EventGovernor       EventKind = "governor"
	EventMeshDecay      EventKind = "mesh_decay"
	EventMeshRebroadcast EventKind = "mesh_rebroadcast"
)

// EventModel is the GORM model backing the run log table.
type EventModel struct {
	ID        uint `gorm:"primaryKey"`
	Kind      string `gorm:"index"`
	Detail    string
	CreatedAt time.Time `gorm:"index"`
}

// Log wraps a GORM handle over an in-memory SQLite database.
type Log struct {
	db *gorm.DB
}

// Open creates the in-memory database and migrates the event table.
func Open() (*Log, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&EventModel{}); err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}

	return &Log{db: db}, nil
}

// Record appends an event with the given kind and free-form detail.
func (l *Log) Record(kind EventKind, detail string) {
	l.db.Create(&EventModel{Kind: string(kind), Detail: detail, CreatedAt: time.Now()})
}

// Recent returns the most recent n events across all kinds, newest first.
func (l *Log) Recent(n int) []EventModel {
	var rows []EventModel
	l.db.Order("created_at desc").Limit(n).Find(&rows)
	return rows
}

// CountByKind returns the total number of recorded events of a given kind.
func (l *Log) CountByKind(kind EventKind) int64 {
	var n int64
	l.db.Model(&EventModel{}).Where("kind = ?", string(kind)).Count(&n)
	return n
}

// Close releases the underlying SQLite connection.
func (l *Log) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
