package journal

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"go.uber.org/zap"
)

// Recent kinds.
const (
	RecentProject = "project"
	RecentChat    = "chat"
)

// Entry is one recorded backend request.
type Entry struct {
	ID        int64         `json:"id" yaml:"id"`
	RequestID string        `json:"requestId" yaml:"requestId"`
	Method    string        `json:"method" yaml:"method"`
	Route     string        `json:"route" yaml:"route"`
	Path      string        `json:"path" yaml:"path"`
	Status    int           `json:"status" yaml:"status"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	At        time.Time     `json:"at" yaml:"at"`
}

// Recent is the last entity of a kind the user opened.
type Recent struct {
	Kind      string
	EntityID  string
	Label     string
	UpdatedAt time.Time
}

// Journal records request activity and navigation recents in state.db.
// It implements api.Observer.
type Journal struct {
	db     *DB
	logger *zap.Logger
}

// New wraps an open, migrated database.
func New(db *DB, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{db: db, logger: logger}
}

// ObserveRequest records r. Failures are logged, never returned, since the
// journal must not affect the request it observes.
func (j *Journal) ObserveRequest(r api.RequestRecord) {
	if err := j.Record(r); err != nil {
		j.logger.Warn("journal record failed", zap.String("request_id", r.ID), zap.Error(err))
	}
}

// Record inserts one request record.
func (j *Journal) Record(r api.RequestRecord) error {
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.Exec(`
		INSERT INTO activity (request_id, method, route, path, status, duration_ms, error, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Method, r.Route, r.Path, r.Status, r.Duration.Milliseconds(), r.Err, at.UnixMilli())
	return err
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(`
		SELECT id, request_id, method, route, path, status, duration_ms, error, at
		FROM activity
		ORDER BY at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e     Entry
			durMS int64
			atMS  int64
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.Route, &e.Path, &e.Status, &durMS, &e.Error, &atMS); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durMS) * time.Millisecond
		e.At = time.UnixMilli(atMS)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries older than cutoff and returns how many were removed.
func (j *Journal) Prune(cutoff time.Time) (int64, error) {
	res, err := j.db.Exec(`DELETE FROM activity WHERE at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetRecent remembers entityID as the last opened entity of kind.
func (j *Journal) SetRecent(kind, entityID, label string) error {
	_, err := j.db.Exec(`
		INSERT INTO recents (kind, entity_id, label, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			entity_id = excluded.entity_id,
			label = excluded.label,
			updated_at = excluded.updated_at`,
		kind, entityID, label, time.Now().UnixMilli())
	return err
}

// GetRecent returns the remembered entity of kind, or nil if none.
func (j *Journal) GetRecent(kind string) (*Recent, error) {
	var (
		r  Recent
		ms int64
	)
	err := j.db.QueryRow(`SELECT kind, entity_id, label, updated_at FROM recents WHERE kind = ?`, kind).
		Scan(&r.Kind, &r.EntityID, &r.Label, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.UpdatedAt = time.UnixMilli(ms)
	return &r, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
