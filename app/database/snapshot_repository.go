package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SnapshotRepositoryImpl handles database operations for snapshots
type SnapshotRepositoryImpl struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{db: db}
}

// SaveSnapshot inserts a new snapshot row and returns its id
func (r *SnapshotRepositoryImpl) SaveSnapshot(snapshot Snapshot) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO snapshots (standard, source, generated_at, item_count, payload)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.Standard, snapshot.Source, snapshot.GeneratedAt.Unix(), snapshot.ItemCount, snapshot.Payload)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot id: %w", err)
	}
	return id, nil
}

// GetLatestSnapshot returns the newest snapshot for a standard, or nil
// when none has been taken yet
func (r *SnapshotRepositoryImpl) GetLatestSnapshot(standard string) (*Snapshot, error) {
	var s Snapshot
	var generatedAt int64

	err := r.db.QueryRow(`
		SELECT id, standard, source, generated_at, item_count, payload, created_at
		FROM snapshots
		WHERE standard = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`, standard).Scan(&s.ID, &s.Standard, &s.Source, &generatedAt, &s.ItemCount, &s.Payload, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	s.GeneratedAt = time.Unix(generatedAt, 0).UTC()
	return &s, nil
}

// GetSnapshotCount returns the number of stored snapshots for a standard
func (r *SnapshotRepositoryImpl) GetSnapshotCount(standard string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE standard = ?`, standard).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

// PruneSnapshots deletes all but the newest `keep` snapshots of a
// standard and returns the number of rows removed
func (r *SnapshotRepositoryImpl) PruneSnapshots(standard string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}

	result, err := r.db.Exec(`
		DELETE FROM snapshots
		WHERE standard = ? AND id NOT IN (
			SELECT id FROM snapshots
			WHERE standard = ?
			ORDER BY generated_at DESC, id DESC
			LIMIT ?
		)
	`, standard, standard, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get pruned row count: %w", err)
	}
	return removed, nil
}
