package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Snapshot is one row of the append-only snapshot log.
//
// ID is the content hash of the score state (ikr.ScoreID over the
// decoded tree), so the log deduplicates identical states. Seq is a
// logical clock assigned at append time. TLR holds the full text
// encoding; the score is reconstructed by decoding it. ParentID is
// empty for the initial snapshot. Flags is the canonical flag string
// of the producing request and RequestID its pipeline request ID;
// both are empty for snapshots appended outside a transformation.
type Snapshot struct {
	ID        string
	Seq       int64
	TLR       string
	ParentID  string
	Flags     string
	RequestID string
}

// Append inserts a snapshot at the end of the log and returns its
// assigned seq. Uses ON CONFLICT(id) DO NOTHING for idempotency -
// appending an already-stored score state returns the existing row's
// seq with inserted=false. The caller-provided Seq field is ignored;
// the store owns the logical clock.
func (s *Store) Append(ctx context.Context, snap Snapshot) (seq int64, inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("append snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Next seq under the same transaction; the single-writer pool
	// keeps this race-free.
	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`,
	).Scan(&next); err != nil {
		return 0, false, fmt.Errorf("append snapshot: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, seq, tlr, parent_id, flags, request_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		snap.ID,
		next,
		snap.TLR,
		nullable(snap.ParentID),
		snap.Flags,
		snap.RequestID,
	)
	if err != nil {
		return 0, false, fmt.Errorf("append snapshot: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("append snapshot: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		seq = next
		inserted = true
	} else {
		// Conflict - the state is already in the log, report its seq.
		err = tx.QueryRowContext(ctx,
			`SELECT seq FROM snapshots WHERE id = ?`, snap.ID,
		).Scan(&seq)
		if err != nil {
			return 0, false, fmt.Errorf("append snapshot: select existing: %w", err)
		}
		inserted = false
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("append snapshot: commit: %w", err)
	}

	return seq, inserted, nil
}

// Get retrieves a single snapshot by content hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, tlr, parent_id, flags, request_id
		FROM snapshots
		WHERE id = ?
	`, id)
	return scanSnapshotRow(row)
}

// Head returns the most recently appended snapshot.
// Returns sql.ErrNoRows if the log is empty.
func (s *Store) Head(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, tlr, parent_id, flags, request_id
		FROM snapshots
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`)
	return scanSnapshotRow(row)
}

// List returns all snapshots with deterministic ordering:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, tlr, parent_id, flags, request_id
		FROM snapshots
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	if snaps == nil {
		snaps = []Snapshot{}
	}

	return snaps, nil
}

// Children returns the snapshots derived from the given parent,
// ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the parent has no children.
func (s *Store) Children(ctx context.Context, parentID string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, tlr, parent_id, flags, request_id
		FROM snapshots
		WHERE parent_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}

	if snaps == nil {
		snaps = []Snapshot{}
	}

	return snaps, nil
}

// Lineage walks parent links from the given snapshot back to the
// initial snapshot, returning the chain ordered root first. Cycles
// cannot occur: a parent must already exist when its child is
// appended, so parent seq is always lower.
func (s *Store) Lineage(ctx context.Context, id string) ([]Snapshot, error) {
	var chain []Snapshot
	for id != "" {
		snap, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lineage at %s: %w", id, err)
		}
		chain = append(chain, snap)
		id = snap.ParentID
	}

	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

// scanSnapshot scans a row into a Snapshot struct.
func scanSnapshot(rows *sql.Rows) (Snapshot, error) {
	var snap Snapshot
	var parent sql.NullString

	if err := rows.Scan(
		&snap.ID, &snap.Seq, &snap.TLR, &parent, &snap.Flags, &snap.RequestID,
	); err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	snap.ParentID = parent.String
	return snap, nil
}

// scanSnapshotRow scans a single row into a Snapshot struct.
func scanSnapshotRow(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	var parent sql.NullString

	if err := row.Scan(
		&snap.ID, &snap.Seq, &snap.TLR, &parent, &snap.Flags, &snap.RequestID,
	); err != nil {
		return Snapshot{}, err
	}

	snap.ParentID = parent.String
	return snap, nil
}

// nullable maps an empty string to SQL NULL so the parent foreign key
// is not checked against a nonexistent "" snapshot.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
