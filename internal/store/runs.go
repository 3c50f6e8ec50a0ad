package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// noiseCluster is the cluster number stored for noise members.
const noiseCluster = -1

// Member is a word of a clustering run.
type Member struct {
	IPA      string `json:"ipa"`
	Language string `json:"language"`
}

// Run is a stored clustering run.
type Run struct {
	ID        string
	RulesID   string
	Epsilon   float64
	MinPoints int
	Seq       int64
	Clusters  [][]Member
	Noise     []Member
}

// RunSummary describes a run without its members.
type RunSummary struct {
	ID        string  `json:"id"`
	RulesID   string  `json:"rules_id"`
	Epsilon   float64 `json:"epsilon"`
	MinPoints int     `json:"min_points"`
	Seq       int64   `json:"seq"`
	Clusters  int     `json:"clusters"`
	Members   int     `json:"members"`
}

// SaveRun stores run and its members in one transaction. The id and seq
// are assigned here and written back into run. The referenced rule source
// must exist.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("save run: next seq: %w", err)
	}
	id := s.runID.Generate()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, rules_id, epsilon, min_points, created_seq)
		VALUES (?, ?, ?, ?, ?)
	`, id, run.RulesID, run.Epsilon, run.MinPoints, seq)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_members (run_id, position, cluster, ipa, language)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare members: %w", err)
	}
	defer stmt.Close()

	position := 0
	insert := func(cluster int, m Member) error {
		if _, err := stmt.ExecContext(ctx, id, position, cluster, m.IPA, m.Language); err != nil {
			return fmt.Errorf("save run: member %d: %w", position, err)
		}
		position++
		return nil
	}
	for c, members := range run.Clusters {
		for _, m := range members {
			if err := insert(c, m); err != nil {
				return err
			}
		}
	}
	for _, m := range run.Noise {
		if err := insert(noiseCluster, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}
	run.ID = id
	run.Seq = seq
	return nil
}

// LoadRun returns the run with the given id and its members.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, rules_id, epsilon, min_points, created_seq
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.RulesID, &run.Epsilon, &run.MinPoints, &run.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cluster, ipa, language
		FROM run_members
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load run %s: query members: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cluster int
			m       Member
		)
		if err := rows.Scan(&cluster, &m.IPA, &m.Language); err != nil {
			return nil, fmt.Errorf("load run %s: scan member: %w", id, err)
		}
		if cluster == noiseCluster {
			run.Noise = append(run.Noise, m)
			continue
		}
		for len(run.Clusters) <= cluster {
			run.Clusters = append(run.Clusters, nil)
		}
		run.Clusters[cluster] = append(run.Clusters[cluster], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load run %s: iterate members: %w", id, err)
	}
	return run, nil
}

// ListRuns returns a summary of every run in creation order.
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.rules_id, r.epsilon, r.min_points, r.created_seq,
		       COUNT(DISTINCT CASE WHEN m.cluster >= 0 THEN m.cluster END),
		       COUNT(m.position)
		FROM runs r
		LEFT JOIN run_members m ON m.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_seq ASC, r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.RulesID, &r.Epsilon, &r.MinPoints, &r.Seq, &r.Clusters, &r.Members); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}
	return runs, nil
}
