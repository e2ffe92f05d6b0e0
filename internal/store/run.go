package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/glybio/glytrait/internal/formula"
	"github.com/glybio/glytrait/internal/table"
)

// Run is the archived metadata of one pipeline execution.
type Run struct {
	ID                   string
	CreatedAt            time.Time
	Mode                 string
	SiaLinkage           bool
	CorrelationThreshold float64
	SampleCount          int
	TraitCount           int
}

// RunFormula is one archived formula, in post-filter order.
type RunFormula struct {
	Name        string
	Description string
	Expression  string
	SiaLinkage  bool
}

// Meta carries the configuration snapshot recorded with a run.
type Meta struct {
	Mode                 string
	SiaLinkage           bool
	CorrelationThreshold float64
}

// SaveRun archives one run: metadata, the formula set, and the trait
// table. The run id is a time-sortable UUIDv7.
func (s *Store) SaveRun(ctx context.Context, m Meta, formulas []*formula.Formula, traits *table.FloatTable) (string, error) {
	samples := traits.Rows()
	names := traits.Columns()
	if len(names) != len(formulas) {
		return "", fmt.Errorf("save run: %d formulas for %d trait columns", len(formulas), len(names))
	}

	id := uuid.Must(uuid.NewV7()).String()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, mode, sia_linkage, correlation_threshold, sample_count, trait_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, createdAt, m.Mode, m.SiaLinkage, m.CorrelationThreshold, len(samples), len(names))
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	for i, sample := range samples {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_samples (run_id, position, sample) VALUES (?, ?, ?)
		`, id, i, sample)
		if err != nil {
			return "", fmt.Errorf("save run samples: %w", err)
		}
	}

	for i, f := range formulas {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_formulas
			(run_id, position, name, description, expression, sia_linkage)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, i, f.Name, f.Description, f.Expression(), f.SiaLinkage())
		if err != nil {
			return "", fmt.Errorf("save run formulas: %w", err)
		}
	}

	for _, sample := range samples {
		for _, trait := range names {
			v, err := traits.At(sample, trait)
			if err != nil {
				return "", fmt.Errorf("save trait values: %w", err)
			}
			// NaN has no SQLite representation; NULL round-trips it.
			var value any
			if !math.IsNaN(v) {
				value = v
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO trait_values (run_id, sample, trait, value)
				VALUES (?, ?, ?, ?)
			`, id, sample, trait, value)
			if err != nil {
				return "", fmt.Errorf("save trait values: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, mode, sia_linkage, correlation_threshold, sample_count, trait_count
		FROM runs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Mode, &r.SiaLinkage, &r.CorrelationThreshold, &r.SampleCount, &r.TraitCount); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: bad created_at %q: %w", createdAt, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Formulas returns a run's formula set in its archived order.
func (s *Store) Formulas(ctx context.Context, runID string) ([]RunFormula, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, expression, sia_linkage
		FROM run_formulas
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run formulas: %w", err)
	}
	defer rows.Close()

	var formulas []RunFormula
	for rows.Next() {
		var f RunFormula
		if err := rows.Scan(&f.Name, &f.Description, &f.Expression, &f.SiaLinkage); err != nil {
			return nil, fmt.Errorf("run formulas: %w", err)
		}
		formulas = append(formulas, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run formulas: %w", err)
	}
	if formulas == nil {
		return nil, fmt.Errorf("run formulas: no run %q", runID)
	}
	return formulas, nil
}

// TraitTable reconstructs a run's derived trait table, NULLs restored
// to NaN, in the archived sample and trait order.
func (s *Store) TraitTable(ctx context.Context, runID string) (*table.FloatTable, error) {
	samples, err := s.runSamples(ctx, runID)
	if err != nil {
		return nil, err
	}
	runFormulas, err := s.Formulas(ctx, runID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(runFormulas))
	for i, f := range runFormulas {
		names[i] = f.Name
	}

	values := make(map[string]map[string]float64, len(samples))
	rows, err := s.db.QueryContext(ctx, `
		SELECT sample, trait, value FROM trait_values WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("trait table: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sample, trait string
		var value sql.NullFloat64
		if err := rows.Scan(&sample, &trait, &value); err != nil {
			return nil, fmt.Errorf("trait table: %w", err)
		}
		if values[sample] == nil {
			values[sample] = make(map[string]float64, len(names))
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		values[sample][trait] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trait table: %w", err)
	}

	data := make([]float64, 0, len(samples)*len(names))
	for _, sample := range samples {
		for _, trait := range names {
			v, ok := values[sample][trait]
			if !ok {
				return nil, fmt.Errorf("trait table: run %q has no value for sample %q, trait %q", runID, sample, trait)
			}
			data = append(data, v)
		}
	}
	return table.New(samples, names, data)
}

func (s *Store) runSamples(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sample FROM run_samples WHERE run_id = ? ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run samples: %w", err)
	}
	defer rows.Close()

	var samples []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("run samples: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run samples: %w", err)
	}
	if samples == nil {
		return nil, fmt.Errorf("run samples: no run %q", runID)
	}
	return samples, nil
}
