package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ineta/internal/stage"
)

// ErrNotFound reports a missing run or step output.
var ErrNotFound = errors.New("not found")

// Run is one pipeline invocation.
type Run struct {
	ID          string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PeaksFile   string
	LibraryFile string
	ConfigTOML  string
}

// NewRun describes the inputs recorded with a new run.
type NewRun struct {
	PeaksFile   string
	LibraryFile string
	ConfigTOML  string
}

const runColumns = "id, created_at, updated_at, peaks_file, library_file, config_toml"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
		peaksFile   sql.NullString
		libraryFile sql.NullString
		configTOML  sql.NullString
	)
	if err := scanner.Scan(&id, &createdRaw, &updatedRaw, &peaksFile, &libraryFile, &configTOML); err != nil {
		return nil, err
	}
	return &Run{
		ID:          id,
		CreatedAt:   parseTime(createdRaw),
		UpdatedAt:   parseTime(updatedRaw),
		PeaksFile:   peaksFile.String,
		LibraryFile: libraryFile.String,
		ConfigTOML:  configTOML.String,
	}, nil
}

// CreateRun inserts a run with a fresh UUID.
func (s *Store) CreateRun(ctx context.Context, in NewRun) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		PeaksFile:   in.PeaksFile,
		LibraryFile: in.LibraryFile,
		ConfigTOML:  in.ConfigTOML,
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(now),
		formatTime(now),
		nullableString(in.PeaksFile),
		nullableString(in.LibraryFile),
		nullableString(in.ConfigTOML),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun fetches a run by id. A prefix of at least four characters is
// accepted when it identifies exactly one run.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if len(id) < 4 {
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY created_at LIMIT 2`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("find run by prefix: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", id)
	}
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveStage stores the JSON encoding of value as the output of the named
// step, replacing any earlier output for the same run and step.
func (s *Store) SaveStage(ctx context.Context, runID string, name stage.Name, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s output: %w", name, err)
	}
	now := formatTime(time.Now())
	if err := s.execWithRetry(ctx,
		`INSERT INTO stage_outputs (run_id, stage, payload, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(run_id, stage) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		runID, string(name), string(payload), now,
	); err != nil {
		return fmt.Errorf("save %s output: %w", name, err)
	}
	if err := s.execWithRetry(ctx, `UPDATE runs SET updated_at = ? WHERE id = ?`, now, runID); err != nil {
		return fmt.Errorf("touch run: %w", err)
	}
	return nil
}

// LoadStage decodes the stored output of the named step into dst.
func (s *Store) LoadStage(ctx context.Context, runID string, name stage.Name, dst any) error {
	ctx = ensureContext(ctx)
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM stage_outputs WHERE run_id = ? AND stage = ?`, runID, string(name),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s output for run %s: %w", name, runID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s output: %w", name, err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("decode %s output: %w", name, err)
	}
	return nil
}

// Stages lists the steps with stored output for a run, in pipeline order.
func (s *Store) Stages(ctx context.Context, runID string) ([]stage.Name, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT stage FROM stage_outputs WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()
	present := map[stage.Name]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		present[stage.Name(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var out []stage.Name
	for _, name := range stage.Order {
		if present[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// DeleteRun removes a run and its step outputs.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if err := s.execWithRetry(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}
