package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
)

// ProjectRepository is a project.Store backed by SQLite.
type ProjectRepository struct {
	db  *DB
	now func() time.Time
}

var _ project.Store = (*ProjectRepository)(nil)

// NewProjectRepository creates a repository on an opened database.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a new, empty project.
func (r *ProjectRepository) Create(ctx context.Context, in project.NewProject) (*project.Project, error) {
	in = in.Normalize()
	now := r.now()
	p := &project.Project{
		ID:          project.NewProjectID(),
		Name:        in.Name,
		Client:      in.Client,
		SiteAddress: in.SiteAddress,
		Notes:       in.Notes,
		Parts:       []project.Partida{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO projects (id, name, client, site_address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Client, p.SiteAddress, p.Notes,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}
	return p, nil
}

// Get loads a project with its partidas in creation order.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var p *project.Project
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		p, err = getProject(ctx, tx, id)
		return err
	})
	return p, err
}

// List returns every project, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM projects`)
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scanning project id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating projects: %w", err)
		}

		out = make([]project.Project, 0, len(ids))
		for _, id := range ids {
			p, err := getProject(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	project.SortByUpdated(out)
	return out, nil
}

// Rename changes a project's name.
func (r *ProjectRepository) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
		name, formatTime(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("renaming project: %w", err)
	}
	return requireRow(res, "project", id)
}

// Delete removes a project; partidas and materials cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireRow(res, "project", id)
}

// SaveByKind creates the partida of that kind or overwrites the existing one.
func (r *ProjectRepository) SaveByKind(ctx context.Context, projectID string, kind project.Kind, c project.Calculation) (*project.Partida, error) {
	var saved project.Partida
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		p, err := getProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		existed := p.Partida(kind) != nil
		saved = p.SaveByKind(kind, c, r.now())

		if existed {
			_, err = tx.ExecContext(ctx, `
				UPDATE partidas SET title = ?, inputs = ?, outputs = ?, updated_at = ?
				WHERE id = ?`,
				saved.Title, string(saved.Inputs), string(saved.Outputs),
				formatTime(saved.UpdatedAt), saved.ID,
			)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO partidas (id, project_id, kind, title, inputs, outputs, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				saved.ID, projectID, string(saved.Kind), saved.Title,
				string(saved.Inputs), string(saved.Outputs),
				formatTime(saved.CreatedAt), formatTime(saved.UpdatedAt),
			)
		}
		if err != nil {
			return fmt.Errorf("saving partida: %w", err)
		}

		if err := replaceMaterials(ctx, tx, saved.ID, saved.Materials); err != nil {
			return err
		}
		return touchProject(ctx, tx, projectID, p.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// RemovePartida deletes one partida of a project.
func (r *ProjectRepository) RemovePartida(ctx context.Context, projectID, partidaID string) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM partidas WHERE id = ? AND project_id = ?`, partidaID, projectID)
		if err != nil {
			return fmt.Errorf("deleting partida: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&exists)
			if err != nil {
				return fmt.Errorf("checking project: %w", err)
			}
			if exists == 0 {
				return fmt.Errorf("project %s: %w", projectID, project.ErrNotFound)
			}
			return fmt.Errorf("partida %s: %w", partidaID, project.ErrNotFound)
		}
		return touchProject(ctx, tx, projectID, r.now())
	})
}

func getProject(ctx context.Context, q queryer, id string) (*project.Project, error) {
	var (
		p                    project.Project
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, name, client, site_address, notes, created_at, updated_at
		FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Client, &p.SiteAddress, &p.Notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, project.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if p.Parts, err = getPartidas(ctx, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func getPartidas(ctx context.Context, q queryer, projectID string) ([]project.Partida, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, kind, title, inputs, outputs, created_at, updated_at
		FROM partidas WHERE project_id = ?
		ORDER BY rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying partidas: %w", err)
	}
	defer rows.Close()

	parts := []project.Partida{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			pt                   project.Partida
			kind                 string
			inputs, outputs      string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&pt.ID, &kind, &pt.Title, &inputs, &outputs, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning partida: %w", err)
		}
		pt.Kind = project.Kind(kind)
		pt.Inputs = json.RawMessage(inputs)
		pt.Outputs = json.RawMessage(outputs)
		pt.Materials = []bom.Line{}
		if pt.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if pt.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		index[pt.ID] = len(parts)
		parts = append(parts, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partidas: %w", err)
	}
	rows.Close()

	if len(parts) == 0 {
		return parts, nil
	}

	mrows, err := q.QueryContext(ctx, `
		SELECT m.partida_id, m.key, m.label, m.qty, m.unit
		FROM partida_materials m
		JOIN partidas p ON p.id = m.partida_id
		WHERE p.project_id = ?
		ORDER BY m.partida_id, m.position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying materials: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var (
			partidaID string
			line      bom.Line
		)
		if err := mrows.Scan(&partidaID, &line.Key, &line.Label, &line.Qty, &line.Unit); err != nil {
			return nil, fmt.Errorf("scanning material: %w", err)
		}
		if i, ok := index[partidaID]; ok {
			parts[i].Materials = append(parts[i].Materials, line)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("iterating materials: %w", err)
	}
	return parts, nil
}

func replaceMaterials(ctx context.Context, tx *sql.Tx, partidaID string, lines []bom.Line) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM partida_materials WHERE partida_id = ?`, partidaID); err != nil {
		return fmt.Errorf("clearing materials: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO partida_materials (partida_id, position, key, label, qty, unit)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing material insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range lines {
		if _, err := stmt.ExecContext(ctx, partidaID, i, l.Key, l.Label, l.Qty, l.Unit); err != nil {
			return fmt.Errorf("inserting material %s: %w", l.Key, err)
		}
	}
	return nil
}

func touchProject(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	if _, err := tx.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, formatTime(at), id); err != nil {
		return fmt.Errorf("updating project timestamp: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, project.ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
