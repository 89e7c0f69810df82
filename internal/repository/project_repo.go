package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projectboard/contracts/api"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const projectColumns = "id, name, managers, upstream_contacts, downstream_contacts, start_date, end_date, created_at, updated_at"

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func scanProject(row pgx.Row) (api.Project, error) {
	var p api.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Managers,
		&p.UpstreamContacts,
		&p.DownstreamContacts,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *ProjectRepository) List(ctx context.Context) ([]api.Project, error) {
	r.logger.Debug("Listing projects")
	query := fmt.Sprintf(`
        SELECT %s
        FROM projects
        ORDER BY created_at DESC
    `, projectColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []api.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to read project rows", zap.Error(err))
		return nil, err
	}

	r.logger.Info("Projects listed successfully", zap.Int("count", len(projects)))
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (api.Project, error) {
	r.logger.Debug("Fetching project", zap.Int("id", id))
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Project{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch project", zap.Int("id", id), zap.Error(err))
		return api.Project{}, err
	}

	r.logger.Info("Project fetched successfully", zap.Int("id", id))
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	r.logger.Debug("Inserting project", zap.String("name", req.Name))
	query := fmt.Sprintf(`
        INSERT INTO projects (name, managers, upstream_contacts, downstream_contacts, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, query,
		req.Name,
		req.Managers,
		req.UpstreamContacts,
		req.DownstreamContacts,
		req.StartDate,
		req.EndDate,
	))
	if err != nil {
		r.logger.Error("Failed to insert project", zap.String("name", req.Name), zap.Error(err))
		return api.Project{}, err
	}

	r.logger.Info("Project inserted successfully", zap.Int("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// buildProjectUpdate assembles the SET clause from the provided fields only.
// updated_at is always refreshed.
func buildProjectUpdate(req api.UpdateProjectRequest) ([]string, []any) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Managers != nil {
		add("managers", *req.Managers)
	}
	if req.UpstreamContacts != nil {
		add("upstream_contacts", *req.UpstreamContacts)
	}
	if req.DownstreamContacts != nil {
		add("downstream_contacts", *req.DownstreamContacts)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}

	set = append(set, "updated_at = now()")
	return set, args
}

func (r *ProjectRepository) Update(ctx context.Context, id int, req api.UpdateProjectRequest) (api.Project, error) {
	r.logger.Debug("Updating project", zap.Int("id", id))

	set, args := buildProjectUpdate(req)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Project{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update project", zap.Int("id", id), zap.Error(err))
		return api.Project{}, err
	}

	r.logger.Info("Project updated successfully", zap.Int("id", id))
	return p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	r.logger.Debug("Deleting project", zap.Int("id", id))

	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int("id", id), zap.Error(err))
		return err
	}

	r.logger.Info("Project deleted successfully",
		zap.Int("id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
