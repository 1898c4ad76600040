package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

const projectColumns = `id::text, title, description, type, technologies,
coalesce(image_url,''), coalesce(demo_url,''), coalesce(github_url,''),
created_at, updated_at, user_id::text`

// Repo provides Postgres persistence for projects. Every statement is scoped
// to the owning user; rows of other users are invisible to the caller.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ListByOwner returns the owner's non-deleted projects, newest first.
// Ordering is done by the store, not re-sorted by callers.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where user_id = $1::uuid and deleted_at is null
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, &domain.StoreError{Op: "list projects", Err: err}
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: "scan project", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list projects", Err: err}
	}
	return out, nil
}

// Insert creates a new project for the owner and returns the stored row.
// The returned record is authoritative; the store may normalize fields.
func (r *Repo) Insert(ctx context.Context, ownerID string, data domain.ProjectFormData) (*domain.Project, error) {
	const q = `
insert into projects (user_id, title, description, type, technologies, image_url, demo_url, github_url)
values ($1::uuid, $2, $3, $4, $5, nullif($6,''), nullif($7,''), nullif($8,''))
returning ` + projectColumns + `;
`
	row := r.db.QueryRow(ctx, q, ownerID,
		data.Title, data.Description, data.Type, data.Technologies,
		data.ImageURL, data.DemoURL, data.GithubURL)

	p, err := scanProject(row)
	if err != nil {
		return nil, &domain.StoreError{Op: "insert project", Err: err}
	}
	return &p, nil
}

// Update replaces the project's mutable fields and refreshes updated_at.
func (r *Repo) Update(ctx context.Context, ownerID, id string, data domain.ProjectFormData) (*domain.Project, error) {
	const q = `
update projects
set title = $3, description = $4, type = $5, technologies = $6,
    image_url = nullif($7,''), demo_url = nullif($8,''), github_url = nullif($9,''),
    updated_at = now()
where user_id = $1::uuid and id = $2::uuid and deleted_at is null
returning ` + projectColumns + `;
`
	row := r.db.QueryRow(ctx, q, ownerID, id,
		data.Title, data.Description, data.Type, data.Technologies,
		data.ImageURL, data.DemoURL, data.GithubURL)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StoreError{Op: "update project", Err: err}
	}
	return &p, nil
}

// SoftDelete marks a project as deleted. A second delete of the same id
// matches no rows and reports ErrNotFound rather than succeeding silently.
func (r *Repo) SoftDelete(ctx context.Context, ownerID, id string) error {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where user_id = $1::uuid and id = $2::uuid and deleted_at is null;
`
	tag, err := r.db.Exec(ctx, q, ownerID, id)
	if err != nil {
		return &domain.StoreError{Op: "delete project", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurgeDeletedBefore hard-deletes soft-deleted rows older than the cutoff and
// returns the image URLs they referenced so stored objects can be removed too.
func (r *Repo) PurgeDeletedBefore(ctx context.Context, cutoffDays int) ([]string, error) {
	const q = `
delete from projects
where deleted_at is not null and deleted_at < now() - make_interval(days => $1)
returning coalesce(image_url,'');
`
	rows, err := r.db.Query(ctx, q, cutoffDays)
	if err != nil {
		return nil, &domain.StoreError{Op: "purge projects", Err: err}
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, &domain.StoreError{Op: "purge projects", Err: err}
		}
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls, rows.Err()
}

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Type, &p.Technologies,
		&p.ImageURL, &p.DemoURL, &p.GithubURL,
		&p.CreatedAt, &p.UpdatedAt, &p.UserID,
	)
	if err != nil {
		return domain.Project{}, err
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}
