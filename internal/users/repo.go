package users

import (
	"context"
	"database/sql"
	"fmt"
)

// Repo persists application users keyed by their Firebase UID. It rides the
// legacy database/sql connection; the project repositories use pgx.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	FirebaseUID string
	Email       string
}

// EnsureUser creates or refreshes the user row and returns the DB user id.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (string, error) {
	if u.FirebaseUID == "" {
		return "", fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, updated_at)
values ($1, nullif($2,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRowContext(ctx, q, u.FirebaseUID, u.Email).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// GetByFirebaseUID returns the DB user id for a Firebase UID, or sql.ErrNoRows.
func (r *Repo) GetByFirebaseUID(ctx context.Context, fuid string) (string, error) {
	const q = `select id::text from users where firebase_uid = $1;`
	var id string
	if err := r.db.QueryRowContext(ctx, q, fuid).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
