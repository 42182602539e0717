package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/rs2go/internal/model"
)

// ErrProfileNotFound is returned when updating a profile that does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository stores profiles in PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository создаёт новый PostgreSQL repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `username, password_hash, rights, banned, muted, COALESCE(last_login, 'epoch'::timestamptz), last_ip`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	var lastLogin time.Time
	if err := row.Scan(&p.Username, &p.PasswordHash, &p.Rights, &p.Banned, &p.Muted, &lastLogin, &p.LastIP); err != nil {
		return nil, err
	}
	if lastLogin.Unix() != 0 {
		p.LastLogin = lastLogin
	}
	return &p, nil
}

// Profile возвращает профиль по имени.
// Возвращает nil, nil если профиль не найден.
func (r *ProfileRepository) Profile(ctx context.Context, username string) (*model.Profile, error) {
	username = model.NormalizeName(username)
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile %q: %w", username, err)
	}
	return p, nil
}

// CreateProfile inserts p. A profile created concurrently under the same
// name wins and is returned instead.
func (r *ProfileRepository) CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	username := model.NormalizeName(p.Username)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (username, password_hash, rights, banned, muted, last_ip)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO NOTHING`,
		username, p.PasswordHash, p.Rights, p.Banned, p.Muted, p.LastIP,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting profile %q: %w", username, err)
	}

	stored, err := r.Profile(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("getting profile after insert %q: %w", username, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("profile %q not found after insert (unexpected)", username)
	}
	return stored, nil
}

// SetRights changes a profile's rights level.
func (r *ProfileRepository) SetRights(ctx context.Context, username string, rights int) error {
	return r.update(ctx, username, `UPDATE profiles SET rights = $2 WHERE username = $1`, rights)
}

// SetBanned sets or clears the banned flag.
func (r *ProfileRepository) SetBanned(ctx context.Context, username string, banned bool) error {
	return r.update(ctx, username, `UPDATE profiles SET banned = $2 WHERE username = $1`, banned)
}

// SetMuted sets or clears the muted flag.
func (r *ProfileRepository) SetMuted(ctx context.Context, username string, muted bool) error {
	return r.update(ctx, username, `UPDATE profiles SET muted = $2 WHERE username = $1`, muted)
}

// TouchLogin обновляет last_login и last_ip при успешном логине.
func (r *ProfileRepository) TouchLogin(ctx context.Context, username, ip string) error {
	username = model.NormalizeName(username)
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles SET last_login = $2, last_ip = $3 WHERE username = $1`,
		username, time.Now(), ip,
	)
	if err != nil {
		return fmt.Errorf("updating last login for %q: %w", username, err)
	}
	return nil
}

func (r *ProfileRepository) update(ctx context.Context, username, query string, value any) error {
	username = model.NormalizeName(username)
	tag, err := r.pool.Exec(ctx, query, username, value)
	if err != nil {
		return fmt.Errorf("updating profile %q: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating profile %q: %w", username, ErrProfileNotFound)
	}
	return nil
}
