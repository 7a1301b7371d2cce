package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidTextRepr = "22P02"
	rolesSeparator    = ","
	userColumns       = `user_id::text, name, surname, email, hashed_password, is_active, array_to_string(roles, ','), created_at, updated_at`
)

// UserRepository implements ports.UserRepository on PostgreSQL. Roles travel
// as comma-joined text so the queries stay portable across database/sql
// drivers.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u     domain.User
		roles string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.HashedPassword, &u.IsActive, &roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	set, err := parseRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Roles = set
	return &u, nil
}

func parseRoles(joined string) (domain.RoleSet, error) {
	if joined == "" {
		return 0, nil
	}
	return domain.ParseRoleSet(strings.Split(joined, rolesSeparator))
}

func joinRoles(s domain.RoleSet) string {
	return strings.Join(s.Strings(), rolesSeparator)
}

// translate maps driver errors onto domain errors.
func translate(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrEmailTaken
		case pgInvalidTextRepr:
			return domain.ErrUserNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO users (user_id, name, surname, email, hashed_password, is_active, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, string_to_array($7, ','), $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Surname, user.Email, user.HashedPassword,
		user.IsActive, joinRoles(user.Roles), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return translate(err, "insert user")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, translate(err, "find user")
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE users
		SET name = COALESCE($2, name), surname = COALESCE($3, surname), email = COALESCE($4, email), updated_at = $5
		WHERE user_id = $1 AND is_active
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		id, update.Name, update.Surname, update.Email, time.Now().UTC()))
	if err != nil {
		return nil, translate(err, "update user")
	}
	return u, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = $2 WHERE user_id = $1 AND is_active`,
		id, time.Now().UTC())
	if err != nil {
		return translate(err, "deactivate user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateRoles locks the row with SELECT ... FOR UPDATE, applies transition
// and writes the result in the same transaction.
func (r *UserRepository) UpdateRoles(ctx context.Context, id string, transition ports.RoleTransition) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated *domain.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var joined string
		err := tx.QueryRowContext(ctx,
			`SELECT array_to_string(roles, ',') FROM users WHERE user_id = $1 AND is_active FOR UPDATE`,
			id).Scan(&joined)
		if err != nil {
			return translate(err, "lock user")
		}

		current, err := parseRoles(joined)
		if err != nil {
			return err
		}
		next := transition(current)

		updated, err = scanUser(tx.QueryRowContext(ctx,
			`UPDATE users SET roles = string_to_array($2, ','), updated_at = $3 WHERE user_id = $1 RETURNING `+userColumns,
			id, joinRoles(next), time.Now().UTC()))
		if err != nil {
			return translate(err, "update roles")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
