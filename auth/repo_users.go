package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential store. Lookups report absence as a found-nothing
// result (nil, nil), never an error; mutations are atomic at the single
// record level. The conditional token operations exist so that storing and
// consuming a token is one UPDATE, with no read-modify-write gap: a raced
// double-consume loses by affected-row count.
type Users interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, user *User) error

	// StoreVerificationToken persists a token only while none is outstanding.
	StoreVerificationToken(ctx context.Context, id int64, token string) (int64, error)
	// ConsumeVerificationToken flips is_verified and clears the token in one
	// step, only if the stored token still matches.
	ConsumeVerificationToken(ctx context.Context, id int64, token string) (int64, error)
	// StoreResetToken persists a reset token only while none is outstanding.
	StoreResetToken(ctx context.Context, id int64, token string) (int64, error)
	// ConsumeResetToken swaps the password hash and clears the reset token in
	// one step, only if the stored token still matches.
	ConsumeResetToken(ctx context.Context, id int64, token, passwordHash string) (int64, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns the bun-backed credential store.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	user.EnsureDefaults()

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

func (r *users) GetByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *users) List(ctx context.Context) ([]*User, error) {
	var records []*User
	err := r.db.NewSelect().
		Model(&records).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*User{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *users) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	q := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id)

	for col, val := range fields {
		q.Set("? = ?", bun.Ident(col), val)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *users) Delete(ctx context.Context, user *User) error {
	_, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", user.ID).
		Exec(ctx)
	return err
}

func (r *users) StoreVerificationToken(ctx context.Context, id int64, token string) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("verification_token = ?", token).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Where("verification_token IS NULL").
		Where("is_verified = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *users) ConsumeVerificationToken(ctx context.Context, id int64, token string) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_verified = ?", true).
		Set("verification_token = NULL").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Where("verification_token = ?", token).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *users) StoreResetToken(ctx context.Context, id int64, token string) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("reset_password_token = ?", token).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Where("reset_password_token IS NULL").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *users) ConsumeResetToken(ctx context.Context, id int64, token, passwordHash string) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("reset_password_token = NULL").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", id).
		Where("reset_password_token = ?", token).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either sqlite or postgres.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
