package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/caretrack/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already registered")

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, password_hash, portal_hash, care_balance,
	egg_status, egg_sessions_remaining, dragon_id, dragon_name, dragon_hatched_at,
	created_at, last_login_at`

// scanUser は1行分のユーザーレコードをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.PortalHash, &user.CareBalance,
		&user.EggStatus, &user.EggSessionsRemaining, &user.DragonID, &user.DragonName,
		&user.DragonHatchedAt, &user.CreatedAt, &user.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByPortalHash はポータルハッシュでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByPortalHash(ctx context.Context, hash string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE portal_hash = $1`, hash)
	return scanUser(row)
}

// Create はユーザーを作成する。
// usersテーブルのemail一意制約に違反した場合はErrDuplicateEmailを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, portal_hash, care_balance,
		   egg_status, egg_sessions_remaining, dragon_id, dragon_name, dragon_hatched_at,
		   created_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Email, user.PasswordHash, user.PortalHash, user.CareBalance,
		user.EggStatus, user.EggSessionsRemaining, user.DragonID, user.DragonName,
		user.DragonHatchedAt, user.CreatedAt, user.LastLoginAt,
	)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateLastLogin は最終ログイン日時を更新する。
func (r *PostgresUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// StartIncubation はegg_statusをnoneからincubatingに遷移させる。
// 既にincubatingまたはhatchedの場合は何も更新せずfalseを返す。
func (r *PostgresUserRepo) StartIncubation(ctx context.Context, id string, sessions int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET egg_status = $2, egg_sessions_remaining = $3
		 WHERE id = $1 AND egg_status = $4`,
		id, model.EggStatusIncubating, sessions, model.EggStatusNone)
	if err != nil {
		return false, fmt.Errorf("failed to start incubation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpdateDragonName は孵化済みドラゴンの名前を更新する。
// 未孵化の場合は更新せずfalseを返す。
func (r *PostgresUserRepo) UpdateDragonName(ctx context.Context, id, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET dragon_name = $2 WHERE id = $1 AND egg_status = $3`,
		id, name, model.EggStatusHatched)
	if err != nil {
		return false, fmt.Errorf("failed to update dragon name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// DeleteByID は指定IDのユーザーを削除する。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
