// internal/adapters/out/db/common/sqlutil.go
package common

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// RowScanner は *sql.Row, *sql.Rows の両方に共通の Scan() メソッドを持つ抽象型です。
type RowScanner interface {
	Scan(dest ...any) error
}

// Runner は *sql.DB と *sql.Tx の共通インターフェースです。
// リポジトリはトランザクション開始時に渡された Runner だけを使います。
type Runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
)

// sqlState は lib/pq と pgx の両ドライバから SQLSTATE を取り出します。
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation は PostgreSQL 一意制約違反（duplicate key）を検知します。
func IsUniqueViolation(err error) bool {
	return err != nil && sqlState(err) == codeUniqueViolation
}

// IsForeignKeyViolation reports a missing referenced row (or a referenced row
// that is still in use on delete).
func IsForeignKeyViolation(err error) bool {
	return err != nil && sqlState(err) == codeForeignKeyViolation
}

// IsCheckViolation は CHECK 制約違反（在庫マイナス等）を検知します。
func IsCheckViolation(err error) bool {
	return err != nil && sqlState(err) == codeCheckViolation
}

// IsRetryableTx reports serialization failures and deadlocks.
func IsRetryableTx(err error) bool {
	if err == nil {
		return false
	}
	s := sqlState(err)
	return s == codeSerialization || s == codeDeadlock
}

// Int64s renders ids as a bigint[] text literal for "= ANY($1)".
// Both lib/pq and pgx send strings in text format, so the literal works with either driver.
func Int64s(ids []int64) any {
	v, err := pq.Array(ids).Value()
	if err != nil {
		return nil
	}
	return v
}

// ToNullInt64 は *int64 を sql.NullInt64 に変換します（nil → NULL）。
func ToNullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// FromNullInt64 は sql.NullInt64 を *int64 に変換します（無効なら nil）。
func FromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

