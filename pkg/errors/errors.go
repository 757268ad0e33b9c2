package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeExclusionViolation  = "23P01"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// IsUniqueViolation 唯一约束冲突
func IsUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

// IsForeignKeyViolation 外键约束冲突
func IsForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// IsExclusionViolation 排他约束冲突（时间段重叠由数据库兜底时返回）
func IsExclusionViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeExclusionViolation
}

// ConstraintName 返回触发错误的约束名，非 PostgreSQL 错误时为空
func ConstraintName(err error) string {
	_, name := pgCode(err)
	return name
}
