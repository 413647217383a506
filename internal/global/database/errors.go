package database

import (
	"errors"
	"strings"

	"campus-activity/internal/global/response"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// IsDuplicateKey 判断是否违反唯一约束
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	// 其他驱动只能看错误文本
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

// TxError 事务闭包里返回的业务错误原样透传，其余（含提交失败）归为数据库错误
func TxError(err error) error {
	if err == nil {
		return nil
	}
	var e *response.Error
	if errors.As(err, &e) {
		return e
	}
	return response.ErrDatabase.WithOrigin(err)
}

// NotFoundOr 记录不存在时返回 notFound，其他错误归为数据库错误
func NotFoundOr(err error, notFound *response.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return response.ErrDatabase.WithOrigin(err)
}
