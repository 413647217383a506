// Package test 测试辅助：内存数据库、数据构造与 gin 请求
package test

import (
	"path/filepath"
	"testing"

	"campus-activity/config"
	"campus-activity/internal/global/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewDB 每个测试一个独立的 SQLite 文件库
// 只开一个连接，事务彼此串行，行为与 MySQL 行锁下的临界区一致
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "campus.db")
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(config.ModeRelease))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

// NewMockDB 基于 sqlmock 的 MySQL 方言连接，用于模拟数据库故障
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.GormConfig(config.ModeRelease))
	require.NoError(t, err)
	return db, mock
}
