package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var DB *gorm.DB

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// DBOptions 数据库初始化选项
type DBOptions struct {
	Replicas []string // 只读副本 DSN（为空则不启用读写分离）
	LogLevel string   // silent/error/warn/info
}

// InitDB 初始化数据库连接
func InitDB(driver, dsn string, pool DBPoolConfig, opts ...DBOptions) error {
	var opt DBOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseGormLogLevel(opt.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	if err := registerReplicas(DB, driver, opt.Replicas); err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// registerReplicas 注册只读副本，统计类查询自动走副本
func registerReplicas(db *gorm.DB, driver string, replicas []string) error {
	dialectors := make([]gorm.Dialector, 0, len(replicas))
	for _, dsn := range replicas {
		dsn = strings.TrimSpace(dsn)
		if dsn == "" {
			continue
		}
		d, err := openDialector(driver, dsn)
		if err != nil {
			return err
		}
		dialectors = append(dialectors, d)
	}
	if len(dialectors) == 0 {
		return nil
	}
	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: dialectors,
		Policy:   dbresolver.RandomPolicy{},
	}))
}

func parseGormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AllModels 返回需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&Account{},
		&AccountAddress{},
		&AccountLoginLog{},
		&AuthzAuditLog{},
		&Brand{},
		&Category{},
		&Material{},
		&Color{},
		&Size{},
		&Product{},
		&ProductVariant{},
		&ProductVariantImage{},
		&Voucher{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Return{},
		&ReturnItem{},
		&Promotion{},
		&PromotionProduct{},
		&Notification{},
		&DailyStatistic{},
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate() error {
	if err := DB.SetupJoinTable(&Promotion{}, "Products", &PromotionProduct{}); err != nil {
		return err
	}
	return DB.AutoMigrate(AllModels()...)
}
