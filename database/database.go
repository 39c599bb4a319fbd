package database

import (
	"fmt"
	"log"

	"bookkeeping/config"
	"bookkeeping/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
// 优先连接配置中的 MySQL，连接失败时回退到本地 SQLite 文件
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), gormCfg)
	if err != nil {
		log.Printf("MySQL 连接失败: %v", err)
		log.Printf("回退到 SQLite 数据库: %s", cfg.Database.SQLitePath)
		DB, err = gorm.Open(sqlite.Open(cfg.Database.SQLitePath), gormCfg)
		if err != nil {
			return fmt.Errorf("连接数据库失败: %w", err)
		}
	} else {
		log.Printf("已连接到 MySQL 数据库: %s", cfg.Database.DBName)

		// 连接池参数仅对 MySQL 有意义
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	// 自动迁移数据库表
	if err := DB.AutoMigrate(&models.Record{}); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
