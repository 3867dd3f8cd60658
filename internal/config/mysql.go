package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB connects to MySQL through gorm.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
}
