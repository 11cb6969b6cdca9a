package db

import (
	"time"

	"gorm.io/gorm"
)

// NotDeleted filters rows soft-deleted through delete_date.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("delete_date IS NULL")
	}
}

// NotDeletedWithAlias is NotDeleted for joined queries.
func NotDeletedWithAlias(alias string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(alias + ".delete_date IS NULL")
	}
}

// ValidAt keeps rows of the aliased table whose validity window covers now.
func ValidAt(alias string, now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(alias+".valid_until IS NOT NULL").Where(alias+".valid_until >= ?", now)
	}
}
