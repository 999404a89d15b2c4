package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const insertBatchSize = 200

// GormTable keeps a whole collection in one database table
type GormTable[T any] struct {
	db    *gorm.DB
	name  string
	order string
}

// NewGormTable creates a table backed by the model's own table. Rows are loaded in
// the given ORDER BY expression (may be empty).
func NewGormTable[T any](db *gorm.DB, order string) *GormTable[T] {
	var model T
	name := "rows"
	if tabler, ok := any(model).(schema.Tabler); ok {
		name = tabler.TableName()
	}
	return &GormTable[T]{db: db, name: name, order: order}
}

// LoadAll reads every row of the table
func (t *GormTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	query := t.db.WithContext(ctx).Session(&gorm.Session{Logger: t.db.Logger.LogMode(logger.Silent)})
	if t.order != "" {
		query = query.Order(t.order)
	}

	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return nil, loadError(t.name, err)
	}
	return rows, nil
}

// ReplaceAll swaps the table contents for rows inside a single transaction
func (t *GormTable[T]) ReplaceAll(ctx context.Context, rows []T) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return replaceError(t.name, err)
	}
	return nil
}
