// Package orm is a thin chainable query helper over the shared gorm handle,
// with an optional cache-through read for hot listings.
//
// Repositories use it for simple reads:
//
//	var items []models.FoodItem
//	err := orm.DB().Model(&models.FoodItem{}).Where("category = ?", c).Get(&items)
//
// Multi-statement writes (the order placement transaction) go straight
// through database.DB.Transaction instead.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/pkg/cache"
	"github.com/shashiranjanraj/lastbite/pkg/database"
)

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(association string) *Query {
	return &Query{db: q.db.Preload(association)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row; gorm.ErrRecordNotFound when absent.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count stores the number of matching rows in n.
func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Create inserts value.
func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

// Save upserts value by primary key.
func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

// Delete removes value (soft delete for models embedding gorm.Model).
func (q *Query) Delete(value interface{}) error {
	return q.db.Delete(value).Error
}

// Cache serves dest from Redis under key when present, otherwise runs the
// query and fills the cache for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}
