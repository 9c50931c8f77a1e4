package repositories

import (
	"time"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/cache"
	"github.com/shashiranjanraj/lastbite/pkg/orm"
)

// CatalogFilter narrows the public item listing.
type CatalogFilter struct {
	Category string
	City     string
	VendorID uint
	// InStock keeps only items with remaining quantity.
	InStock bool
}

// cacheable reports whether the filter matches the hot unfiltered listing.
func (f CatalogFilter) cacheable() bool {
	return f == CatalogFilter{InStock: true}
}

// CatalogCacheKey is the Redis key of the default listing. The order service
// drops it after every placement so quantities stay fresh.
const CatalogCacheKey = "catalog:items:available"

// FoodItemRepository handles database operations for surplus listings.
type FoodItemRepository struct{}

func NewFoodItemRepository() *FoodItemRepository {
	return &FoodItemRepository{}
}

// List returns listings matching the filter, newest first. The unfiltered
// in-stock listing is served cache-through from Redis.
func (r *FoodItemRepository) List(f CatalogFilter) ([]models.FoodItem, error) {
	q := orm.DB().Model(&models.FoodItem{}).Preload("Vendor")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.VendorID != 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}
	if f.City != "" {
		q = q.Where("vendor_id IN (?)", vendorIDsByCity(f.City))
	}
	if f.InStock {
		q = q.Where("quantity > 0")
	}
	q = q.Order("created_at desc")

	items := []models.FoodItem{}
	if f.cacheable() {
		return items, q.Cache(CatalogCacheKey, 30*time.Second, &items)
	}
	return items, q.Get(&items)
}

// vendorIDsByCity is a subquery helper for the city filter.
func vendorIDsByCity(city string) []uint {
	var ids []uint
	var vendors []models.Vendor
	if err := orm.DB().Model(&models.Vendor{}).Where("city = ?", city).Get(&vendors); err != nil {
		return ids
	}
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}
	return ids
}

// FindByID returns one listing with its vendor.
func (r *FoodItemRepository) FindByID(id uint) (models.FoodItem, error) {
	var item models.FoodItem
	err := orm.DB().Model(&models.FoodItem{}).
		Where("id = ?", id).
		Preload("Vendor").
		First(&item)
	return item, err
}

// FindByIDs returns the listings for a set of IDs, keyed by ID.
func (r *FoodItemRepository) FindByIDs(ids []uint) (map[uint]models.FoodItem, error) {
	var items []models.FoodItem
	if err := orm.DB().Model(&models.FoodItem{}).Where("id IN ?", ids).Get(&items); err != nil {
		return nil, err
	}

	out := make(map[uint]models.FoodItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// Create persists a new listing and invalidates the hot listing cache.
func (r *FoodItemRepository) Create(item *models.FoodItem) error {
	if err := orm.DB().Create(item); err != nil {
		return err
	}
	cache.Del(CatalogCacheKey)
	return nil
}

// Update persists changes to a listing and invalidates the hot listing cache.
func (r *FoodItemRepository) Update(item *models.FoodItem) error {
	if err := orm.DB().Save(item); err != nil {
		return err
	}
	cache.Del(CatalogCacheKey)
	return nil
}

// Delete removes a listing (soft delete).
func (r *FoodItemRepository) Delete(item *models.FoodItem) error {
	if err := orm.DB().Delete(item); err != nil {
		return err
	}
	cache.Del(CatalogCacheKey)
	return nil
}

// FindVendor returns a vendor by primary key.
func (r *FoodItemRepository) FindVendor(id uint) (models.Vendor, error) {
	var v models.Vendor
	err := orm.DB().Model(&models.Vendor{}).Where("id = ?", id).First(&v)
	return v, err
}
