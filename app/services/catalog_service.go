package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/pkg/storage"
)

// ItemInput is the vendor payload for creating or updating a listing.
type ItemInput struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Description     string  `json:"description" validate:"nullable,max=2000"`
	Category        string  `json:"category" validate:"required,max=100"`
	OriginalPrice   float64 `json:"original_price" validate:"required,gt=0"`
	DiscountedPrice float64 `json:"discounted_price" validate:"required,gt=0"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
	ExpiryDate      string  `json:"expiry_date" validate:"nullable,date"`
	Ingredients     string  `json:"ingredients" validate:"nullable,max=2000"`
	DietaryInfo     string  `json:"dietary_info" validate:"nullable,max=255"`
}

// CatalogService serves the public item listing and the vendor-side CRUD.
type CatalogService struct {
	items     *repositories.FoodItemRepository
	estimator *EmissionService
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		items:     repositories.NewFoodItemRepository(),
		estimator: NewEmissionService(),
	}
}

// List returns the public catalog. By default only items with remaining
// stock are shown.
func (s *CatalogService) List(f repositories.CatalogFilter) ([]models.FoodItem, error) {
	return s.items.List(f)
}

// Get returns one listing, ErrNotFound when it does not exist.
func (s *CatalogService) Get(id uint) (models.FoodItem, error) {
	item, err := s.items.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FoodItem{}, ErrNotFound
	}
	return item, err
}

// CreateItem creates a listing owned by vendorID and fills its per-unit
// emission estimate.
func (s *CatalogService) CreateItem(vendorID uint, in ItemInput) (models.FoodItem, error) {
	vendor, err := s.items.FindVendor(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, ErrNotFound
		}
		return models.FoodItem{}, err
	}

	item := models.FoodItem{
		VendorID:        vendorID,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		Quantity:        in.Quantity,
		Ingredients:     in.Ingredients,
		DietaryInfo:     in.DietaryInfo,
	}
	if in.ExpiryDate != "" {
		if t, err := time.Parse("2006-01-02", in.ExpiryDate); err == nil {
			item.ExpiryDate = t
		}
	}

	est := s.estimator.EstimateItem(ItemEstimateInput{
		Category: in.Category,
		Country:  vendor.Country,
		Month:    int(time.Now().Month()),
		WeightKg: KgFoodPerUnit,
	})
	item.EmissionsSaved = est.SavedKgCO2

	if err := s.items.Create(&item); err != nil {
		return models.FoodItem{}, err
	}
	item.Vendor = vendor
	return item, nil
}

// UpdateItem applies in to an existing listing after an ownership check.
func (s *CatalogService) UpdateItem(vendorID, itemID uint, in ItemInput) (models.FoodItem, error) {
	item, err := s.ownedItem(vendorID, itemID)
	if err != nil {
		return models.FoodItem{}, err
	}

	item.Name = in.Name
	item.Description = in.Description
	item.Category = in.Category
	item.OriginalPrice = in.OriginalPrice
	item.DiscountedPrice = in.DiscountedPrice
	item.Quantity = in.Quantity
	item.Ingredients = in.Ingredients
	item.DietaryInfo = in.DietaryInfo
	if in.ExpiryDate != "" {
		if t, err := time.Parse("2006-01-02", in.ExpiryDate); err == nil {
			item.ExpiryDate = t
		}
	}

	if err := s.items.Update(&item); err != nil {
		return models.FoodItem{}, err
	}
	return item, nil
}

// DeleteItem removes a listing after an ownership check.
func (s *CatalogService) DeleteItem(vendorID, itemID uint) error {
	item, err := s.ownedItem(vendorID, itemID)
	if err != nil {
		return err
	}
	return s.items.Delete(&item)
}

// AttachImage stores an uploaded photo on the configured disk and records its
// public URL on the listing.
func (s *CatalogService) AttachImage(vendorID, itemID uint, filename string, r io.Reader) (models.FoodItem, error) {
	item, err := s.ownedItem(vendorID, itemID)
	if err != nil {
		return models.FoodItem{}, err
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	dst := fmt.Sprintf("items/%d/photo%s", item.ID, ext)

	if err := storage.PutStream(dst, r); err != nil {
		return models.FoodItem{}, err
	}

	item.ImageURL = storage.URL(dst)
	if err := s.items.Update(&item); err != nil {
		return models.FoodItem{}, err
	}
	return item, nil
}

func (s *CatalogService) ownedItem(vendorID, itemID uint) (models.FoodItem, error) {
	item, err := s.items.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, ErrNotFound
		}
		return models.FoodItem{}, err
	}
	if item.VendorID != vendorID {
		return models.FoodItem{}, ErrForbidden
	}
	return item, nil
}
