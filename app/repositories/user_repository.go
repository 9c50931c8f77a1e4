// Package repositories contains the data access layer. Repositories talk to
// gorm (and MongoDB for emission reference data); services never touch the
// database directly.
package repositories

import (
	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/orm"
)

// UserRepository handles database operations for User and its owned records.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// Addresses returns all addresses of a user, oldest first.
func (r *UserRepository) Addresses(userID uint) ([]models.Address, error) {
	var out []models.Address
	err := orm.DB().Model(&models.Address{}).
		Where("user_id = ?", userID).
		Order("id asc").
		Get(&out)
	return out, err
}

// AddAddress appends an address to a user.
func (r *UserRepository) AddAddress(addr *models.Address) error {
	return orm.DB().Create(addr)
}

// PaymentMethods returns all stored payment methods of a user.
func (r *UserRepository) PaymentMethods(userID uint) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	err := orm.DB().Model(&models.PaymentMethod{}).
		Where("user_id = ?", userID).
		Order("id asc").
		Get(&out)
	return out, err
}

// AddPaymentMethod stores a payment method. CardNumber must already be
// encrypted by the caller.
func (r *UserRepository) AddPaymentMethod(pm *models.PaymentMethod) error {
	return orm.DB().Create(pm)
}
