package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/pkg/auth"
	"github.com/shashiranjanraj/lastbite/pkg/crypt"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/orm"
)

// RegisterInput is the payload for account creation. A non-empty VendorName
// registers a vendor account and creates the vendor alongside it.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"nullable,max=50"`

	VendorName string `json:"vendor_name" validate:"nullable,max=255"`
	VendorCity string `json:"vendor_city" validate:"nullable,max=100"`
}

// AuthService handles registration, login and the account profile.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(in RegisterInput) (models.User, string, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Phone:    in.Phone,
		Role:     models.RoleConsumer,
	}

	if in.VendorName != "" {
		vendor := models.Vendor{Name: in.VendorName, City: in.VendorCity}
		if err := orm.DB().Create(&vendor); err != nil {
			return models.User{}, "", err
		}
		user.Role = models.RoleVendor
		user.VendorID = vendor.ID
	}

	if err := s.users.Create(&user); err != nil {
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Role, user.VendorID)
	if err != nil {
		return models.User{}, "", err
	}

	logger.Info("auth: registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role, user.VendorID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the account with addresses and payment methods loaded.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	if user.Addresses, err = s.users.Addresses(userID); err != nil {
		return models.User{}, err
	}
	if user.PaymentMethods, err = s.users.PaymentMethods(userID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// AddAddress appends an address and returns the account's full address list.
// Addresses are never edited in place.
func (s *AuthService) AddAddress(userID uint, addr models.Address) ([]models.Address, error) {
	addr.UserID = userID
	if err := s.users.AddAddress(&addr); err != nil {
		return nil, err
	}
	return s.users.Addresses(userID)
}

// PaymentMethodInput is a raw card as submitted by the client.
type PaymentMethodInput struct {
	Brand      string `json:"brand" validate:"required,in=visa,mastercard,amex"`
	CardNumber string `json:"card_number" validate:"required,min=12,max=19"`
	ExpMonth   int    `json:"exp_month" validate:"required,between=1,12"`
	ExpYear    int    `json:"exp_year" validate:"required,gte=2024"`
}

// AddPaymentMethod encrypts and stores a card. Only brand and last4 are ever
// returned to clients afterwards.
func (s *AuthService) AddPaymentMethod(userID uint, in PaymentMethodInput) (models.PaymentMethod, error) {
	ciphertext, err := crypt.Encrypt(in.CardNumber)
	if err != nil {
		return models.PaymentMethod{}, fmt.Errorf("auth: encrypt card: %w", err)
	}

	pm := models.PaymentMethod{
		UserID:     userID,
		Brand:      in.Brand,
		Last4:      in.CardNumber[len(in.CardNumber)-4:],
		CardNumber: ciphertext,
		ExpMonth:   in.ExpMonth,
		ExpYear:    in.ExpYear,
	}
	if err := s.users.AddPaymentMethod(&pm); err != nil {
		return models.PaymentMethod{}, err
	}
	return pm, nil
}
