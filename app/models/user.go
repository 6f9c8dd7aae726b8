package models

import (
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SUBSCRIPTION_FREE    = "free"
	SUBSCRIPTION_PREMIUM = "premium"
)

type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email               string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password            string         `gorm:"type:text" json:"-"`
	SubscriptionStatus  string         `gorm:"type:varchar(20);default:'free'" json:"subscription_status" validate:"oneof=free premium"`
	SubscriptionEndDate *time.Time     `gorm:"type:timestamp;default:null" json:"subscription_end_date"`
	SubscriptionID      *string        `gorm:"type:varchar(100);default:null" json:"subscription_id"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds a new user with a hashed password and a lowercased
// email. Webhook processing never creates users; this is used by seed and
// account tooling.
func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:               name,
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Password:           pw,
		SubscriptionStatus: SUBSCRIPTION_FREE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// IsPremium reports whether the user currently holds a premium subscription.
func (u *User) IsPremium() bool {
	return u.SubscriptionStatus == SUBSCRIPTION_PREMIUM
}

// IsSubscriptionActive reports whether the subscription end date lies in
// the future relative to now.
func (u *User) IsSubscriptionActive(now time.Time) bool {
	return u.SubscriptionEndDate != nil && u.SubscriptionEndDate.After(now)
}

// DaysRemaining returns the whole days left until the subscription end
// date, rounded up. Zero when there is no end date or it already passed.
func (u *User) DaysRemaining(now time.Time) int {
	if u.SubscriptionEndDate == nil {
		return 0
	}
	remaining := u.SubscriptionEndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
