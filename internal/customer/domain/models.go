package domain

import (
	"strings"
	"time"

	"github.com/smallbiznis/orderdesk/pkg/validation"
)

// Customer is never physically removed; IsDeleted is its tombstone.
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
}

func (Customer) TableName() string { return "customers" }

// New validates and normalises a customer that has not been stored yet.
func New(name, email string, now time.Time) (*Customer, error) {
	name, email, err := validate(name, email)
	if err != nil {
		return nil, err
	}
	return &Customer{
		Name:      name,
		Email:     email,
		CreatedAt: now.UTC(),
	}, nil
}

// Rehydrate rebuilds a stored customer without re-running field rules.
func Rehydrate(id int64, name, email string, createdAt time.Time, isDeleted bool) (*Customer, error) {
	if id < 0 {
		return nil, ErrInvalidID
	}
	return &Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
		IsDeleted: isDeleted,
	}, nil
}

// Update applies the same rules as New. On failure the customer is left
// untouched.
func (c *Customer) Update(name, email string) error {
	name, email, err := validate(name, email)
	if err != nil {
		return err
	}
	c.Name = name
	c.Email = email
	return nil
}

// ToggleDeleted flips the tombstone and reports the new state.
func (c *Customer) ToggleDeleted() bool {
	c.IsDeleted = !c.IsDeleted
	return c.IsDeleted
}

// NormalizeEmail is the form used for storage and uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validate(name, email string) (string, string, error) {
	var errs validation.Errors

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "required", "name is required")
	}

	email = NormalizeEmail(email)
	switch {
	case email == "":
		errs.Add("email", "required", "email is required")
	case !strings.Contains(email, "@"):
		errs.Add("email", "invalid", "email must be a valid address")
	}

	if err := errs.Err(); err != nil {
		return "", "", err
	}
	return name, email, nil
}
