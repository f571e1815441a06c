package domain

import (
	"context"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
}
