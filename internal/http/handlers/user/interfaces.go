package user

import (
	"cloudnest/internal/models"
	"context"
)

const pkg = "userHandler/"

type UserRegistrar interface {
	Register(ctx context.Context, requester *models.User, email string, password string, role string) (string, error)
}
