package usecase

import (
	"context"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
)

// UserListOutput represents a paginated user list
type UserListOutput struct {
	Users   []*entity.User `json:"users"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}

// UserUsecase defines the interface for user administration logic
type UserUsecase interface {
	List(ctx context.Context, limit, offset int) (*UserListOutput, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) List(ctx context.Context, limit, offset int) (*UserListOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := u.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &UserListOutput{
		Users:   users,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}
