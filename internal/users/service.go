package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharekit-app/sharekit-backend/pkg/db"
	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"gorm.io/gorm"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// Service exposes user operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (UserDTO, error)
	Get(ctx context.Context, id int64) (UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo userRepository
}

// NewService builds a user service with the provided repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (UserDTO, error) {
	user := models.User{
		Name:  input.Name,
		Email: input.Email,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "User didn't save!")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return ToDTO(user), nil
}

func (s *service) Get(ctx context.Context, id int64) (UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found user %d", id)
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return ToDTO(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return toDTOs(users), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found user %d", id)
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.repo.Save(ctx, &user); err != nil {
		if db.IsUniqueViolation(err) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "User didn't save!")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return ToDTO(user), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if affected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found user %d", id)
	}
	return nil
}
