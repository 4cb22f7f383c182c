package users

import "github.com/sharekit-app/sharekit-backend/pkg/db/models"

// UserDTO is the wire representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateInput carries the fields accepted when registering a user.
type CreateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateInput carries a partial user update. Nil fields are left untouched.
type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ToDTO maps a user model to its wire shape.
func ToDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToDTO(u))
	}
	return out
}
