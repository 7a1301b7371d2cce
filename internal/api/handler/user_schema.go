package handler

import "github.com/99minutos/portal-users/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,letters"`
	Surname  string `json:"surname"  validate:"required,letters"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest fields are optional, but a present field must be valid.
type updateUserRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,letters"`
	Surname *string `json:"surname" validate:"omitempty,min=1,letters"`
	Email   *string `json:"email"   validate:"omitempty,email"`
}

func (r updateUserRequest) toProfileUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{Name: r.Name, Surname: r.Surname, Email: r.Email}
}

type userResponse struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Surname  string   `json:"surname"`
	Email    string   `json:"email"`
	IsActive bool     `json:"is_active"`
	Roles    []string `json:"roles"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:   u.ID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
		Roles:    u.Roles.Strings(),
	}
}

type updatedUserResponse struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type deletedUserResponse struct {
	DeletedUserID string `json:"deleted_user_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
