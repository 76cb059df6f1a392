package response

import (
	"github.com/zeroverload/SmartLib/internal/model"
)

// UserResponse copies user without the password hash.
func UserResponse(user *model.User) *model.User {
	return &model.User{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Role:       user.Role,
		Status:     user.Status,
		Contact:    user.Contact,
		AvatarURL:  user.AvatarURL,
		JoinedDate: user.JoinedDate,
	}
}

func UserListResponse(users []*model.User) []*model.User {
	response := make([]*model.User, 0, len(users))
	for _, user := range users {
		response = append(response, UserResponse(user))
	}
	return response
}
