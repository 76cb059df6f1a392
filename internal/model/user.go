package model

import "time"

// Role is the type of a role.
type Role string

const (
	// RoleReader is the READER role.
	RoleReader Role = "reader"
	// RoleAdmin is the ADMIN role.
	RoleAdmin Role = "admin"
)

func (e Role) String() string {
	switch e {
	case RoleAdmin:
		return "admin"
	case RoleReader:
		return "reader"
	}
	return "reader"
}

func (e Role) Valid() bool {
	return e == RoleReader || e == RoleAdmin
}

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusFrozen UserStatus = "frozen"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusFrozen
}

type User struct {
	ID int32 `json:"id"`

	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	Contact   string     `json:"contact"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	// PasswordHash is persisted but never sent to clients, see response.UserResponse.
	PasswordHash string    `json:"password_hash,omitempty"`
	JoinedDate   time.Time `json:"joined_date"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type FindUser struct {
	ID       *int32      `json:"id"`
	Username *string     `json:"username"`
	Role     *Role       `json:"role"`
	Status   *UserStatus `json:"status"`
}

type UserCreateRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Contact   string `json:"contact"`
	AvatarURL string `json:"avatar_url"`
}

// UserUpdateRequest carries the fields an admin may change. Nil fields are kept.
type UserUpdateRequest struct {
	Name      *string     `json:"name"`
	Contact   *string     `json:"contact"`
	AvatarURL *string     `json:"avatar_url"`
	Status    *UserStatus `json:"status"`
}

type UserProfileRequest struct {
	Name      *string `json:"name"`
	Contact   *string `json:"contact"`
	AvatarURL *string `json:"avatar_url"`
}

type UserSigninRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	NeverExpire bool   `json:"never_expire"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
