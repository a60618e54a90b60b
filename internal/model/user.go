package model

import "time"

// Roles a user can hold.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// MaskedPassword replaces the password hash in every API response.
const MaskedPassword = "******"

// User is an account as stored in the `users` table / collection.
// Users are soft-deleted and never physically removed.
//
// Fields:
//
//	ID           – UUID primary key.
//	Email        – unique, lower-cased address.
//	FullName     – display name.
//	PasswordHash – bcrypt hash; never serialised as-is.
//	Role         – USER or ADMIN.
//	IsActive     – inactive accounts cannot log in.
//	Deleted      – soft-delete flag.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"fullName" bson:"fullName"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	Deleted      bool      `json:"deleted" bson:"deleted"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserView is the response shape of a user: the stored fields with the
// password replaced by MaskedPassword.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View returns the masked response shape of u.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Password:  MaskedPassword,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Author is the subset of a user joined into reviews and comments.
type Author struct {
	ID       string `json:"id" bson:"_id"`
	Email    string `json:"email" bson:"email"`
	FullName string `json:"fullName" bson:"fullName"`
}

// AccessToken is one issued login session.  Only the SHA-256 hash of the
// bearer token is stored.  Logout and password reset mark every row of an
// email deleted, which revokes the token even before it expires.
type AccessToken struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	TokenHash string    `json:"-" bson:"tokenHash"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	Deleted   bool      `json:"deleted" bson:"deleted"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
