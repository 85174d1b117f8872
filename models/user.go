package models

import "time"

// User represents a registered account used for authentication.
// The credential hash must never leave trusted boundaries.
type User struct {
	// ID is the storage-generated UUID of the user.
	ID string `json:"id"`

	// Email is the unique login key. It is compared case-sensitively,
	// exactly as stored.
	Email string `json:"email"`

	// HashedPassword is the bcrypt hash of the user's password.
	// It is never serialised to JSON.
	HashedPassword string `json:"-"`

	// CreatedAt is set once at insert.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is reset by storage on every mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the body of registration and login requests.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
