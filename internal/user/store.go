package user

import "context"

// Store persists user records. Lookups are case-insensitive on username and
// saves are whole-record overwrites (last write wins across processes).
// Implementations normalize stats on every read.
type Store interface {
	// List returns all users.
	List(ctx context.Context) ([]User, error)
	// Get finds a user by case-insensitive username or returns ErrNotFound.
	Get(ctx context.Context, username string) (User, error)
	// Create inserts a new user or returns ErrAlreadyExists.
	Create(ctx context.Context, u User) error
	// Save overwrites an existing user record.
	Save(ctx context.Context, u User) error
}
