package domain

import "context"

// CatalogClient fetches one category of wines from the upstream catalog.
// Implementations know nothing about caching.
type CatalogClient interface {
	FetchCategory(ctx context.Context, style Style) ([]Wine, error)
}

// Catalog serves the merged wine catalog. The canonical implementation is the
// snapshot cache; callers must treat the returned slice as read-only.
type Catalog interface {
	GetAll(ctx context.Context) ([]Wine, error)
}

// UserRepository defines the persistence interface for accounts.
type UserRepository interface {
	Create(ctx context.Context, email, username, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// FavoriteRepository defines the persistence interface for per-user favorite
// wines, keyed by the upstream catalog's wine identifier.
type FavoriteRepository interface {
	List(ctx context.Context, userID int64) ([]string, error)
	Add(ctx context.Context, userID int64, wineID string) error
	Remove(ctx context.Context, userID int64, wineID string) error
}
