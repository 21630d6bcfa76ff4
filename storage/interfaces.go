package storage

import (
	"context"

	"car-dashboard/models"
)

// ListingSource is anything a Dataset can be loaded from.
type ListingSource interface {
	// Load reads the full table. Failures wrap models.ErrDataUnavailable.
	Load(ctx context.Context) (*models.Dataset, error)
	// Identity returns a token that changes whenever the underlying data changes.
	Identity(ctx context.Context) (string, error)
	// Describe returns a short human-readable location, e.g. a file path.
	Describe() string
}

// ListingWriter is the interface any import backend must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []models.Listing) error
	Close() error
}
