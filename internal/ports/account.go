package ports

import "context"

// AccountPort defines the interface for updating account profiles.
type AccountPort interface {
	// UpdateDisplayName sets the public name shown to match spectators.
	// Returns an error if the profile update fails.
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}
