package driven

import (
	"context"
	"errors"

	"github.com/efindlay/devfinder/internal/domain/model"
)

// ErrProfileNotFound indicates the requested GitHub user does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileSource defines the driven port for fetching a user's profile and
// their repository list in one request.
// Fetch returns ErrProfileNotFound when the user does not exist; any other
// error means the fetch could not be completed. Implementations never
// retain or mutate the returned Profile.
type ProfileSource interface {
	Fetch(ctx context.Context, login string) (*model.Profile, error)
}
