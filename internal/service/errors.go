package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/repository"
)

var (
	codeInvalidKey           = "INVALID_KEY"
	codeAlreadyRegistered    = "ALREADY_REGISTERED"
	codeNoSeatsAvailable     = "NO_SEATS_AVAILABLE"
	codeSeatsBelowRegistered = "SEATS_BELOW_REGISTERED"
	codeDatesOutOfOrder      = "DATES_OUT_OF_ORDER"
	codeAlreadyOnWishlist    = "ALREADY_ON_WISHLIST"
	codeNotOnWishlist        = "NOT_ON_WISHLIST"
	codeNoFeaturedSpeaker    = "NO_FEATURED_SPEAKER"
)

// decodeKey decodes a websafe key of the given kind. Anything else is a
// client error.
func decodeKey(websafeKey string, kind key.Kind) (*key.Key, error) {
	k, err := key.DecodeKind(websafeKey, kind)
	if err != nil {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("Invalid %s key: %s", strings.ToLower(string(kind)), websafeKey),
			true, &codeInvalidKey, nil, nil,
		)
	}
	return k, nil
}

// notFound converts repository.ErrNotFound into a 404 with msg and passes
// other errors through.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errs.NewNotFoundError(msg, true, nil)
	}
	return err
}
