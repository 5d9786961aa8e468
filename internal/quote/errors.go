package quote

import (
	"errors"

	"github.com/bher20/locadora/internal/listings"
)

var (
	// ErrInvalidRange means the return instant is not after the pickup instant.
	ErrInvalidRange = errors.New("quote: return must be after pickup")
	// ErrNegativeAmount means a daily rate or location fee below zero.
	ErrNegativeAmount = errors.New("quote: negative amount")
	// ErrInvalidDate means a date or time field could not be parsed.
	ErrInvalidDate = errors.New("quote: invalid date or time")
	// ErrUnknownVehicle means the vehicle is not in the listing table.
	ErrUnknownVehicle = errors.New("quote: unknown vehicle")
	// ErrUnknownLocation means the pickup location is not in the fee table.
	ErrUnknownLocation = errors.New("quote: unknown location")
	// ErrNoListings blocks quoting while no listing data is available.
	ErrNoListings = listings.ErrNoListings
)
