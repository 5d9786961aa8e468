package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/metrics"
)

// DefaultClock is used when a request leaves a time blank.
var DefaultClock = Clock{Hour: 10}

// ListingProvider looks vehicles up in the current listing table.
type ListingProvider interface {
	Get(ctx context.Context, name string) (listings.Listing, *listings.Table, error)
}

// Request is an operator's quotation input.
type Request struct {
	Vehicle      string `json:"vehicle" validate:"required,max=200"`
	PickupDate   string `json:"pickup_date" validate:"required"`
	PickupTime   string `json:"pickup_time"`
	ReturnDate   string `json:"return_date" validate:"required"`
	ReturnTime   string `json:"return_time"`
	Location     string `json:"location" validate:"required"`
	CustomerName string `json:"customer_name" validate:"max=120"`
}

// Quotation is a priced, ready-to-send answer to a Request.
type Quotation struct {
	Reference  string           `json:"reference"`
	IssuedAt   time.Time        `json:"issued_at"`
	Customer   string           `json:"customer"`
	Listing    listings.Listing `json:"listing"`
	Specs      Specs            `json:"specs"`
	Location   Location         `json:"location"`
	Pickup     time.Time        `json:"pickup"`
	Return     time.Time        `json:"return"`
	HighSeason bool             `json:"high_season"`
	Lead       bool             `json:"lead"`
	Result     Result           `json:"result"`
	// Script is set for lead listings only.
	Script  *Script `json:"script,omitempty"`
	Message Message `json:"message"`
	// Warning carries the listing table warning when quoting from stale data.
	Warning string `json:"warning,omitempty"`
}

// Service produces quotations from the listing table.
type Service struct {
	listings ListingProvider
	ceiling  decimal.Decimal
	loc      *time.Location
	log      *slog.Logger
	now      func() time.Time
}

// NewService returns a quotation Service. leadCeiling enables the price-based
// lead rule when positive; loc is used for pickup and return instants.
func NewService(lp ListingProvider, leadCeiling decimal.Decimal, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		listings: lp,
		ceiling:  leadCeiling,
		loc:      loc,
		log:      logger.With("quote"),
		now:      time.Now,
	}
}

// Quote prices a request. Lead listings get the seasonal upsell script as
// their message instead of the direct quote.
func (s *Service) Quote(ctx context.Context, req Request) (*Quotation, error) {
	q, err := s.quote(ctx, req)
	if err != nil {
		metrics.QuoteFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		s.log.Info("quote: rejected", "vehicle", req.Vehicle, "error", err)
		return nil, err
	}

	kind := "quote"
	if q.Lead {
		kind = "lead"
	}
	metrics.QuotesTotal.WithLabelValues(kind, SeasonLabel(q.HighSeason)).Inc()
	metrics.QuoteTotalBRL.Observe(q.Result.Total.InexactFloat64())
	s.log.Info("quote: issued", "reference", q.Reference, "vehicle", q.Listing.Name, "kind", kind, "total", q.Result.Total.StringFixed(2))
	return q, nil
}

func (s *Service) quote(ctx context.Context, req Request) (*Quotation, error) {
	pickupDate, err := ParseDate(req.PickupDate)
	if err != nil {
		return nil, err
	}
	returnDate, err := ParseDate(req.ReturnDate)
	if err != nil {
		return nil, err
	}
	pickupTime, err := clockOrDefault(req.PickupTime)
	if err != nil {
		return nil, err
	}
	returnTime, err := clockOrDefault(req.ReturnTime)
	if err != nil {
		return nil, err
	}

	loc, ok := LookupLocation(req.Location)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, req.Location)
	}

	listing, table, err := s.listings.Get(ctx, req.Vehicle)
	switch {
	case errors.Is(err, listings.ErrNotFound):
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicle, req.Vehicle)
	case err != nil:
		return nil, err
	}

	rate, high := SelectRate(listing, pickupDate)
	res, err := ComputeQuote(pickupDate, pickupTime, returnDate, returnTime, rate, loc.Fee)
	if err != nil {
		return nil, err
	}

	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}

	q := &Quotation{
		Reference:  uuid.NewString(),
		IssuedAt:   s.now().In(s.loc),
		Customer:   customer,
		Listing:    listing,
		Specs:      ResolveSpecs(listing.Name),
		Location:   loc,
		Pickup:     pickupDate.At(pickupTime, s.loc),
		Return:     returnDate.At(returnTime, s.loc),
		HighSeason: high,
		Lead:       IsLead(listing, s.ceiling),
		Result:     res,
	}
	if table != nil {
		q.Warning = table.Warning
	}

	data := MessageData{
		Customer:     customer,
		Vehicle:      listing.Name,
		Group:        listing.Group,
		Engine:       listing.Engine,
		Transmission: listing.Transmission,
		Specs:        q.Specs,
		Location:     loc,
		Pickup:       q.Pickup,
		Return:       q.Return,
		HighSeason:   high,
		Result:       res,
	}
	if q.Lead {
		script := SelectScript(pickupDate, customer)
		q.Script = &script
		data.Script = script
		q.Message, err = ComposeLeadMessage(data)
	} else {
		q.Message, err = ComposeQuoteMessage(data)
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func clockOrDefault(s string) (Clock, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultClock, nil
	}
	return ParseClock(s)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoListings):
		return "no_listings"
	case errors.Is(err, ErrUnknownVehicle):
		return "unknown_vehicle"
	case errors.Is(err, ErrUnknownLocation):
		return "unknown_location"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrNegativeAmount):
		return "negative_amount"
	default:
		return "internal"
	}
}
