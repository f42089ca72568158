// Package alerts evaluates price alerts against the best available offer.
package alerts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/market-service/internal/market"
)

// Alert is a standing request to be notified when a product can be bought
// at or below a target price anywhere.
type Alert struct {
	ID          int64   `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	TargetPrice float64 `json:"targetPrice"`
	UserID      string  `json:"userId,omitempty"`
	Active      bool    `json:"active"`
}

// TriggeredAlert pairs an alert with the offer that satisfied it.
type TriggeredAlert struct {
	Alert Alert        `json:"alert"`
	Offer market.Offer `json:"offer"`
	Name  string       `json:"name"`
}

// Store abstracts alert persistence. The database package provides a
// Postgres-backed implementation.
type Store interface {
	ListActive(ctx context.Context) ([]Alert, error)
	Create(ctx context.Context, alert *Alert) error
	Deactivate(ctx context.Context, id int64) error
}

// Service checks alerts against the repository's best offers.
type Service struct {
	repo   *market.Repository
	store  Store
	logger zerolog.Logger
}

// NewService creates an alert service.
func NewService(repo *market.Repository, store Store) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: log.With().Str("component", "alerts").Logger(),
	}
}

// Create validates and persists a new alert.
func (s *Service) Create(ctx context.Context, alert *Alert) error {
	if alert.ProductID == "" {
		return ErrInvalidAlert{Reason: "product ID is required"}
	}
	if alert.TargetPrice <= 0 {
		return ErrInvalidAlert{Reason: "target price must be positive"}
	}
	alert.Active = true
	return s.store.Create(ctx, alert)
}

// CheckOne evaluates a single alert at date without touching persistence.
// Used by the CLI for one-shot checks against a data directory.
func (s *Service) CheckOne(alert Alert, date market.Date) (TriggeredAlert, bool) {
	offer, ok := s.repo.BestOffer(alert.ProductID, date)
	if !ok || offer.Price > alert.TargetPrice {
		return TriggeredAlert{}, false
	}

	name := alert.ProductID
	if p, found := s.repo.FindProduct(offer.Store, alert.ProductID, date); found {
		name = p.Name
	}
	return TriggeredAlert{Alert: alert, Offer: offer, Name: name}, true
}

// Check evaluates every active alert at date. An alert triggers when the
// best discount-adjusted offer across all stores is at or below its target
// price. Triggered alerts are deactivated so they fire once.
func (s *Service) Check(ctx context.Context, date market.Date) ([]TriggeredAlert, error) {
	active, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var triggered []TriggeredAlert
	for _, alert := range active {
		hit, ok := s.CheckOne(alert, date)
		if !ok {
			continue
		}

		if err := s.store.Deactivate(ctx, alert.ID); err != nil {
			return nil, err
		}
		hit.Alert.Active = false

		s.logger.Info().
			Str("product_id", alert.ProductID).
			Str("store", hit.Offer.Store).
			Float64("price", hit.Offer.Price).
			Float64("target", alert.TargetPrice).
			Msg("Price alert triggered")
		triggered = append(triggered, hit)
	}
	return triggered, nil
}

// ErrInvalidAlert is returned when an alert fails validation.
type ErrInvalidAlert struct {
	Reason string
}

func (e ErrInvalidAlert) Error() string {
	return "invalid alert: " + e.Reason
}
