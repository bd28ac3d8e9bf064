package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingService struct {
	repo *repository.ListingRepository
	log  zerolog.Logger
}

func NewListingService(repo *repository.ListingRepository, log zerolog.Logger) *ListingService {
	return &ListingService{
		repo: repo,
		log:  log.With().Str("service", "listing").Logger(),
	}
}

// ListingPage is one page of marketplace results.
type ListingPage struct {
	Listings []model.Listing `json:"listings"`
	Total    int64           `json:"total"`
}

// List returns active listings matching the filter. Nonsensical bounds are
// dropped rather than rejected so a sloppy query still returns results.
func (s *ListingService) List(ctx context.Context, filter repository.ListingFilter) (*ListingPage, error) {
	if filter.MinPrice < 0 {
		filter.MinPrice = 0
	}
	if filter.MaxPrice < 0 {
		filter.MaxPrice = 0
	}
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		filter.MinPrice, filter.MaxPrice = filter.MaxPrice, filter.MinPrice
	}
	if filter.MaxMileage < 0 {
		filter.MaxMileage = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	listings, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ListingPage{Listings: listings, Total: total}, nil
}

func (s *ListingService) Get(ctx context.Context, id uint) (*model.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (s *ListingService) Create(ctx context.Context, listing *model.Listing) error {
	if listing.Make == "" || listing.Model == "" || listing.Year <= 0 || listing.PricePence <= 0 {
		return ErrInvalidInput
	}
	if err := s.repo.Create(listing); err != nil {
		return err
	}
	s.log.Info().Uint("listing_id", listing.ID).
		Str("make", listing.Make).Str("model", listing.Model).
		Msg("listing created")
	return nil
}
