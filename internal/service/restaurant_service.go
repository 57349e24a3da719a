package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

// ErrRestaurantExists signals a duplicate tenant slug.
var ErrRestaurantExists = errors.New("restaurant already exists")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// RestaurantService manages tenant records.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
}

// NewRestaurantService constructs the service.
func NewRestaurantService(restaurants repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{restaurants: restaurants}
}

// RestaurantInput describes tenant create/update payload.
type RestaurantInput struct {
	Name        string
	Description *string
	Address     *string
	Phone       *string
	IsActive    bool
}

// GetBySlug fetches a tenant.
func (s *RestaurantService) GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	return s.restaurants.GetBySlug(ctx, slug)
}

// Create registers a new tenant under the given slug.
func (s *RestaurantService) Create(ctx context.Context, slug string, input RestaurantInput) (*domain.Restaurant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, errors.New("invalid restaurant slug")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("restaurant name required")
	}

	restaurant := &domain.Restaurant{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		IsActive:    true,
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrRestaurantExists
		}
		return nil, err
	}
	return restaurant, nil
}

// Update replaces the mutable fields of a tenant.
func (s *RestaurantService) Update(ctx context.Context, slug string, input RestaurantInput) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		restaurant.Name = name
	}
	restaurant.Description = input.Description
	restaurant.Address = input.Address
	restaurant.Phone = input.Phone
	restaurant.IsActive = input.IsActive
	if err := s.restaurants.Update(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}
