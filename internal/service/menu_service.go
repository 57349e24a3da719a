package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

// MenuService coordinates category and product workflows for a tenant.
type MenuService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewMenuService constructs the service.
func NewMenuService(categories repository.CategoryRepository, products repository.ProductRepository) *MenuService {
	return &MenuService{categories: categories, products: products}
}

// ProductInput describes product create/update payload.
type ProductInput struct {
	CategoryID  *string
	Name        string
	Description *string
	Price       float64
	Image       *string
	Available   bool
}

// CategoryInput describes category create/update payload.
type CategoryInput struct {
	Name     string
	Position int
}

// ListCategories returns the tenant's categories in display order.
func (s *MenuService) ListCategories(ctx context.Context, slug string) ([]domain.Category, error) {
	return s.categories.ListBySlug(ctx, slug)
}

// CreateCategory adds a menu category.
func (s *MenuService) CreateCategory(ctx context.Context, slug string, input CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	category := &domain.Category{
		RestaurantSlug: slug,
		Name:           name,
		Position:       input.Position,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames or repositions a category.
func (s *MenuService) UpdateCategory(ctx context.Context, slug, id string, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	category.Position = input.Position
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; its products fall back to uncategorized.
func (s *MenuService) DeleteCategory(ctx context.Context, slug, id string) error {
	return s.categories.Delete(ctx, slug, id)
}

// ListProducts returns the tenant's products, optionally filtered by
// category or a name search term.
func (s *MenuService) ListProducts(ctx context.Context, slug string, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.ListBySlug(ctx, slug, filter)
}

// GetProduct fetches a single product scoped by tenant.
func (s *MenuService) GetProduct(ctx context.Context, slug, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, slug, id)
}

// CreateProduct adds a product to the tenant's menu. A referenced category
// must belong to the same tenant.
func (s *MenuService) CreateProduct(ctx context.Context, slug string, input ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(ctx, slug, input); err != nil {
		return nil, err
	}
	product := &domain.Product{
		RestaurantSlug: slug,
		CategoryID:     input.CategoryID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		Image:          input.Image,
		Available:      input.Available,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the mutable fields of a product.
func (s *MenuService) UpdateProduct(ctx context.Context, slug, id string, input ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(ctx, slug, input); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Image = input.Image
	product.Available = input.Available
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the menu.
func (s *MenuService) DeleteProduct(ctx context.Context, slug, id string) error {
	return s.products.Delete(ctx, slug, id)
}

func (s *MenuService) validateProduct(ctx context.Context, slug string, input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("product name required")
	}
	if input.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, slug, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errors.New("category does not belong to restaurant")
			}
			return err
		}
	}
	return nil
}
