package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/repository"
)

var ErrUnknownCategory = errors.New("unknown product category")

// ProductService handles business logic for the tracksuit catalog
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns the catalog, optionally narrowed to one category
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	switch category {
	case "":
		return s.repo.GetAll(ctx)
	case repository.CategoryKids, repository.CategoryLadies, repository.CategoryMens:
		return s.repo.GetByCategory(ctx, category)
	default:
		return nil, ErrUnknownCategory
	}
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}
