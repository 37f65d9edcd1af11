package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Product categories
const (
	CategoryKids   = "kids"
	CategoryLadies = "ladies"
	CategoryMens   = "mens"
)

var (
	kidsSizes  = []string{"4-5Y", "6-7Y", "8-9Y", "10-11Y", "12-13Y"}
	adultSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	products map[string]models.Product
}

// NewInMemoryProductRepository creates a new in-memory product repository with the tracksuit catalog
func NewInMemoryProductRepository() *InMemoryProductRepository {
	seed := []models.Product{
		{ID: "kids-1", Name: "Kids Classic Tracksuit", Category: CategoryKids, Image: "/images/kids/1.jpg", Price: 25, Sizes: kidsSizes},
		{ID: "kids-2", Name: "Kids Monogram Tracksuit", Category: CategoryKids, Image: "/images/kids/2.jpg", Price: 25, Sizes: kidsSizes},
		{ID: "kids-3", Name: "Kids Stripe Tracksuit", Category: CategoryKids, Image: "/images/kids/3.jpg", Price: 25, Sizes: kidsSizes},
		{ID: "ladies-1", Name: "Ladies Velour Tracksuit", Category: CategoryLadies, Image: "/images/ladies/1.jpg", Price: 25, Sizes: adultSizes},
		{ID: "ladies-2", Name: "Ladies Web Stripe Tracksuit", Category: CategoryLadies, Image: "/images/ladies/2.jpg", Price: 25, Sizes: adultSizes},
		{ID: "ladies-3", Name: "Ladies Logo Tracksuit", Category: CategoryLadies, Image: "/images/ladies/3.jpg", Price: 25, Sizes: adultSizes},
		{ID: "mens-1", Name: "Mens Classic Tracksuit", Category: CategoryMens, Image: "/images/mens/1.jpg", Price: 25, Sizes: adultSizes},
		{ID: "mens-2", Name: "Mens Monogram Tracksuit", Category: CategoryMens, Image: "/images/mens/2.jpg", Price: 25, Sizes: adultSizes},
		{ID: "mens-3", Name: "Mens Technical Jersey Tracksuit", Category: CategoryMens, Image: "/images/mens/3.jpg", Price: 25, Sizes: adultSizes},
		{ID: "mens-4", Name: "Mens Heritage Tracksuit", Category: CategoryMens, Image: "/images/mens/4.jpg", Price: 25, Sizes: adultSizes},
	}

	return NewInMemoryProductRepositoryWith(seed)
}

// NewInMemoryProductRepositoryWith creates a repository holding exactly the given products
func NewInMemoryProductRepositoryWith(products []models.Product) *InMemoryProductRepository {
	m := make(map[string]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &InMemoryProductRepository{
		products: m,
	}
}

// GetAll returns all products ordered by ID
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sortProducts(products)
	return products, nil
}

// GetByCategory returns the products of one category ordered by ID
func (r *InMemoryProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for _, product := range r.products {
		if product.Category == category {
			products = append(products, product)
		}
	}
	sortProducts(products)
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func sortProducts(products []models.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}
