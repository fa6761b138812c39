package product

import (
	"context"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
)

// Store persists products.
type Store interface {
	Create(ctx context.Context, product *Product) error
	List(ctx context.Context, filters Filters, params pagination.Params) ([]Product, int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Create inserts the product and any attached reviews in one transaction.
func (s *gormStore) Create(ctx context.Context, product *Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := product.Reviews
		if err := tx.Omit("Reviews").Create(product).Error; err != nil {
			return pkgerrors.Wrap(err, "create product")
		}
		for i := range reviews {
			reviews[i].ProductID = product.ID
			if err := tx.Create(&reviews[i]).Error; err != nil {
				return pkgerrors.Wrap(err, "create product review")
			}
		}
		product.Reviews = reviews
		return nil
	})
}

func (s *gormStore) List(ctx context.Context, filters Filters, params pagination.Params) ([]Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&Product{})
	if term := strings.TrimSpace(filters.SearchTerm); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(product_name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count products")
	}

	var products []Product
	if err := query.Preload("Reviews").
		Order(params.OrderClause(SortableFields)).
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list products")
	}
	return products, total, nil
}
