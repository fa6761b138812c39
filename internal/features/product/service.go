package product

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Input describes a new product.
type Input struct {
	ProductName string
	Description string
	Image       string
	Category    string
	Price       types.Money
	Status      bool
	KeyFeatures []string
	Review      *ReviewInput
}

// ReviewInput is the optional review stored with a new product.
type ReviewInput struct {
	UserID  string
	Rating  int
	Comment string
}

// Service manages the product catalog.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a product service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create stores a product.
func (s *Service) Create(ctx context.Context, input Input) (*Product, error) {
	if problem := input.Price.Problem(); problem != "" {
		return nil, apperrors.Validation("Validation Error",
			[]apperrors.FieldError{{Path: "price", Message: problem}}, nil)
	}

	features := make([]string, 0, len(input.KeyFeatures))
	for _, feature := range input.KeyFeatures {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	product := &Product{
		ProductName: strings.TrimSpace(input.ProductName),
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Status:      input.Status,
		KeyFeatures: features,
	}
	if input.Review != nil {
		product.Reviews = []ProductReview{{
			UserID:  input.Review.UserID,
			Rating:  input.Review.Rating,
			Comment: input.Review.Comment,
		}}
	}

	if err := s.store.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product created", slog.String("product_id", product.ID.String()))
	return product, nil
}

// List returns one page of products.
func (s *Service) List(ctx context.Context, filters Filters, params pagination.Params) ([]Product, int64, error) {
	return s.store.List(ctx, filters, params)
}
