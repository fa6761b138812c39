package product

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
)

type fakeStore struct {
	mu       sync.Mutex
	products []Product
}

func (f *fakeStore) Create(_ context.Context, product *Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.New()
	for i := range product.Reviews {
		product.Reviews[i].ID = uuid.New()
		product.Reviews[i].ProductID = product.ID
	}
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeStore) List(_ context.Context, filters Filters, params pagination.Params) ([]Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(filters.SearchTerm))
	var matched []Product
	for _, p := range f.products {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.ProductName+" "+p.Category+" "+p.Description), term) {
			continue
		}
		matched = append(matched, p)
	}

	if params.SortBy == "price" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := matched[i].Price.Decimal().LessThan(matched[j].Price.Decimal())
			if params.SortOrder == "asc" {
				return less
			}
			return !less
		})
	}

	total := int64(len(matched))
	start := params.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
