package product

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Product is a catalog item outside the course flow.
type Product struct {
	types.BaseModel
	ProductName string          `gorm:"type:varchar(255);not null" json:"productName"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Image       string          `gorm:"type:varchar(500);not null" json:"image"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price       types.Money     `gorm:"type:numeric(10,2);not null" json:"price"`
	Status      bool            `gorm:"not null;default:true" json:"status"`
	KeyFeatures pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"keyFeatures"`
	Reviews     []ProductReview `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews"`
}

// TableName specifies the table name for Product.
func (Product) TableName() string {
	return "products"
}

// ProductReview is a free-form rating attached to a product.
type ProductReview struct {
	types.BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
}

// TableName specifies the table name for ProductReview.
func (ProductReview) TableName() string {
	return "product_reviews"
}

// Filters narrows product listings.
type Filters struct {
	SearchTerm string
	Category   string
}

// SortableFields maps public sort keys to columns.
var SortableFields = map[string]string{
	"createdAt":   "created_at",
	"price":       "price",
	"productName": "product_name",
}
