package product

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/request"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// Handler exposes the product catalog.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a product handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type reviewRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Comment string `json:"comment" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

type createRequest struct {
	ProductName string         `json:"productName" binding:"required,max=255"`
	Description string         `json:"description" binding:"required"`
	Image       string         `json:"image" binding:"required,url"`
	Category    string         `json:"category" binding:"required,max=100"`
	Price       *types.Money   `json:"price" binding:"required"`
	Status      *bool          `json:"status" binding:"required"`
	KeyFeatures []string       `json:"keyFeatures" binding:"required,min=1,dive,required"`
	Reviews     *reviewRequest `json:"reviews"`
}

// Create adds a product.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.AppError(h.logger, c, err)
		return
	}

	input := Input{
		ProductName: req.ProductName,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Price:       *req.Price,
		Status:      *req.Status,
		KeyFeatures: req.KeyFeatures,
	}
	if req.Reviews != nil {
		input.Review = &ReviewInput{UserID: req.Reviews.UserID, Rating: req.Reviews.Rating, Comment: req.Reviews.Comment}
	}

	product, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			response.AppError(h.logger, c, err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to create product", err)
		return
	}

	response.Created(c, product, "Product created successfully")
}

// List returns a filtered page of products.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c, SortableFields)
	filters := Filters{
		SearchTerm: c.Query("searchTerm"),
		Category:   c.Query("category"),
	}

	products, total, err := h.service.List(c.Request.Context(), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, products, "Products retrieved successfully", pagination.MetadataFrom(total, params))
}
