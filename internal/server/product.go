package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/orderdesk/internal/product/domain"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

type productRequest struct {
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := strconv.FormatInt(resp.ID, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "product.create", "product", &targetID, map[string]any{
			"description": resp.Description,
			"price":       resp.Price.String(),
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListProducts(c *gin.Context) {
	var errs validation.Errors
	page := queryInt(c, "page", &errs)
	pageSize := queryInt(c, "pageSize", &errs)
	minPrice, err := parseOptionalDecimal(c.Query("minPrice"))
	if err != nil {
		errs.Add("minPrice", "invalid", "minPrice must be a number")
	}
	maxPrice, err := parseOptionalDecimal(c.Query("maxPrice"))
	if err != nil {
		errs.Add("maxPrice", "invalid", "maxPrice must be a number")
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Pagination: pagination.Pagination{Page: page, PageSize: pageSize},
		Search:     strings.TrimSpace(c.Query("search")),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       strings.TrimSpace(c.Query("sort")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProductByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.productSvc.Update(c.Request.Context(), id, productdomain.UpdateRequest{
		Description: req.Description,
		Price:       req.Price,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		metadata := map[string]any{"description": strings.TrimSpace(req.Description)}
		if req.Price != nil {
			metadata["price"] = req.Price.StringFixed(2)
		}
		targetID := strconv.FormatInt(id, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "product.update", "product", &targetID, metadata)
	}

	c.Status(http.StatusNoContent)
}

// DeleteProduct toggles the soft-delete flag; a second call restores.
func (s *Server) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.ToggleDelete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		action := "product.restore"
		if resp.IsDeleted {
			action = "product.delete"
		}
		targetID := strconv.FormatInt(id, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, action, "product", &targetID, map[string]any{
			"is_deleted": resp.IsDeleted,
		})
	}

	c.Status(http.StatusNoContent)
}
