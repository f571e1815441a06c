package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/orderdesk/internal/authorization"
	customerdomain "github.com/smallbiznis/orderdesk/internal/customer/domain"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := strconv.FormatInt(resp.ID, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "customer.create", "customer", &targetID, map[string]any{
			"name":  resp.Name,
			"email": resp.Email,
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListCustomers(c *gin.Context) {
	var errs validation.Errors
	page := queryInt(c, "page", &errs)
	pageSize := queryInt(c, "pageSize", &errs)
	includeDeleted, err := parseOptionalBool(c.Query("includeDeleted"))
	if err != nil {
		errs.Add("includeDeleted", "invalid", "includeDeleted must be a boolean")
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	req := customerdomain.ListCustomerRequest{
		Pagination: pagination.Pagination{Page: page, PageSize: pageSize},
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if includeDeleted != nil && *includeDeleted {
		if err := s.authorize(c, authorization.ObjectCustomer, authorization.ActionCustomerViewDeleted); err != nil {
			AbortWithError(c, err)
			return
		}
		req.IncludeDeleted = true
	}

	resp, err := s.customerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateCustomerRequest{
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := strconv.FormatInt(id, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "customer.update", "customer", &targetID, map[string]any{
			"name":  strings.TrimSpace(req.Name),
			"email": strings.ToLower(strings.TrimSpace(req.Email)),
		})
	}

	c.Status(http.StatusNoContent)
}

// DeleteCustomer toggles the soft-delete flag; a second call restores.
func (s *Server) DeleteCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.ToggleDelete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		action := "customer.restore"
		if resp.IsDeleted {
			action = "customer.delete"
		}
		targetID := strconv.FormatInt(id, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, action, "customer", &targetID, map[string]any{
			"is_deleted": resp.IsDeleted,
		})
	}

	c.Status(http.StatusNoContent)
}
