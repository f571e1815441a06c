package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/orderdesk/internal/order/domain"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := strconv.FormatInt(resp.ID, 10)
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "order.create", "order", &targetID, map[string]any{
			"customer_id": resp.CustomerID,
			"items":       len(resp.Items),
			"total":       resp.Total.String(),
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListOrders(c *gin.Context) {
	var errs validation.Errors
	customerID, err := parseOptionalInt64(c.Query("customerId"))
	if err != nil {
		errs.Add("customerId", "invalid", "customerId must be an integer")
	}
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		errs.Add("from", "invalid", "from must be an RFC3339 timestamp or a date")
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		errs.Add("to", "invalid", "to must be an RFC3339 timestamp or a date")
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	req := orderdomain.ListRequest{From: from, To: to}
	if customerID != nil {
		req.CustomerID = *customerID
	}

	resp, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.orderSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetOrderReceipt(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.orderSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="order-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", body)
}
