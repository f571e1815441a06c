package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/orderdesk/internal/audit/domain"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

type listAuditLogsQuery struct {
	Action     string `form:"action"`
	TargetType string `form:"targetType"`
	TargetID   string `form:"targetId"`
	ActorType  string `form:"actorType"`
	From       string `form:"from"`
	To         string `form:"to"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var errs validation.Errors
	page := queryInt(c, "page", &errs)
	pageSize := queryInt(c, "pageSize", &errs)
	startAt, err := parseOptionalTime(query.From, false)
	if err != nil {
		errs.Add("from", "invalid", "from must be an RFC3339 timestamp or a date")
	}
	endAt, err := parseOptionalTime(query.To, true)
	if err != nil {
		errs.Add("to", "invalid", "to must be an RFC3339 timestamp or a date")
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListAuditLogRequest{
		Pagination: pagination.Pagination{Page: page, PageSize: pageSize},
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		TargetID:   strings.TrimSpace(query.TargetID),
		ActorType:  strings.TrimSpace(query.ActorType),
		StartAt:    startAt,
		EndAt:      endAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
