package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	authdomain "github.com/smallbiznis/orderdesk/internal/auth/domain"
	authmocks "github.com/smallbiznis/orderdesk/internal/auth/mocks"
	"github.com/smallbiznis/orderdesk/internal/authorization"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	customerrepo "github.com/smallbiznis/orderdesk/internal/customer/repository"
	customerservice "github.com/smallbiznis/orderdesk/internal/customer/service"
	ordermocks "github.com/smallbiznis/orderdesk/internal/order/mocks"
	productmocks "github.com/smallbiznis/orderdesk/internal/product/mocks"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUnhandledErrorIsLoggedOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	restore := zap.ReplaceGlobals(log)
	t.Cleanup(restore)

	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockService(ctrl)
	auth.EXPECT().
		Authenticate(gomock.Any(), userToken).
		Return(&authdomain.Claims{Subject: "user", Role: authdomain.RoleUser}, nil).
		AnyTimes()

	authzConn, err := db.NewTest()
	require.NoError(t, err)
	enforcer, err := authorization.NewEnforcer(authzConn)
	require.NoError(t, err)

	// no customers table: every customer write fails inside storage
	conn, err := db.NewTest()
	require.NoError(t, err)
	customers := customerservice.New(customerservice.Params{
		DB:    conn,
		Log:   log,
		Repo:  customerrepo.Provide(),
		Clock: clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	srv := NewServer(ServerParams{
		Gin:         NewEngine(EngineOptions{ExposeDetail: true}),
		Cfg:         config.Config{},
		Authsvc:     auth,
		AuthzSvc:    authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer}),
		CustomerSvc: customers,
		ProductSvc:  productmocks.NewMockService(ctrl),
		OrderSvc:    ordermocks.NewMockService(ctrl),
	})
	ts := &testServer{engine: srv.Engine()}

	rec := ts.do(t, http.MethodPost, "/api/customers", userToken, map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	errorEntries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorEntries, 1)
	assert.Equal(t, "http_request", errorEntries[0].Message)
}
