package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	authdomain "github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/auth/mocks"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAccountsDefaults(t *testing.T) {
	accounts := Accounts(config.Config{})
	require.Len(t, accounts, 2)
	assert.Equal(t, "admin", accounts[0].Username)
	assert.Equal(t, "admin", accounts[0].Password)
	assert.Equal(t, authdomain.RoleAdmin, accounts[0].Role)
	assert.Equal(t, "user", accounts[1].Username)
	assert.Equal(t, authdomain.RoleUser, accounts[1].Role)

	accounts = Accounts(config.Config{SeedAdminPassword: "s3cret"})
	assert.Equal(t, "s3cret", accounts[0].Password)
}

func TestRunEnsuresEveryAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockService(ctrl)

	auth.EXPECT().
		EnsureUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req authdomain.CreateUserRequest) (*authdomain.User, bool, error) {
			return &authdomain.User{Username: req.Username, Role: req.Role}, true, nil
		}).
		Times(2)

	seeder, err := New(Params{Config: config.Config{}, Log: zaptest.NewLogger(t), Auth: auth})
	require.NoError(t, err)
	require.NoError(t, seeder.Run(context.Background()))
}

func TestRunStopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockService(ctrl)
	boom := errors.New("boom")

	auth.EXPECT().EnsureUser(gomock.Any(), gomock.Any()).Return(nil, false, boom).Times(1)

	seeder, err := New(Params{Config: config.Config{}, Log: zaptest.NewLogger(t), Auth: auth})
	require.NoError(t, err)
	assert.ErrorIs(t, seeder.Run(context.Background()), boom)
}
