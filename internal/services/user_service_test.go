package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vya-logistics/vya-backend/internal/models"
)

func TestListUsers(t *testing.T) {
	users := &mockUsers{}
	users.On("List", mock.Anything).Return([]models.User{
		{ID: "u1", Role: models.RoleSender},
		{ID: "u2", Role: models.RoleTraveler},
	}, nil)

	svc := NewUserService(users, nil)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	users.AssertExpectations(t)
}
