package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionClaims_Owner(t *testing.T) {
	id := uuid.New()
	owner, err := (&SessionClaims{UserID: id.String()}).Owner()
	require.NoError(t, err)
	assert.Equal(t, id, owner)

	_, err = (&SessionClaims{UserID: "someone"}).Owner()
	assert.Error(t, err)
}

func TestSessionClaims_HasRole(t *testing.T) {
	claims := &SessionClaims{Roles: []string{RoleUser}}
	assert.True(t, claims.HasRole(RoleUser))
	assert.False(t, claims.HasRole(RoleAdmin))
}
