package utils

import (
	"testing"

	"estatedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticListResolverParsing(t *testing.T) {
	r := NewStaticListResolver(" Admin@Example.com , ,not-an-email, second@example.com ")
	require.NotNil(t, r)

	emails, err := r.ResolveAdminEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "second@example.com"}, emails)
}

func TestStaticListResolverEmpty(t *testing.T) {
	assert.Nil(t, NewStaticListResolver(""))
	assert.Nil(t, NewStaticListResolver(" , ,, "))
	assert.Nil(t, NewStaticListResolver("not-an-email"))
}

func TestUserStoreResolver(t *testing.T) {
	db := newTestDB(t)
	active := createTestUser(t, db, "active@example.com", models.RoleAdmin, true)
	createTestUser(t, db, "inactive@example.com", models.RoleAdmin, false)
	createTestUser(t, db, "agent@example.com", models.RoleAgent, true)

	r := NewUserStoreResolver(db)

	emails, err := r.ResolveAdminEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"active@example.com"}, emails)

	admins, err := r.ResolveAdminUsers()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, active.ID, admins[0].ID)
	assert.Equal(t, "active@example.com", admins[0].Email)
}

func TestAdminEmailResolverOverrideFirst(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "db-admin@example.com", models.RoleAdmin, true)

	// A usable override list short-circuits the user store
	r := NewAdminEmailResolver("ops@example.com", db)
	emails, err := r.ResolveAdminEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, emails)

	// An empty or unusable override falls through to the live lookup
	r = NewAdminEmailResolver("", db)
	emails, err = r.ResolveAdminEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"db-admin@example.com"}, emails)

	r = NewAdminEmailResolver("garbage,,", db)
	emails, err = r.ResolveAdminEmails()
	require.NoError(t, err)
	assert.Equal(t, []string{"db-admin@example.com"}, emails)
}
