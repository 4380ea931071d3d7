package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

func newTestManager(store Store, delay time.Duration) *Manager {
	return NewManager(ManagerConfig{
		Store:  store,
		Tokens: NewTokens("test-secret"),
		Delay:  delay,
		Logger: logging.Discard(),
	})
}

func TestLogin_FixedAccounts(t *testing.T) {
	cases := []struct {
		email    string
		name     string
		role     Role
		redirect string
	}{
		{"admin@example.com", "Admin User", RoleAdmin, "/dashboard"},
		{"client@example.com", "Client User", RoleClient, "/client-dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			store := NewMemoryStore()
			m := newTestManager(store, 0)

			res, err := m.Login(context.Background(), tc.email, "password")
			require.NoError(t, err)
			assert.Equal(t, tc.redirect, res.Redirect)
			assert.Equal(t, UserSession{Name: tc.name, Email: tc.email, Role: tc.role}, res.User)

			sid, err := m.Resolve(res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.SessionID, sid)

			got, ok := m.Current(context.Background(), sid)
			require.True(t, ok)
			assert.Equal(t, res.User, got)
		})
	}
}

func TestLogin_WrongCredentialsWriteNothing(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store, 0)

	for _, creds := range [][2]string{
		{"admin@example.com", "wrong"},
		{"someone@example.com", "password"},
		{"ADMIN@example.com", "password"},
		{"", ""},
	} {
		_, err := m.Login(context.Background(), creds[0], creds[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Empty(t, store.data)
}

func TestLogin_DelayHonorsCancellation(t *testing.T) {
	m := newTestManager(NewMemoryStore(), time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.Login(ctx, "admin@example.com", "password")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := newTestManager(NewMemoryStore(), 0)
	res, err := m.Login(context.Background(), "client@example.com", "password")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background(), res.SessionID))
	require.NoError(t, m.Logout(context.Background(), res.SessionID))
	require.NoError(t, m.Logout(context.Background(), ""))

	_, ok := m.Current(context.Background(), res.SessionID)
	assert.False(t, ok)
}

func TestTokens_RejectForeignSignature(t *testing.T) {
	issued, err := NewTokens("one").Issue("sid")
	require.NoError(t, err)

	_, err = NewTokens("two").Parse(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("one").Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNavItems(t *testing.T) {
	admin := NavItems(RoleAdmin)
	require.Len(t, admin, 7)
	assert.Equal(t, NavItem{Title: "Clients", URL: "/clients"}, admin[2])
	assert.Equal(t, NavItem{Title: "Settings", URL: "/settings"}, admin[6])

	client := NavItems(RoleClient)
	require.Len(t, client, 7)
	assert.Equal(t, NavItem{Title: "Dashboard", URL: "/client-dashboard"}, client[0])
	assert.Equal(t, NavItem{Title: "Profile", URL: "/profile"}, client[6])

	assert.Nil(t, NavItems(Role("guest")))

	admin[0].Title = "changed"
	assert.Equal(t, "Dashboard", NavItems(RoleAdmin)[0].Title)
}
