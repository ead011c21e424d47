package airline

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv, seen := newAirlineServer(t, http.StatusOK, `{"token":"jwt-123"}`)
	auth := NewAuthenticator(NewClient(srv.URL+"/api/v1/", time.Second, nil, nil), "doga", "1234")

	tok, err := auth.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-123", tok)

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/auth/login", got.Path)
	assert.Equal(t, "doga", got.Payload["username"])
	assert.Equal(t, "1234", got.Payload["password"])
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad credentials"}`},
		{"missing token", http.StatusOK, `{"user":"doga"}`},
		{"empty token", http.StatusOK, `{"token":""}`},
		{"not json", http.StatusOK, `token=abc`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newAirlineServer(t, tc.status, tc.body)
			auth := NewAuthenticator(NewClient(srv.URL, time.Second, nil, nil), "doga", "1234")

			tok, err := auth.Login(context.Background())
			assert.Error(t, err)
			assert.Empty(t, tok)
		})
	}
}
