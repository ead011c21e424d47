// README: Login against the airline API with the fixed service credentials.
package airline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Authenticator logs in through an unprotected Client. It satisfies
// token.Authenticator.
type Authenticator struct {
	client   *Client
	username string
	password string
}

func NewAuthenticator(client *Client, username, password string) *Authenticator {
	return &Authenticator{client: client, username: username, password: password}
}

// Login returns a fresh bearer token; it succeeds only on HTTP 200 with a
// non-empty token field.
func (a *Authenticator) Login(ctx context.Context) (string, error) {
	res := a.client.Call(ctx, Request{
		Endpoint: LoginEndpoint,
		Method:   http.MethodPost,
		Body:     loginRequest{Username: a.username, Password: a.password},
	})
	if res.Err != nil {
		return "", fmt.Errorf("login: %w", res.Err)
	}

	var out loginResponse
	if err := res.Decode(&out); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("login: response has no token")
	}
	return out.Token, nil
}
