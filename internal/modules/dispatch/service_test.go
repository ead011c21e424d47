package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airchat/internal/ai"
	"airchat/internal/modules/airline"
	"airchat/internal/modules/token"
)

type fakeCaller struct {
	mu     sync.Mutex
	calls  []airline.Request
	result airline.Result
}

func (f *fakeCaller) Call(_ context.Context, req airline.Request) airline.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.result
}

func newTestService(caller Caller) *Service {
	return NewService(caller, WithClock(func() time.Time { return testNow }))
}

func TestDispatchQueryFlightWithResults(t *testing.T) {
	caller := &fakeCaller{result: okResult(`{"flights":[{"flight_number":"8","airport_from":"IST","airport_to":"JFK","date_from":"2025-05-20","date_to":"2025-05-21"}]}`)}
	svc := newTestService(caller)

	reply, err := svc.Dispatch(context.Background(), ai.Intent{
		Action:     ai.ActionQueryFlight,
		Parameters: map[string]any{"airport_from": "IST", "airport_to": "JFK", "date_from": "2025-05-20", "date_to": "2025-05-21"},
	})
	require.NoError(t, err)

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "IST", caller.calls[0].Query.Get("airport_from"))

	assert.Equal(t, ai.ActionQueryFlight, reply.Action)
	assert.Equal(t, "✈️ Flight No: 8\n📍 From: IST → To: JFK\n🗓️ Date: 2025-05-20 - 2025-05-21", reply.Response)
	assert.Equal(t, BookingSuggestion, reply.Suggestion)
	assert.Equal(t, caller.result, reply.Result)
}

func TestDispatchQueryFlightWithoutResults(t *testing.T) {
	cases := map[string]struct {
		res        airline.Result
		suggestion string
	}{
		"empty": {res: okResult(`{"flights":[]}`), suggestion: BookingSuggestion},
		"error": {res: errResult("API Error 502")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reply, err := newTestService(&fakeCaller{result: tc.res}).Dispatch(context.Background(), ai.Intent{
				Action:     ai.ActionQueryFlight,
				Parameters: map[string]any{"airport_from": "IST", "airport_to": "JFK"},
			})
			require.NoError(t, err)
			assert.Equal(t, NoFlightsMessage, reply.Response)
			assert.Equal(t, tc.suggestion, reply.Suggestion)
		})
	}
}

func TestDispatchMalformedSkipsCall(t *testing.T) {
	caller := &fakeCaller{}
	_, err := newTestService(caller).Dispatch(context.Background(), ai.Intent{
		Action:     ai.ActionBuyTicket,
		Parameters: map[string]any{"date": "2025-05-20", "passenger_names": []any{"Doga"}},
	})

	require.ErrorIs(t, err, ErrMalformedRequest)
	assert.Equal(t, []string{"flight_number"}, err.(*MalformedRequestError).Missing)
	assert.Empty(t, caller.calls)
}

func TestDispatchUnrecognized(t *testing.T) {
	caller := &fakeCaller{}
	_, err := newTestService(caller).Dispatch(context.Background(), ai.Intent{Action: ai.ActionUnrecognized})
	assert.ErrorIs(t, err, ErrUnrecognizedIntent)
	assert.Empty(t, caller.calls)
}

func TestDispatchBuyTicketSuggestsCheckin(t *testing.T) {
	intent := ai.Intent{
		Action:     ai.ActionBuyTicket,
		Parameters: map[string]any{"date": "2025-05-20", "flight_number": "8", "passenger_names": []any{"Doga"}},
	}

	reply, err := newTestService(&fakeCaller{result: okResult(`{"status":"Success"}`)}).Dispatch(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, TicketPurchasedMessage, reply.Response)
	assert.Equal(t, CheckinSuggestion, reply.Suggestion)

	reply, err = newTestService(&fakeCaller{result: errResult("API Error 400")}).Dispatch(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, "Ticket purchase failed: API Error 400", reply.Response)
	assert.Empty(t, reply.Suggestion)
}

func TestDispatchCheckinHasNoSuggestion(t *testing.T) {
	caller := &fakeCaller{result: okResult(`{"seat_number":"3F"}`)}
	reply, err := newTestService(caller).Dispatch(context.Background(), ai.Intent{
		Action:     ai.ActionCheckin,
		Parameters: map[string]any{"date": "2025-05-20", "flight_number": "8", "passenger_names": []any{"Doga", "Ali"}},
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "Seat Number: 3F")
	assert.Empty(t, reply.Suggestion)
	assert.Equal(t, "Doga", caller.calls[0].Body.(CheckinRequest).PassengerName)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Wires the real client and token cache against a fake airline whose login
// always fails.
func TestDispatchBuyTicketWhenLoginFails(t *testing.T) {
	var logins, purchases atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/auth/login"):
			logins.Add(1)
			var c credentials
			_ = json.NewDecoder(r.Body).Decode(&c)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
		case strings.HasSuffix(r.URL.Path, "/ticket/buy-ticket"):
			purchases.Add(1)
			_, _ = w.Write([]byte(`{"status":"Success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	apiURL := srv.URL + "/api/v1/"
	auth := airline.NewAuthenticator(airline.NewClient(apiURL, time.Second, nil, nil), "user", "wrong")
	cache := token.NewCache(auth, nil)
	client := airline.NewClient(apiURL, time.Second, cache, nil)

	reply, err := newTestService(client).Dispatch(context.Background(), ai.Intent{
		Action:     ai.ActionBuyTicket,
		Parameters: map[string]any{"date": "2025-05-20", "flight_number": "8", "passenger_names": []any{"Doga"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ticket purchase failed: "+airline.AuthFailureMessage, reply.Response)
	assert.Empty(t, reply.Suggestion)
	require.NotNil(t, reply.Result.Err)
	assert.Equal(t, airline.KindAuthFailure, reply.Result.Err.Kind)
	assert.Equal(t, int32(1), logins.Load())
	assert.Zero(t, purchases.Load())
}
