// README: Dispatch results, typed downstream payloads and dispatch errors.
package dispatch

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"airchat/internal/ai"
	"airchat/internal/modules/airline"
)

var (
	// ErrMalformedRequest matches a *MalformedRequestError.
	ErrMalformedRequest   = errors.New("malformed request")
	ErrUnrecognizedIntent = errors.New("unrecognized intent")
)

// MalformedRequestError lists the intent parameters that kept a recipe from
// building its request.
type MalformedRequestError struct {
	Action  ai.Action
	Missing []string
	Invalid []string
}

func (e *MalformedRequestError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("malformed %s request: %s", e.Action, strings.Join(parts, "; "))
}

func (e *MalformedRequestError) Is(target error) bool {
	return target == ErrMalformedRequest
}

// Fields returns every offending parameter name, sorted.
func (e *MalformedRequestError) Fields() []string {
	out := append(append([]string{}, e.Missing...), e.Invalid...)
	sort.Strings(out)
	return out
}

// Reply is the outcome of one dispatched intent.
type Reply struct {
	Action     ai.Action
	Response   string
	Suggestion string

	// Result is exactly what the airline client returned.
	Result airline.Result
}

// FlightQuery is the query string of GET flight/query-flight.
type FlightQuery struct {
	DateFrom       string
	DateTo         string
	AirportFrom    string
	AirportTo      string
	NumberOfPeople int
}

func (q FlightQuery) Values() url.Values {
	return url.Values{
		"date_from":        {q.DateFrom},
		"date_to":          {q.DateTo},
		"airport_from":     {q.AirportFrom},
		"airport_to":       {q.AirportTo},
		"number_of_people": {strconv.Itoa(q.NumberOfPeople)},
	}
}

// TicketPurchase is the body of POST ticket/buy-ticket.
type TicketPurchase struct {
	Date           string   `json:"date"`
	FlightNumber   any      `json:"flight_number"`
	PassengerNames []string `json:"passenger_names"`
}

// CheckinRequest is the body of POST checkin.
type CheckinRequest struct {
	Date          string `json:"date"`
	FlightNumber  any    `json:"flight_number"`
	PassengerName string `json:"passenger_name"`
}

const (
	BookingSuggestion = "✈️ Would you like to book a ticket?\n" +
		"You can purchase it by specifying the date, flight number, and passenger name.\n\n" +
		"Example: Book a ticket for flight 8 on 2025-05-20. My name is Doga."

	CheckinSuggestion = "🛂 Would you like to check in?\n" +
		"You can do so by specifying the flight number, date, and your name.\n\n" +
		"Example: Check in for flight (flight number) on 2025-05-19. My name is Doga."
)
