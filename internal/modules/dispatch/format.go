// README: Response formatters; turn airline results into chat text without touching the result.
package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"airchat/internal/modules/airline"
)

const (
	NoFlightsMessage       = "No flights found matching your criteria."
	TicketPurchasedMessage = "✅ Ticket successfully purchased. Have a nice flight!"

	notAvailable = "N/A"
	notAssigned  = "Not assigned"
)

// text accepts any JSON scalar; the airline API is not consistent about
// sending flight numbers and seats as strings or numbers.
type text string

func (t *text) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*t = text(s)
		return nil
	}
	*t = text(raw)
	return nil
}

func (t text) or(fallback string) string {
	if strings.TrimSpace(string(t)) == "" {
		return fallback
	}
	return string(t)
}

type flight struct {
	FlightNumber text `json:"flight_number"`
	AirportFrom  text `json:"airport_from"`
	AirportTo    text `json:"airport_to"`
	DateFrom     text `json:"date_from"`
	DateTo       text `json:"date_to"`
}

type flightList struct {
	Flights []json.RawMessage `json:"flights"`
}

type checkinResult struct {
	SeatNumber text `json:"seat_number"`
}

// decodeFlights returns the well-formed entries of the flights list;
// entries that are not objects are skipped.
func decodeFlights(res airline.Result) []flight {
	var list flightList
	if err := res.Decode(&list); err != nil {
		return nil
	}
	flights := make([]flight, 0, len(list.Flights))
	for _, raw := range list.Flights {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var f flight
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		flights = append(flights, f)
	}
	return flights
}

// FormatFlights renders one block per flight, in result order.
func FormatFlights(res airline.Result) string {
	flights := decodeFlights(res)
	if len(flights) == 0 {
		return NoFlightsMessage
	}

	blocks := make([]string, 0, len(flights))
	for _, f := range flights {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("✈️ Flight No: %s", f.FlightNumber.or(notAvailable)),
			fmt.Sprintf("📍 From: %s → To: %s", f.AirportFrom.or(notAvailable), f.AirportTo.or(notAvailable)),
			fmt.Sprintf("🗓️ Date: %s - %s", f.DateFrom.or(notAvailable), f.DateTo.or(notAvailable)),
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func FormatTicketPurchase(res airline.Result) string {
	if res.Err != nil {
		return "Ticket purchase failed: " + res.Err.Message
	}
	return TicketPurchasedMessage
}

func FormatCheckin(res airline.Result) string {
	if res.Err != nil {
		return "Check-in failed: " + res.Err.Message
	}
	// A 200 body without a readable seat is still a completed check-in;
	// the seat falls back to notAssigned.
	var out checkinResult
	_ = res.Decode(&out)
	return fmt.Sprintf("✅ Check-in successful!\n💺 Seat Number: %s\n🛫 You're ready to fly!", out.SeatNumber.or(notAssigned))
}
