// README: Action recipes; parameter schemas, defaults and the airline request each action maps to.
package dispatch

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"airchat/internal/ai"
	"airchat/internal/modules/airline"
)

const dateLayout = "2006-01-02"

const queryFlightSchema = `{
  "type": "object",
  "required": ["airport_from", "airport_to"],
  "properties": {
    "airport_from": {"type": "string", "minLength": 1},
    "airport_to": {"type": "string", "minLength": 1},
    "date_from": {"type": "string", "format": "date"},
    "date_to": {"type": "string", "format": "date"},
    "number_of_people": {"type": "integer", "minimum": 1, "maximum": 9}
  }
}`

// buy_ticket and checkin take the same parameters; checkin only forwards
// the first passenger.
const bookingSchema = `{
  "type": "object",
  "required": ["date", "flight_number", "passenger_names"],
  "properties": {
    "date": {"type": "string", "format": "date"},
    "flight_number": {"type": ["string", "integer"], "minLength": 1},
    "passenger_names": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

type recipe struct {
	action   ai.Action
	endpoint string
	method   string
	auth     bool
	schema   *gojsonschema.Schema
	payload  func(params map[string]any, now time.Time) (query FlightQuery, body any)
	format   func(airline.Result) string
	suggest  func(airline.Result) string
}

var recipes = map[ai.Action]*recipe{
	ai.ActionQueryFlight: {
		action:   ai.ActionQueryFlight,
		endpoint: airline.QueryFlightEndpoint,
		method:   http.MethodGet,
		schema:   mustSchema(queryFlightSchema),
		payload:  flightQueryPayload,
		format:   FormatFlights,
		suggest: func(res airline.Result) string {
			if !res.OK() {
				return ""
			}
			return BookingSuggestion
		},
	},
	ai.ActionBuyTicket: {
		action:   ai.ActionBuyTicket,
		endpoint: airline.BuyTicketEndpoint,
		method:   http.MethodPost,
		auth:     true,
		schema:   mustSchema(bookingSchema),
		payload: func(p map[string]any, _ time.Time) (FlightQuery, any) {
			return FlightQuery{}, TicketPurchase{
				Date:           stringParam(p, "date"),
				FlightNumber:   flightNumberParam(p),
				PassengerNames: namesParam(p),
			}
		},
		format: FormatTicketPurchase,
		suggest: func(res airline.Result) string {
			if !res.OK() {
				return ""
			}
			return CheckinSuggestion
		},
	},
	ai.ActionCheckin: {
		action:   ai.ActionCheckin,
		endpoint: airline.CheckinEndpoint,
		method:   http.MethodPost,
		schema:   mustSchema(bookingSchema),
		payload: func(p map[string]any, _ time.Time) (FlightQuery, any) {
			return FlightQuery{}, CheckinRequest{
				Date:          stringParam(p, "date"),
				FlightNumber:  flightNumberParam(p),
				PassengerName: namesParam(p)[0],
			}
		},
		format: FormatCheckin,
	},
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("dispatch: bad schema: %v", err))
	}
	return s
}

// request validates params and builds the airline call. params is not modified.
func (r *recipe) request(params map[string]any, now time.Time) (airline.Request, error) {
	p := normalize(params)
	if err := r.validate(p); err != nil {
		return airline.Request{}, err
	}

	query, body := r.payload(p, now)
	req := airline.Request{
		Endpoint:     r.endpoint,
		Method:       r.method,
		RequiresAuth: r.auth,
	}
	if r.method == http.MethodGet {
		req.Query = query.Values()
	} else {
		req.Body = body
	}
	return req, nil
}

func (r *recipe) validate(p map[string]any) error {
	result, err := r.schema.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return &MalformedRequestError{Action: r.action, Invalid: []string{"parameters"}}
	}
	if result.Valid() {
		return nil
	}

	missing := map[string]bool{}
	invalid := map[string]bool{}
	for _, desc := range result.Errors() {
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				missing[prop] = true
				continue
			}
		}
		invalid[topLevelField(desc.Field())] = true
	}
	return &MalformedRequestError{Action: r.action, Missing: sortedKeys(missing), Invalid: sortedKeys(invalid)}
}

// normalize copies params, dropping null and blank values (treated as
// absent), trimming list items, turning a lone passenger name into a
// one-element list and a digit-string head count into an integer. Values it
// cannot convert are left for the schema to reject.
func normalize(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			switch k {
			case "passenger_names":
				out[k] = []any{val}
			case "number_of_people":
				if n, err := strconv.Atoi(val); err == nil {
					out[k] = n
				} else {
					out[k] = val
				}
			default:
				out[k] = val
			}
		case []any:
			items := make([]any, len(val))
			for i, item := range val {
				if str, ok := item.(string); ok {
					item = strings.TrimSpace(str)
				}
				items[i] = item
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

func flightQueryPayload(p map[string]any, now time.Time) (FlightQuery, any) {
	q := FlightQuery{
		DateFrom:       stringParam(p, "date_from"),
		DateTo:         stringParam(p, "date_to"),
		AirportFrom:    strings.ToUpper(stringParam(p, "airport_from")),
		AirportTo:      strings.ToUpper(stringParam(p, "airport_to")),
		NumberOfPeople: 1,
	}
	if q.DateFrom == "" {
		q.DateFrom = now.Format(dateLayout)
	}
	if q.DateTo == "" {
		q.DateTo = now.AddDate(0, 0, 1).Format(dateLayout)
	}
	// The schema has already bounded the head count to 1..9.
	switch n := p["number_of_people"].(type) {
	case float64:
		q.NumberOfPeople = int(n)
	case int:
		q.NumberOfPeople = n
	}
	return q, nil
}

func stringParam(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

// flightNumberParam keeps strings as given and renders whole numbers
// without a fractional part.
func flightNumberParam(p map[string]any) any {
	if f, ok := p["flight_number"].(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return p["flight_number"]
}

func namesParam(p map[string]any) []string {
	var names []string
	switch v := p["passenger_names"].(type) {
	case []any:
		for _, n := range v {
			if s, ok := n.(string); ok {
				names = append(names, s)
			}
		}
	case []string:
		names = append(names, v...)
	}
	return names
}

func topLevelField(field string) string {
	if field == "" || field == "(root)" {
		return "parameters"
	}
	return strings.SplitN(field, ".", 2)[0]
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
