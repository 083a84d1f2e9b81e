package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// LoginRequest is the body of POST /api/session
type LoginRequest struct {
	MemberID string `json:"member_id" example:"ABC-1001"`
	Password string `json:"password" example:"ignored"`
}

// SelectionData is the operator's filter state
type SelectionData struct {
	Floor  string `json:"floor" example:"ALL"`
	Person string `json:"person" example:"ALL"`
	Date   string `json:"date" example:"2024-05-01"`
	Level  string `json:"level" example:"ALL"`
}

// SessionResponse describes the caller's dashboard session
type SessionResponse struct {
	Authenticated bool          `json:"authenticated" example:"true"`
	MemberID      string        `json:"member_id,omitempty" example:"ABC-1001"`
	Selection     SelectionData `json:"selection"`
}

// EventData is one proximity reading as reported upstream
type EventData struct {
	TimestampMs int64   `json:"timestampMs" example:"1714539909000"`
	Floor       string  `json:"floor,omitempty" example:"3F"`
	Person      string  `json:"person,omitempty" example:"김철수 (ABC-1234567)"`
	AnchorID    string  `json:"anchorId" example:"AX1"`
	Distance    float64 `json:"distance" example:"1.2"`
	Level       string  `json:"level" example:"danger"`
}

// EventsResponse is the latest unfiltered batch
type EventsResponse struct {
	Events    []EventData `json:"events"`
	Count     int         `json:"count" example:"1"`
	FetchedAt string      `json:"fetched_at,omitempty" example:"2024-05-01T05:05:10Z"`
}

// OptionData is one entry of a floor or level dropdown
type OptionData struct {
	Value    string `json:"value" example:"3F"`
	Label    string `json:"label" example:"3 Floor"`
	Selected bool   `json:"selected" example:"false"`
}

// PersonData is one entry of the person panel
type PersonData struct {
	Value  string `json:"value" example:"김철수 (ABC-1234567)"`
	Name   string `json:"name" example:"김철수"`
	Serial string `json:"serial,omitempty" example:"ABC-1234567"`
	Active bool   `json:"active" example:"false"`
}

// RowData is one formatted table row
type RowData struct {
	TimestampMs int64  `json:"timestamp_ms" example:"1714539909000"`
	Time        string `json:"time" example:"14:05:09"`
	Person      string `json:"person" example:"김철수 (ABC-1234567)"`
	AnchorID    string `json:"anchor_id" example:"AX1"`
	Distance    string `json:"distance" example:"1.20m"`
	Severity    string `json:"severity" example:"danger"`
	RowClass    string `json:"row_class" example:"row-danger"`
	BadgeClass  string `json:"badge_class" example:"status-danger"`
	BadgeLabel  string `json:"badge_label" example:"위험"`
}

// ViewResponse is everything the dashboard shows for the current selection
type ViewResponse struct {
	Selection    SelectionData `json:"selection"`
	Floors       []OptionData  `json:"floors"`
	AllPersons   PersonData    `json:"all_persons"`
	Persons      []PersonData  `json:"persons"`
	Levels       []OptionData  `json:"levels"`
	Rows         []RowData     `json:"rows"`
	TotalEvents  int           `json:"total_events" example:"1"`
	PersonsEmpty string        `json:"persons_empty,omitempty" example:""`
	RowsEmpty    string        `json:"rows_empty,omitempty" example:""`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"UNAUTHORIZED"`
	Message string `json:"message" example:"Login required"`
}

var (
	errUnauthorized = response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Login required"}, "401", "Unauthorized")
	errInternal     = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errMalformed    = response.New(ErrorResponse{Code: "MALFORMED_EVENT", Message: "Event record violates the data contract"}, "500", "Internal Server Error")
)

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "UWB Dashboard API",
		Version:     "v1.0.0",
		Description: "Session-scoped JSON view of the UWB proximity dashboard. Sessions are identified by the uwb_session cookie.",
		Host:        "localhost:3000",
		Path:        "/api",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /api/session - Login
		endpoint.New(
			endpoint.POST,
			"/session",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Log in"),
			endpoint.WithDescription("Authenticates the cookie session when member_id or password is non-blank and starts polling the event source. Neither value is checked. Body: LoginRequest."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "201", "Logged in"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPTY_LOGIN", Message: "Member id or password is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				errInternal,
			}),
		),

		// DELETE /api/session - Logout
		endpoint.New(
			endpoint.DELETE,
			"/session",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Log out"),
			endpoint.WithDescription("Stops polling and clears the event batch. The filter selection is kept."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Logged out"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errInternal}),
		),

		// GET /api/view - Dashboard view
		endpoint.New(
			endpoint.GET,
			"/view",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Get the dashboard view"),
			endpoint.WithDescription("Returns floor, person and level options plus the filtered, formatted rows for the current selection."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ViewResponse{}, "200", "View built successfully"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errMalformed}),
		),

		// GET /api/events - Raw batch
		endpoint.New(
			endpoint.GET,
			"/events",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Get the latest event batch"),
			endpoint.WithDescription("Returns the most recent upstream batch without filtering."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventsResponse{}, "200", "Batch returned"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errInternal}),
		),

		// POST /api/selection - Update filters
		endpoint.New(
			endpoint.POST,
			"/selection",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Update the filter selection"),
			endpoint.WithDescription("Applies any of floor, person, date and level. Omitted fields keep their value; empty floor or person means ALL. Body: SelectionData with optional fields."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ViewResponse{}, "200", "Selection applied"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				errUnauthorized,
				response.New(ErrorResponse{Code: "INVALID_SELECTION", Message: "Invalid filter selection"}, "422", "Unprocessable Entity"),
				errMalformed,
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
