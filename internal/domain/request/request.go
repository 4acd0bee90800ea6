package request

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// MatchKey is the Params key holding the sub-map consulted during capability
// matching. Everything else in Params is opaque payload.
const MatchKey = "parameters"

// Params is the open request payload, stored as JSONB.
type Params map[string]any

type Request struct {
	ID         uuid.UUID  `json:"id"`
	Params     Params     `json:"parameters"`
	Status     Status     `json:"status"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func New(params Params) Request {
	if params == nil {
		params = Params{}
	}
	return Request{
		ID:        uuid.New(),
		Params:    params,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// MatchValues flattens the matching sub-map to strings. Scalars render
// canonically (numbers without exponent, bools as true/false); nested values
// are not matchable and are dropped. Returns nil when the sub-map is absent.
func (p Params) MatchValues() map[string]string {
	sub, ok := p[MatchKey].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(sub))
	for k, v := range sub {
		if s, ok := renderScalar(v); ok {
			out[k] = s
		}
	}
	return out
}

func renderScalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64: // JSON numbers decode as float64
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// StatusCounts is the per-status breakdown reported by distribution stats.
type StatusCounts struct {
	Total     int `json:"total_requests"`
	Pending   int `json:"pending_requests"`
	Assigned  int `json:"assigned_requests"`
	Completed int `json:"completed_requests"`
}
