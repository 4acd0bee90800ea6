package executor

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/domain/match"
)

type Executor struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Params        map[string]string `json:"parameters"`
	TotalAssigned int               `json:"total_assigned"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
}

func New(name string, params map[string]string) Executor {
	if params == nil {
		params = map[string]string{}
	}
	return Executor{
		ID:        uuid.New(),
		Name:      name,
		Params:    params,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// DeclaredParams returns the capability parameters that actually constrain
// matching. Empty-valued entries count as undeclared.
func (e *Executor) DeclaredParams() map[string]string {
	out := make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Accepts reports whether the given request values satisfy every declared
// capability parameter (one-directional subset: request values outside the
// declared set are ignored). Vacuously true when nothing is declared.
func (e *Executor) Accepts(values map[string]string) bool {
	for k, want := range e.DeclaredParams() {
		got, ok := values[k]
		if !ok || !match.Matches(want, got) {
			return false
		}
	}
	return true
}

// Update carries a partial executor mutation; nil fields are left untouched.
type Update struct {
	Name     *string
	Params   *map[string]string
	IsActive *bool
}

type ListFilters struct {
	IsActive *bool
}
