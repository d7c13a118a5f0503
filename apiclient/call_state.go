package apiclient

import (
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
)

// callState tracks one outbound call through the refresh protocol.
//
//	Pending ──► AwaitingRefresh ──► Retried
//	   │              │                │
//	   └──────────────┴────────────────┴──► Failed
//
// Nothing leaves Failed, and Retried never goes back to AwaitingRefresh, so a
// call is refreshed and retried at most once.
type callState int

const (
	statePending callState = iota
	stateAwaitingRefresh
	stateRetried
	stateFailed
)

func (s callState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateAwaitingRefresh:
		return "awaiting_refresh"
	case stateRetried:
		return "retried"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("callState(%d)", int(s))
	}
}

var allowedTransitions = map[callState][]callState{
	statePending:         {stateAwaitingRefresh, stateFailed},
	stateAwaitingRefresh: {stateRetried, stateFailed},
	stateRetried:         {stateFailed},
}

// call is owned by the goroutine executing the request.
type call struct {
	id     string
	method string
	path   string
	state  callState
}

func newCall(method, path string) *call {
	return &call{
		id:     uuid.NewString(),
		method: method,
		path:   path,
		state:  statePending,
	}
}

func (c *call) transition(to callState) error {
	for _, allowed := range allowedTransitions[c.state] {
		if allowed == to {
			c.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, c.state, to)
}

// fail moves the call to Failed. Already failed calls stay failed.
func (c *call) fail() {
	if c.state != stateFailed {
		_ = c.transition(stateFailed)
	}
}
