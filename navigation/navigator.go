package navigation

// Event asks the application to move to a route. Lower layers emit events and
// leave the actual navigation to whoever owns the Navigator.
type Event struct {
	To     Route
	Reason string
}

// Navigator receives navigation events.
type Navigator interface {
	Navigate(Event)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Event)

func (f NavigatorFunc) Navigate(ev Event) {
	f(ev)
}

// Discard ignores every event.
var Discard Navigator = NavigatorFunc(func(Event) {})

// Reasons attached to events emitted by the client layers.
const (
	ReasonLoggedOut     = "logged out"
	ReasonSessionEnded  = "session ended"
	ReasonLoginRequired = "login required"
)
