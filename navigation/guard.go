package navigation

// TokenSource exposes the current access token. *session.Session satisfies it.
type TokenSource interface {
	AccessToken() string
}

// Decision is the outcome of a guard check.
type Decision struct {
	Route    Route
	Allowed  bool
	Redirect Route
}

// Guard is a binary gate on token presence. It does not validate the token;
// an expired token is let through and repaired by the client on first use.
type Guard struct {
	tokens TokenSource
}

func NewGuard(tokens TokenSource) *Guard {
	return &Guard{tokens: tokens}
}

func (g *Guard) Check(route Route) Decision {
	if route.IsPublic() || g.tokens.AccessToken() != "" {
		return Decision{Route: route, Allowed: true}
	}
	return Decision{Route: route, Redirect: RouteLogin}
}
