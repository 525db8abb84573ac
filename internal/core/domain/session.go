package domain

// Session is the caller's authentication state for a single request.
// It is resolved from request credentials by the transport layer and
// passed explicitly into the authorization gate and the client-side
// guard, never read from ambient global state.
type Session struct {
	Authenticated bool
	UserID        string
	Username      string
}

// Anonymous is the session of an unauthenticated caller.
var Anonymous = Session{}
