package forumclient

// Route describes a navigable view and whether it is session-gated.
// RequiresAuth is the client-side mirror of the server's RequireAuth
// route marker.
type Route struct {
	Path         string
	RequiresAuth bool
}

// CanEnter reports whether the session may enter the route. It is
// evaluated synchronously from the session snapshot at navigation time
// and exists purely to avoid flashing an inaccessible view: the guard is
// advisory, coarser than the server gate (it cannot know a post's author
// at navigation time), and must never be the only check. Anything the
// guard blocks, the gate blocks too; the reverse does not hold.
func CanEnter(session Session, route Route) bool {
	if !route.RequiresAuth {
		return true
	}
	return session.Authenticated
}
