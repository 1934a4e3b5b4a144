package models

// Viewer identifies the requesting principal. Listing and authorization
// functions branch on Authenticated explicitly instead of passing around a
// nullable user.
type Viewer struct {
	ID            uint
	Authenticated bool
}

// Anonymous returns the viewer for an unauthenticated request.
func Anonymous() Viewer {
	return Viewer{}
}

// Authenticated returns the viewer for the given user ID.
func Authenticated(userID uint) Viewer {
	return Viewer{ID: userID, Authenticated: true}
}
