package model

// UserID is the opaque directory object ID assigned by Microsoft Graph
type UserID string

// String returns the string representation of the user ID
func (x UserID) String() string {
	return string(x)
}

// User is a directory user with an enabled account. User identity is the
// ID; the principal name is carried for humanizing notifications.
type User struct {
	ID                UserID
	UserPrincipalName string
}
