package models

import "time"

// RefreshToken is the server-side record backing an issued refresh JWT.
// A refresh token is honored only while its row exists; rotation deletes
// the row and inserts the successor.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
