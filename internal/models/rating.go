package models

import "time"

// Rating is a user's 1 to 5 star rating for a title.
type Rating struct {
	UserID    int64     `json:"user_id"`
	ShowID    string    `json:"show_id"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}
