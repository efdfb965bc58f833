package entity

import "time"

type BookStatus string

const (
	StatusWishlist  BookStatus = "wishlist"
	StatusReading   BookStatus = "reading"
	StatusFinished  BookStatus = "finished"
	StatusAbandoned BookStatus = "abandoned"
)

// Valid reports whether s is one of the known reading states.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusReading, StatusFinished, StatusAbandoned:
		return true
	}
	return false
}

// Book is a catalog volume added to a user's library.
type Book struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	GoogleID   string     `json:"googleId"`
	Title      string     `json:"title"`
	Authors    []string   `json:"authors"`
	Thumbnail  string     `json:"thumbnail"`
	Categories []string   `json:"categories"`
	Status     BookStatus `json:"status"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Tags       []string   `json:"tags"`
	Notes      string     `json:"notes"`
	IsPublic   bool       `json:"isPublic"`
	CreatedAt  time.Time  `json:"createdAt"`
}
