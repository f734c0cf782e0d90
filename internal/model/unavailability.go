package model

import "time"

// Unavailability is an admin-declared blackout window on a space.
type Unavailability struct {
	ID        uint64
	SpaceID   uint64
	SpaceName string // joined, read only
	Start     time.Time
	End       time.Time
	Reason    string
}

// Review (avis) is a user's rating of a space.
type Review struct {
	ID            uint64
	UserID        uint64
	SpaceID       uint64
	Rating        int
	Comment       string
	Date          Date
	UserUsername  string    // joined
	UserFirstName string    // joined
	UserLastName  string    // joined
	SpaceName     string    // joined
	SpaceType     SpaceType // joined
}
