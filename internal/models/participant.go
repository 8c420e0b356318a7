package models

// Participant represents one signed-up user on a scrim roster or reserve queue
type Participant struct {
	// UserID is the platform id of the user
	UserID string

	// Name is the display name at signup time
	Name string

	// Mention is the mention handle used when rendering lists
	Mention string

	// AutoPromote marks a reserve that wants the first open roster slot.
	// Only meaningful for reserve entries of a scrim that has not started.
	AutoPromote bool

	// Called marks a reserve that has been paged. Sticky once set.
	Called bool
}

// Organizer is the immutable identity of the user that created a scrim
type Organizer struct {
	// UserID is the platform id of the organizer
	UserID string

	// Name is the display name at creation time
	Name string

	// Avatar is the organizer's avatar URL for rich embeds
	Avatar string
}
