package models

// Group represents a named collection of members that share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the globally unique display name of the group (e.g., "Hiking").
	Name string

	// Tag is the system-generated join token. Globally unique.
	Tag string

	// Members holds the user IDs currently in the group. Only populated by
	// reads that load membership.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
