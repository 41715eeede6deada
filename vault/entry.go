package vault

import "time"

// Entry is one stored credential. Secret holds the sealed form, never the raw password.
type Entry struct {
	ID         string    // Unique identifier (UUID)
	Website    string    // Site the password belongs to
	Secret     string    // Output of the configured Sealer
	OwnerEmail string    // Email of the session that saved the entry
	CreatedAt  time.Time // When the entry was saved
}

// EntryView is what a listing returns to its owner
type EntryView struct {
	Website  string `json:"website"`
	Password string `json:"password"`
}

// Receipt confirms a save
type Receipt struct {
	ID      string    `json:"id"`
	Website string    `json:"website"`
	SavedAt time.Time `json:"savedAt"`
}
