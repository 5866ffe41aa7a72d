package models

import "time"

// User represents a row in the user table.
// The password is stored exactly as provided; hashing is the job of
// whatever application layer writes it.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"` // never serialize
}

// Post represents a row in the post table. Every post belongs to
// exactly one user via AuthorID.
type Post struct {
	ID       int64     `json:"id" db:"id"`
	AuthorID int64     `json:"author_id" db:"author_id"`
	Created  time.Time `json:"created" db:"created"`
	Title    string    `json:"title" db:"title"`
	Body     string    `json:"body" db:"body"`
}
