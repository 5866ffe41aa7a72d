package sqlite

// The blog schema: a user table and a post table owned by it.
// Drops run child-first because post declares a foreign key on user;
// creates run in the opposite order for the same reason.
var schemaStatements = []string{
	`DROP TABLE IF EXISTS post`,
	`DROP TABLE IF EXISTS user`,
	`CREATE TABLE user (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL
)`,
	`CREATE TABLE post (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id INTEGER NOT NULL,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    FOREIGN KEY (author_id) REFERENCES user (id) ON DELETE RESTRICT
)`,
}
