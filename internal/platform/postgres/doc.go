// Package postgres contains the PostgreSQL implementations of the store
// interfaces, including the explicit referential-integrity rules: deleting a
// category clears the category reference of its tasks, and deleting a tag
// removes only its task association rows.
package postgres
