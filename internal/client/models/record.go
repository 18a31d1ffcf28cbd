// Package models defines the records shown by the dashboard and the
// collections they live in.
package models

// Record is anything stored in a remote collection. Fields other than the id
// are opaque to the sync layer.
type Record interface {
	RecordID() ID
}

// Fielder exposes named field values for sorting, filtering and rendering.
type Fielder interface {
	Field(name string) (any, bool)
}

// Collection names as exposed by the backend.
const (
	CollectionUsers       = "users"
	CollectionRestaurants = "restaurants"
	CollectionTodos       = "todos"
)

// Collections lists every collection the dashboard knows about.
var Collections = []string{CollectionUsers, CollectionRestaurants, CollectionTodos}
