package models

// SearchParams captures the normalized search inputs shared by site adapters.
type SearchParams struct {
	Keywords string
	Location string
	Pages    int
}
