// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse returns the created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// MessageResponse confirms an operation with no entity to return,
// e.g. a delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}
