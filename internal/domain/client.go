package domain

import (
	"strings"
)

// Client is a billable customer. Clients are seeded at startup and never
// modified during a session.
type Client struct {
	ID      string
	Name    string
	Email   string
	Address string // optional
	Logo    string // optional logo reference (URL or path)
}

// NewClient creates a new client with required fields
func NewClient(id, name, email string) *Client {
	return &Client{
		ID:    strings.TrimSpace(id),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "client id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "client name is required")
	}
	return nil
}
