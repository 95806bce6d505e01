package models

// Category is one entry of the read-only catalog maintained by the seeder.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
