package model

// Default person seeded on first-ever start.
const (
	DefaultPersonName  = "Standard"
	DefaultPersonColor = "#1976d2"
)

// Person is someone a todo can be assigned to.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
