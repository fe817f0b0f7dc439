package client

import "time"

// User is the public identity returned at login.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user may manage events.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// Event is an event of the directory.
type Event struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// EventInput is the body of event create and update calls.
type EventInput struct {
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time,omitempty"`
	EndTime     string  `json:"end_time,omitempty"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// Registrant is a user registered for an event.
type Registrant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegisterInput is the body of an account registration.
type RegisterInput struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode,omitempty"`
}

// Registered is the result of an account registration.
type Registered struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}
