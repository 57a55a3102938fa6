package domain

import "time"

// Subscriber is a reader of the games catalogue. Only subscribers with
// Subscribed=true are included in a newsletter run; the dispatcher never
// mutates subscriber rows.
type Subscriber struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at"`
}
