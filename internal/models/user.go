package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PortfolioEntry is one saved ticker in a user's portfolio.
type PortfolioEntry struct {
	UserID  string    `json:"user_id"`
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}
