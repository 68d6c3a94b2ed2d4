package model

import "time"

type Account struct {
	AccountNo      string    `json:"account_no"`
	Name           string    `json:"name"`
	CardNo         string    `json:"card_no"`
	PIN            string    `json:"-"`
	Balance        int64     `json:"balance"`
	Blocked        bool      `json:"blocked"`
	FailedAttempts int       `json:"failed_attempts"`
	CreatedAt      time.Time `json:"created_at"`
}
