package model

import "time"

// Session is a live authorization grant for a bearer token. Rows are keyed by
// the hex SHA-256 of the token so the key width does not grow with the claims.
type Session struct {
	TokenHash string    `json:"-" gorm:"column:token_hash;primaryKey;size:64"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the registry in the auth table.
func (Session) TableName() string {
	return "auth"
}
