package model

import "time"

type User struct {
	UserID    string    `bson:"user_id" json:"user_id"`   // Unique ID number
	Username  string    `bson:"username" json:"username"` // Unique login name
	Password  string    `bson:"password" json:"-"`        // Argon2 hash, salt$hash
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
