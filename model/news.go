package model

import "time"

// News is published by an administrator or loaded from fixtures and is
// read-only for site visitors.
type News struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Text      string    `bson:"text" json:"text"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Comment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	NewsID     string    `bson:"news_id" json:"news_id"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	AuthorName string    `bson:"author_name" json:"author_name"`
	Text       string    `bson:"text" json:"text"`
	Created    time.Time `bson:"created" json:"created"`
}
