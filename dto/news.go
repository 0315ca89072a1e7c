package dto

import (
	"time"

	"yaapps/model"
)

type CommentForm struct {
	Text string `form:"text" json:"text" binding:"required"`
}

type NewsResponse struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Text  string          `json:"text"`
	Date  time.Time       `json:"date"`
	Links map[string]Link `json:"_links,omitempty"`
}

type CommentResponse struct {
	ID         string          `json:"id"`
	NewsID     string          `json:"news_id"`
	AuthorID   string          `json:"author_id"`
	AuthorName string          `json:"author"`
	Text       string          `json:"text"`
	Created    time.Time       `json:"created"`
	Links      map[string]Link `json:"_links,omitempty"`
}

func NewsURL(newsID string) string {
	return "/news/" + newsID + "/"
}

func ToNewsResponse(news *model.News) NewsResponse {
	return NewsResponse{
		ID:    news.ID,
		Title: news.Title,
		Text:  news.Text,
		Date:  news.Date,
		Links: map[string]Link{
			"self": {Href: NewsURL(news.ID), Method: "GET"},
		},
	}
}

func ToNewsResponses(items []model.News) []NewsResponse {
	out := make([]NewsResponse, 0, len(items))
	for i := range items {
		out = append(out, ToNewsResponse(&items[i]))
	}
	return out
}

// ToCommentResponse adds edit/delete links only for the comment's author.
func ToCommentResponse(comment *model.Comment, viewerID string) CommentResponse {
	resp := CommentResponse{
		ID:         comment.ID,
		NewsID:     comment.NewsID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Text:       comment.Text,
		Created:    comment.Created,
	}
	if viewerID != "" && viewerID == comment.AuthorID {
		resp.Links = map[string]Link{
			"edit":   {Href: "/edit_comment/" + comment.ID + "/", Method: "POST"},
			"delete": {Href: "/delete_comment/" + comment.ID + "/", Method: "POST"},
		}
	}
	return resp
}

func ToCommentResponses(comments []model.Comment, viewerID string) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i], viewerID))
	}
	return out
}
