package dto

import (
	"time"

	"yaapps/model"
)

// NoteForm is the add/edit form. An empty slug is derived from the title.
type NoteForm struct {
	Title string `form:"title" json:"title" binding:"required,max=100"`
	Text  string `form:"text" json:"text" binding:"required"`
	Slug  string `form:"slug" json:"slug" binding:"omitempty,max=100,slug"`
}

func NoteFormFrom(note *model.Note) NoteForm {
	return NoteForm{Title: note.Title, Text: note.Text, Slug: note.Slug}
}

type NoteResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Slug      string          `json:"slug"`
	AuthorID  string          `json:"author_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Links     map[string]Link `json:"_links,omitempty"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Text:      note.Text,
		Slug:      note.Slug,
		AuthorID:  note.AuthorID,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Links: map[string]Link{
			"self":   {Href: "/note/" + note.Slug + "/", Method: "GET"},
			"edit":   {Href: "/edit/" + note.Slug + "/", Method: "POST"},
			"delete": {Href: "/delete/" + note.Slug + "/", Method: "POST"},
		},
	}
}

func ToNoteResponses(notes []model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, ToNoteResponse(&notes[i]))
	}
	return out
}
