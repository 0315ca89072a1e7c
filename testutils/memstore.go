package testutils

import (
	"context"
	"sort"
	"sync"

	"yaapps/model"
	"yaapps/services"
)

// NoteStore keeps notes in memory with the same uniqueness and ownership
// rules as the MongoDB repository.
type NoteStore struct {
	mu    sync.Mutex
	notes []model.Note
}

func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

func (s *NoteStore) Create(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.Slug == note.Slug {
			return model.ErrSlugExists
		}
	}
	s.notes = append(s.notes, *note)
	return nil
}

func (s *NoteStore) GetBySlug(_ context.Context, slug string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.Slug == slug {
			note := n
			return &note, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *NoteStore) ListByAuthor(_ context.Context, authorID string) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Note{}
	for _, n := range s.notes {
		if n.AuthorID == authorID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *NoteStore) Update(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, n := range s.notes {
		if n.Slug == note.Slug && n.ID != note.ID {
			return model.ErrSlugExists
		}
		if n.ID == note.ID && n.AuthorID == note.AuthorID {
			idx = i
		}
	}
	if idx < 0 {
		return model.ErrNotFound
	}
	s.notes[idx] = *note
	return nil
}

func (s *NoteStore) Delete(_ context.Context, id, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == id && n.AuthorID == authorID {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *NoteStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

type NewsStore struct {
	mu   sync.Mutex
	news []model.News
}

func NewNewsStore() *NewsStore {
	return &NewsStore{}
}

func (s *NewsStore) Create(_ context.Context, news *model.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = append(s.news, *news)
	return nil
}

func (s *NewsStore) GetByID(_ context.Context, id string) (*model.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.news {
		if n.ID == id {
			news := n
			return &news, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *NewsStore) ListLatest(_ context.Context, limit int) ([]model.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.News{}, s.news...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type CommentStore struct {
	mu       sync.Mutex
	comments []model.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

func (s *CommentStore) Create(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *CommentStore) GetByID(_ context.Context, id string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == id {
			comment := c
			return &comment, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *CommentStore) ListByNews(_ context.Context, newsID string) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if c.NewsID == newsID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (s *CommentStore) Update(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.comments {
		if c.ID == comment.ID && c.AuthorID == comment.AuthorID {
			s.comments[i].Text = comment.Text
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *CommentStore) Delete(_ context.Context, id, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.comments {
		if c.ID == id && c.AuthorID == authorID {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *CommentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

type UserStore struct {
	mu    sync.Mutex
	users []model.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return model.ErrUserExists
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == userID {
			user := u
			return &user, nil
		}
	}
	return nil, model.ErrNotFound
}

// SessionStore mirrors repository.SessionRepo.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]model.Session)}
}

func (s *SessionStore) CreateSession(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) UpdateSession(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.SessionID]; !ok {
		return model.ErrNotFound
	}
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *SessionStore) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.ErrNotFound
	}
	session.IsActive = false
	s.sessions[sessionID] = session
	return nil
}

func (s *SessionStore) CountActiveSessions(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *SessionStore) EndLeastActiveSession(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var oldest *model.Session
	for _, session := range s.sessions {
		if session.UserID != userID || !session.IsActive {
			continue
		}
		if oldest == nil || session.LastActivityAt.Before(oldest.LastActivityAt) {
			candidate := session
			oldest = &candidate
		}
	}
	if oldest == nil {
		return model.ErrNotFound
	}
	oldest.IsActive = false
	s.sessions[oldest.SessionID] = *oldest
	return nil
}

func (s *SessionStore) CountAllActive(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, session := range s.sessions {
		if session.IsActive {
			count++
		}
	}
	return count, nil
}

// RecordingPublisher collects published event types. A non-nil Err makes
// every publish fail.
type RecordingPublisher struct {
	mu    sync.Mutex
	types []string
	Err   error
}

func (p *RecordingPublisher) Publish(_ context.Context, event services.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.types = append(p.types, event.Type)
	return nil
}

func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}
