package usecase

// Identity is the resolved requester. The zero value is an anonymous visitor.
type Identity struct {
	UserID   string
	Username string
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// Owns reports whether the identity authored an entity with authorID.
func (i Identity) Owns(authorID string) bool {
	return i.IsAuthenticated() && i.UserID == authorID
}
