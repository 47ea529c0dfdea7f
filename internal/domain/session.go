package domain

// Session is the in-memory decoded view of a valid credential. It is
// recomputed from the token on every publish and never persisted; the
// zero value means no authenticated session.
type Session struct {
	SubjectID  string
	Role       Role
	OperatorID string
}

// Absent reports whether the session represents an anonymous browser.
func (s Session) Absent() bool {
	return s.SubjectID == ""
}
