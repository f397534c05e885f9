package pipeline

import "encoding/json"

// Context is the transient per-request state stages read and rewrite. It
// travels by value; Clone gives a stage its own copy of the slice-backed
// fields so sibling requests never share storage.
type Context struct {
	UserID     string
	CameraID   string
	MicID      string
	Utterances []string
	Session    json.RawMessage
}

func (c Context) Clone() Context {
	cpy := c
	cpy.Utterances = append([]string(nil), c.Utterances...)
	cpy.Session = append(json.RawMessage(nil), c.Session...)
	return cpy
}

// Resolved reports whether an identity has been assigned. Once true, no
// stage may change UserID again.
func (c Context) Resolved() bool {
	return len(c.UserID) > 0
}
