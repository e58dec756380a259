package selftest

import "sync"

// SignUpPromptAfter is the number of scrolls an anonymous reader gets
// through the in-text solutions before being asked to sign up.
const SignUpPromptAfter = 3

// Reader tracks scrolling through a chapter's in-text solutions.
type Reader struct {
	mu            sync.Mutex
	authenticated bool
	scrolls       int
	prompted      bool
}

func NewReader(authenticated bool) *Reader {
	return &Reader{authenticated: authenticated}
}

// Scroll counts one scroll and reports whether the sign-up prompt is showing.
func (r *Reader) Scroll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.authenticated {
		return false
	}
	r.scrolls++
	if r.scrolls >= SignUpPromptAfter {
		r.prompted = true
	}
	return r.prompted
}

func (r *Reader) Prompted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prompted
}

// Reset is called when the reader switches section.
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls = 0
	r.prompted = false
}

// SetAuthenticated disables the prompt once the reader has signed in.
func (r *Reader) SetAuthenticated(authenticated bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticated = authenticated
	if authenticated {
		r.scrolls = 0
		r.prompted = false
	}
}
