package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Ref is a reference to another resource. The API sends either the bare id
// or the populated object, depending on the endpoint.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// MarshalJSON sends references back as bare ids
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Number is an integer the API sometimes sends as a numeric string.
// Anything unparsable reads as zero.
type Number int

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(int(v))
	return nil
}

type Board struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Grade struct {
	ID    string `json:"_id"`
	Grade Number `json:"grade"`
	Board Ref    `json:"board"`
}

type Subject struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Board Ref    `json:"board"`
	Grade Ref    `json:"grade"`
}

// Question is an in-text question or, when Options is set, a multiple choice
// question whose correct option index is Answer.
type Question struct {
	ID                  string   `json:"_id,omitempty"`
	Type                string   `json:"type,omitempty"`
	Question            string   `json:"question"`
	Options             []string `json:"options,omitempty"`
	Answer              int      `json:"answer"`
	Reason              string   `json:"reason,omitempty"`
	ExplanationVideoURL string   `json:"explanationVideoUrl,omitempty"`
}

// IsMCQ reports whether the question offers options
func (q Question) IsMCQ() bool {
	return len(q.Options) > 0
}

type Chapter struct {
	ID             string     `json:"_id"`
	Title          string     `json:"title,omitempty"`
	Name           string     `json:"name,omitempty"`
	Number         Number     `json:"number"`
	Description    string     `json:"description,omitempty"`
	ContentPreview string     `json:"contentPreview,omitempty"`
	VideoURL       string     `json:"videoUrl,omitempty"`
	Restricted     bool       `json:"restricted,omitempty"`
	Subject        Ref        `json:"subject"`
	Content        []Question `json:"content,omitempty"`
}

// DisplayTitle prefers the title and falls back to the name
func (c Chapter) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// ChapterInput is the body for chapter create and update calls.
type ChapterInput struct {
	Name           string `json:"name"`
	Title          string `json:"title,omitempty"`
	Number         int    `json:"number,omitempty"`
	ContentPreview string `json:"contentPreview"`
	Subject        string `json:"subject"`
	VideoURL       string `json:"videoUrl"`
	Restricted     bool   `json:"restricted"`
}

// QuestionInput is the body for adding a question to a chapter. Options and
// Answer are only sent for multiple choice questions.
type QuestionInput struct {
	Question            string   `json:"question"`
	Reason              string   `json:"reason"`
	Type                string   `json:"type,omitempty"`
	Options             []string `json:"options,omitempty"`
	Answer              *int     `json:"answer,omitempty"`
	ExplanationVideoURL string   `json:"explanationVideoUrl,omitempty"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterRequest carries exactly one of Email or Phone.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token   string `json:"token"`
	Payment bool   `json:"payment"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}
