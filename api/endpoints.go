package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for an access token. The identifier is an email
// address or a phone number.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doPublic(ctx, http.MethodPost, "/auth/login", LoginRequest{Identifier: identifier, Password: password}, &resp)
	return resp, err
}

// Register creates an account; the API logs the new user in directly.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doPublic(ctx, http.MethodPost, "/auth/register", req, &resp)
	return resp, err
}

// Refresh obtains a new access token through the refresh cookie and stores it.
// A failed refresh clears the local session.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.transport.forceRefresh(ctx)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Boards(ctx context.Context) ([]Board, error) {
	var boards []Board
	err := c.do(ctx, http.MethodGet, "/boards", nil, nil, &boards)
	return boards, err
}

func (c *Client) Grades(ctx context.Context) ([]Grade, error) {
	var grades []Grade
	err := c.do(ctx, http.MethodGet, "/grades", nil, nil, &grades)
	return grades, err
}

// SubjectFilter narrows the subject list; empty fields are not sent.
type SubjectFilter struct {
	Board string
	Grade string
}

func (f SubjectFilter) values() url.Values {
	q := url.Values{}
	if f.Board != "" {
		q.Set("board", f.Board)
	}
	if f.Grade != "" {
		q.Set("grade", f.Grade)
	}
	return q
}

func (c *Client) Subjects(ctx context.Context, filter SubjectFilter) ([]Subject, error) {
	var subjects []Subject
	err := c.do(ctx, http.MethodGet, "/subjects", filter.values(), nil, &subjects)
	return subjects, err
}

func (c *Client) SubjectChapters(ctx context.Context, subjectID string) ([]Chapter, error) {
	var chapters []Chapter
	err := c.do(ctx, http.MethodGet, "/subjects/"+url.PathEscape(subjectID)+"/chapters", nil, nil, &chapters)
	return chapters, err
}

func (c *Client) Chapter(ctx context.Context, id string) (Chapter, error) {
	var chapter Chapter
	err := c.do(ctx, http.MethodGet, "/chapters/"+url.PathEscape(id), nil, nil, &chapter)
	return chapter, err
}

// CreateChapter adds a chapter under a subject.
func (c *Client) CreateChapter(ctx context.Context, subjectID string, in ChapterInput) (Chapter, error) {
	var chapter Chapter
	err := c.do(ctx, http.MethodPost, "/subjects/"+url.PathEscape(subjectID)+"/chapters", nil, in, &chapter)
	return chapter, err
}

func (c *Client) UpdateChapter(ctx context.Context, id string, in ChapterInput) (Chapter, error) {
	var chapter Chapter
	err := c.do(ctx, http.MethodPut, "/chapters/"+url.PathEscape(id), nil, in, &chapter)
	return chapter, err
}

func (c *Client) DeleteChapter(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chapters/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AddQuestion(ctx context.Context, chapterID string, in QuestionInput) error {
	return c.do(ctx, http.MethodPost, "/chapters/"+url.PathEscape(chapterID)+"/questions", nil, in, nil)
}
