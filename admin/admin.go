package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/abhyasa/study-client/token"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// API is the content management side of api.Client.
type API interface {
	Subjects(ctx context.Context, filter api.SubjectFilter) ([]api.Subject, error)
	SubjectChapters(ctx context.Context, subjectID string) ([]api.Chapter, error)
	CreateChapter(ctx context.Context, subjectID string, in api.ChapterInput) (api.Chapter, error)
	UpdateChapter(ctx context.Context, id string, in api.ChapterInput) (api.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error
	AddQuestion(ctx context.Context, chapterID string, in api.QuestionInput) error
}

var _ API = (*api.Client)(nil)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Manager edits chapters and questions. Every call first checks the role
// claimed by the stored token; the API enforces the real permission.
type Manager struct {
	api    API
	tokens TokenSource
	logger zerolog.Logger
}

type ManagerOption func(*Manager)

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(a API, tokens TokenSource, options ...ManagerOption) *Manager {
	m := &Manager{api: a, tokens: tokens, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// IsAdmin reports whether the stored token claims the admin role.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	tok, err := m.tokens.Token(ctx)
	if err != nil {
		m.logger.Err(err).Msg("Failed to read access token")
		return false
	}
	return token.IsAdmin(tok)
}

func (m *Manager) authorize(ctx context.Context) error {
	if !m.IsAdmin(ctx) {
		return apperrors.ErrNotAdmin
	}
	return nil
}

// ListChapters returns the chapters of every subject.
func (m *Manager) ListChapters(ctx context.Context) ([]api.Chapter, error) {
	if err := m.authorize(ctx); err != nil {
		return nil, err
	}

	subjects, err := m.api.Subjects(ctx, api.SubjectFilter{})
	if err != nil {
		return nil, err
	}

	perSubject := make([][]api.Chapter, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, s := range subjects {
		g.Go(func() error {
			chapters, err := m.api.SubjectChapters(gctx, s.ID)
			if err != nil {
				return fmt.Errorf("chapters of subject %s: %w", s.ID, err)
			}
			perSubject[i] = chapters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []api.Chapter
	for _, chapters := range perSubject {
		all = append(all, chapters...)
	}
	return all, nil
}

// SaveChapter creates the chapter under in.Subject when id is empty and
// updates chapter id otherwise.
func (m *Manager) SaveChapter(ctx context.Context, id string, in api.ChapterInput) (api.Chapter, error) {
	if err := m.authorize(ctx); err != nil {
		return api.Chapter{}, err
	}
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Title) == "" {
		return api.Chapter{}, fmt.Errorf("%w: chapter name is required", apperrors.ErrValidation)
	}

	if id != "" {
		ch, err := m.api.UpdateChapter(ctx, id, in)
		if err != nil {
			return api.Chapter{}, err
		}
		m.logger.Info().Str("chapter", id).Msg("Chapter updated")
		return ch, nil
	}

	if in.Subject == "" {
		return api.Chapter{}, fmt.Errorf("%w: subject is required for a new chapter", apperrors.ErrValidation)
	}
	ch, err := m.api.CreateChapter(ctx, in.Subject, in)
	if err != nil {
		return api.Chapter{}, err
	}
	m.logger.Info().Str("chapter", ch.ID).Str("subject", in.Subject).Msg("Chapter created")
	return ch, nil
}

func (m *Manager) DeleteChapter(ctx context.Context, id string) error {
	if err := m.authorize(ctx); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: chapter id is required", apperrors.ErrValidation)
	}
	if err := m.api.DeleteChapter(ctx, id); err != nil {
		return err
	}
	m.logger.Info().Str("chapter", id).Msg("Chapter deleted")
	return nil
}

// AddQuestion validates draft and appends it to the chapter's content.
func (m *Manager) AddQuestion(ctx context.Context, chapterID string, draft QuestionDraft) error {
	if err := m.authorize(ctx); err != nil {
		return err
	}
	in, err := draft.Input()
	if err != nil {
		return err
	}
	if err := m.api.AddQuestion(ctx, chapterID, in); err != nil {
		return err
	}
	m.logger.Info().Str("chapter", chapterID).Bool("mcq", draft.MCQ).Msg("Question added")
	return nil
}
