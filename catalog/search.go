package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/abhyasa/study-client/api"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxResults caps a search result list.
	MaxResults = 8

	loadConcurrency = 4
)

// Entry is a chapter annotated with the subject it was listed under.
type Entry struct {
	Chapter     api.Chapter
	SubjectName string
	Board       api.Ref
	Grade       api.Ref
}

func (e Entry) matches(query string) bool {
	for _, field := range []string{e.Chapter.Title, e.Chapter.Name, e.SubjectName, e.Chapter.Description} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Index is every chapter of every subject, loaded once on first search.
type Index struct {
	api    API
	logger zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	entries []Entry
}

type IndexOption func(*Index)

func WithLogger(logger zerolog.Logger) IndexOption {
	return func(i *Index) {
		i.logger = logger
	}
}

func NewIndex(a API, options ...IndexOption) *Index {
	i := &Index{api: a, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Load fetches all subjects and their chapters. A subject whose chapters
// cannot be fetched is left out.
func (i *Index) Load(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.load(ctx)
}

func (i *Index) load(ctx context.Context) error {
	subjects, err := i.api.Subjects(ctx, api.SubjectFilter{})
	if err != nil {
		return err
	}

	perSubject := make([][]Entry, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for n, subject := range subjects {
		g.Go(func() error {
			chapters, err := i.api.SubjectChapters(gctx, subject.ID)
			if err != nil {
				i.logger.Warn().Err(err).Str("subject", subject.ID).Msg("Skipping subject in search index")
				return nil
			}
			entries := make([]Entry, 0, len(chapters))
			for _, ch := range chapters {
				entries = append(entries, Entry{Chapter: ch, SubjectName: subject.Name, Board: subject.Board, Grade: subject.Grade})
			}
			perSubject[n] = entries
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	var entries []Entry
	for _, e := range perSubject {
		entries = append(entries, e...)
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Chapter.Number < entries[b].Chapter.Number
	})

	i.entries = entries
	i.loaded = true
	i.logger.Debug().Int("chapters", len(entries)).Msg("Search index loaded")
	return nil
}

// Search matches query case-insensitively against chapter title, name,
// description and subject name. A blank query matches nothing.
func (i *Index) Search(ctx context.Context, query string) ([]Entry, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.loaded {
		if err := i.load(ctx); err != nil {
			return nil, err
		}
	}

	var results []Entry
	for _, e := range i.entries {
		if !e.matches(query) {
			continue
		}
		results = append(results, e)
		if len(results) == MaxResults {
			break
		}
	}
	return results, nil
}
