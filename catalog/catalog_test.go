package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/abhyasa/study-client/api"
	"github.com/abhyasa/study-client/catalog"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/stretchr/testify/require"
)

type fakeCatalogAPI struct {
	mu            sync.Mutex
	boards        []api.Board
	grades        []api.Grade
	subjects      []api.Subject
	chapters      map[string][]api.Chapter
	failChapters  map[string]bool
	filters       []api.SubjectFilter
	subjectsCalls int
}

func (f *fakeCatalogAPI) Boards(context.Context) ([]api.Board, error) {
	return f.boards, nil
}

func (f *fakeCatalogAPI) Grades(context.Context) ([]api.Grade, error) {
	return f.grades, nil
}

func (f *fakeCatalogAPI) Subjects(_ context.Context, filter api.SubjectFilter) ([]api.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjectsCalls++
	f.filters = append(f.filters, filter)
	return f.subjects, nil
}

func (f *fakeCatalogAPI) SubjectChapters(_ context.Context, subjectID string) ([]api.Chapter, error) {
	if f.failChapters[subjectID] {
		return nil, &api.APIError{Status: 500, Message: "boom"}
	}
	// copy so sorting in the caller cannot reorder the fixture
	return append([]api.Chapter(nil), f.chapters[subjectID]...), nil
}

func newFakeCatalogAPI() *fakeCatalogAPI {
	return &fakeCatalogAPI{
		boards: []api.Board{{ID: "b1", Name: "CBSE"}, {ID: "b2", Name: "ICSE"}},
		grades: []api.Grade{
			{ID: "g9", Grade: 9, Board: api.Ref{ID: "b1"}},
			{ID: "g10", Grade: 10, Board: api.Ref{ID: "b1"}},
			{ID: "g8", Grade: 8, Board: api.Ref{ID: "b2"}},
			{ID: "orphan", Grade: 7, Board: api.Ref{ID: "b9"}},
		},
		subjects: []api.Subject{
			{ID: "s1", Name: "Science"},
			{ID: "s2", Name: "Maths"},
			{ID: "s3", Name: "Science"},
		},
		chapters: map[string][]api.Chapter{
			"s1": {
				{ID: "c3", Title: "Light", Number: 3},
				{ID: "c1", Title: "Matter", Number: 1, Description: "States of matter"},
			},
			"s2": {
				{ID: "c2", Name: "Polynomials", Number: 2},
			},
		},
	}
}

func chapterIDs(chapters []api.Chapter) []string {
	ids := make([]string, len(chapters))
	for i, c := range chapters {
		ids[i] = c.ID
	}
	return ids
}

func TestGradeFirst(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCatalogAPI()
	flow := catalog.NewGradeFirst(fake)

	boards, err := flow.Start(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 2)
	require.Equal(t, catalog.StepBoards, flow.Step())

	grades, err := flow.ChooseBoard(boards[0])
	require.NoError(t, err)
	require.Equal(t, []catalog.GradeOption{
		{ID: "6", Grade: 6}, {ID: "7", Grade: 7}, {ID: "8", Grade: 8}, {ID: "9", Grade: 9}, {ID: "10", Grade: 10},
	}, grades)

	subjects, err := flow.ChooseGrade(ctx, grades[3])
	require.NoError(t, err)
	require.Equal(t, api.SubjectFilter{Board: "b1", Grade: "9"}, fake.filters[0])
	require.Len(t, subjects, 2, "subjects are unique by name")
	require.Equal(t, "s1", subjects[0].ID)

	chapters, err := flow.ChooseSubject(ctx, subjects[0])
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c3"}, chapterIDs(chapters))
	require.Equal(t, catalog.StepChapters, flow.Step())

	require.Equal(t, catalog.StepSubjects, flow.Back())
	require.Nil(t, flow.Chapters())
	require.Equal(t, catalog.StepGrades, flow.Back())
	require.Nil(t, flow.Grade())
	require.Equal(t, catalog.StepBoards, flow.Back())
	require.Nil(t, flow.Board())
	require.Equal(t, catalog.StepBoards, flow.Back())
}

func TestGradeFirst_OutOfOrder(t *testing.T) {
	flow := catalog.NewGradeFirst(newFakeCatalogAPI())
	_, err := flow.ChooseGrade(context.Background(), catalog.GradeOption{ID: "9", Grade: 9})
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestClassOptions(t *testing.T) {
	fake := newFakeCatalogAPI()
	options := catalog.ClassOptions(fake.boards, fake.grades)
	require.Equal(t, []catalog.ClassOption{
		{Label: "CBSE Class 9", BoardID: "b1", GradeID: "g9", Value: "b1-g9"},
		{Label: "CBSE Class 10", BoardID: "b1", GradeID: "g10", Value: "b1-g10"},
		{Label: "ICSE Class 8", BoardID: "b2", GradeID: "g8", Value: "b2-g8"},
	}, options)
}

func TestClassFirst(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCatalogAPI()
	flow := catalog.NewClassFirst(fake)

	classes, err := flow.Start(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 3)

	subjects, err := flow.ChooseClass(ctx, classes[1].Value)
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	require.Equal(t, api.SubjectFilter{Board: "b1", Grade: "g10"}, fake.filters[0])

	chapters, err := flow.ChooseSubject(ctx, subjects[1])
	require.NoError(t, err)
	require.Equal(t, []string{"c2"}, chapterIDs(chapters))

	require.Equal(t, catalog.StepSubjects, flow.Back())
	require.Equal(t, catalog.StepClasses, flow.Back())
	require.Empty(t, flow.Class())

	_, err = flow.ChooseClass(ctx, "bogus")
	require.ErrorIs(t, err, apperrors.ErrInvalidOption)
}

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("matches fields case-insensitively, sorted by number", func(t *testing.T) {
		fake := newFakeCatalogAPI()
		idx := catalog.NewIndex(fake)

		results, err := idx.Search(ctx, "SCIENCE")
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.Equal(t, "c1", results[0].Chapter.ID)
		require.Equal(t, "c3", results[1].Chapter.ID)
		require.Equal(t, "Science", results[0].SubjectName)

		results, err = idx.Search(ctx, "poly")
		require.NoError(t, err)
		require.Len(t, results, 1)

		results, err = idx.Search(ctx, "states of")
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, "c1", results[0].Chapter.ID)

		require.Equal(t, 1, fake.subjectsCalls, "index loads once")
	})

	t.Run("blank query", func(t *testing.T) {
		fake := newFakeCatalogAPI()
		results, err := catalog.NewIndex(fake).Search(ctx, "   ")
		require.NoError(t, err)
		require.Empty(t, results)
		require.Zero(t, fake.subjectsCalls)
	})

	t.Run("at most eight results", func(t *testing.T) {
		fake := newFakeCatalogAPI()
		var many []api.Chapter
		for n := 20; n > 0; n-- {
			many = append(many, api.Chapter{ID: fmt.Sprintf("m%d", n), Title: "Motion", Number: api.Number(n)})
		}
		fake.chapters["s2"] = many

		results, err := catalog.NewIndex(fake).Search(ctx, "motion")
		require.NoError(t, err)
		require.Len(t, results, catalog.MaxResults)
		require.Equal(t, "m1", results[0].Chapter.ID)
		require.Equal(t, "m8", results[7].Chapter.ID)
	})

	t.Run("failing subject is skipped", func(t *testing.T) {
		fake := newFakeCatalogAPI()
		fake.failChapters = map[string]bool{"s1": true}

		results, err := catalog.NewIndex(fake).Search(ctx, "light")
		require.NoError(t, err)
		require.Empty(t, results)

		results, err = catalog.NewIndex(fake).Search(ctx, "poly")
		require.NoError(t, err)
		require.Len(t, results, 1)
	})
}
