package admin_test

import (
	"context"
	"sync"
	"testing"

	"github.com/abhyasa/study-client/admin"
	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeAdminAPI struct {
	mu        sync.Mutex
	calls     int
	created   map[string]api.ChapterInput
	updated   map[string]api.ChapterInput
	deleted   []string
	questions map[string][]api.QuestionInput
}

func newFakeAdminAPI() *fakeAdminAPI {
	return &fakeAdminAPI{
		created:   map[string]api.ChapterInput{},
		updated:   map[string]api.ChapterInput{},
		questions: map[string][]api.QuestionInput{},
	}
}

func (f *fakeAdminAPI) count() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeAdminAPI) Subjects(context.Context, api.SubjectFilter) ([]api.Subject, error) {
	f.count()
	return []api.Subject{{ID: "s1"}, {ID: "s2"}}, nil
}

func (f *fakeAdminAPI) SubjectChapters(_ context.Context, subjectID string) ([]api.Chapter, error) {
	f.count()
	return []api.Chapter{{ID: subjectID + "-c1"}}, nil
}

func (f *fakeAdminAPI) CreateChapter(_ context.Context, subjectID string, in api.ChapterInput) (api.Chapter, error) {
	f.count()
	f.created[subjectID] = in
	return api.Chapter{ID: "new", Name: in.Name}, nil
}

func (f *fakeAdminAPI) UpdateChapter(_ context.Context, id string, in api.ChapterInput) (api.Chapter, error) {
	f.count()
	f.updated[id] = in
	return api.Chapter{ID: id, Name: in.Name}, nil
}

func (f *fakeAdminAPI) DeleteChapter(_ context.Context, id string) error {
	f.count()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminAPI) AddQuestion(_ context.Context, chapterID string, in api.QuestionInput) error {
	f.count()
	f.questions[chapterID] = append(f.questions[chapterID], in)
	return nil
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func signed(t *testing.T, role string) staticToken {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": role}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return staticToken(raw)
}

func TestManager_NonAdminMakesNoCalls(t *testing.T) {
	ctx := context.Background()

	for name, tok := range map[string]staticToken{
		"student": signed(t, "student"),
		"empty":   "",
		"garbage": "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			fake := newFakeAdminAPI()
			m := admin.NewManager(fake, tok)

			require.False(t, m.IsAdmin(ctx))
			_, err := m.ListChapters(ctx)
			require.ErrorIs(t, err, apperrors.ErrNotAdmin)
			_, err = m.SaveChapter(ctx, "", api.ChapterInput{Name: "x", Subject: "s1"})
			require.ErrorIs(t, err, apperrors.ErrNotAdmin)
			require.ErrorIs(t, m.DeleteChapter(ctx, "c1"), apperrors.ErrNotAdmin)
			require.ErrorIs(t, m.AddQuestion(ctx, "c1", admin.QuestionDraft{Question: "q"}), apperrors.ErrNotAdmin)
			require.Zero(t, fake.calls)
		})
	}
}

func TestManager_ListChapters(t *testing.T) {
	fake := newFakeAdminAPI()
	m := admin.NewManager(fake, signed(t, "admin"))

	chapters, err := m.ListChapters(context.Background())
	require.NoError(t, err)
	require.Equal(t, []api.Chapter{{ID: "s1-c1"}, {ID: "s2-c1"}}, chapters)
}

func TestManager_SaveChapter(t *testing.T) {
	ctx := context.Background()
	fake := newFakeAdminAPI()
	m := admin.NewManager(fake, signed(t, "admin"))

	ch, err := m.SaveChapter(ctx, "", api.ChapterInput{Name: "Light", Subject: "s1"})
	require.NoError(t, err)
	require.Equal(t, "new", ch.ID)
	require.Equal(t, "Light", fake.created["s1"].Name)

	_, err = m.SaveChapter(ctx, "c9", api.ChapterInput{Name: "Light II"})
	require.NoError(t, err)
	require.Equal(t, "Light II", fake.updated["c9"].Name)

	_, err = m.SaveChapter(ctx, "", api.ChapterInput{Name: "Orphan"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = m.SaveChapter(ctx, "", api.ChapterInput{Subject: "s1"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, m.DeleteChapter(ctx, "c9"))
	require.Equal(t, []string{"c9"}, fake.deleted)
}

func TestManager_AddQuestion(t *testing.T) {
	ctx := context.Background()
	fake := newFakeAdminAPI()
	m := admin.NewManager(fake, signed(t, "admin"))

	require.NoError(t, m.AddQuestion(ctx, "c1", admin.QuestionDraft{
		Question: "2+2?",
		MCQ:      true,
		Options:  admin.ParseOptions("3, 4 ,5"),
		Answer:   1,
		Reason:   "arithmetic",
	}))
	require.NoError(t, m.AddQuestion(ctx, "c1", admin.QuestionDraft{Question: "Explain refraction", Options: []string{"ignored"}}))

	got := fake.questions["c1"]
	require.Len(t, got, 2)
	require.Equal(t, "mcq", got[0].Type)
	require.Equal(t, []string{"3", "4", "5"}, got[0].Options)
	require.Equal(t, 1, *got[0].Answer)
	require.Empty(t, got[1].Options)
	require.Nil(t, got[1].Answer)
}

func TestQuestionDraft_Input(t *testing.T) {
	tests := []struct {
		name  string
		draft admin.QuestionDraft
		ok    bool
	}{
		{"plain", admin.QuestionDraft{Question: "Why?"}, true},
		{"blank question", admin.QuestionDraft{Question: "  "}, false},
		{"mcq", admin.QuestionDraft{Question: "q", MCQ: true, Options: []string{"a", "b"}, Answer: 1}, true},
		{"mcq one option", admin.QuestionDraft{Question: "q", MCQ: true, Options: []string{"a"}}, false},
		{"mcq answer out of range", admin.QuestionDraft{Question: "q", MCQ: true, Options: []string{"a", "b"}, Answer: 2}, false},
		{"mcq negative answer", admin.QuestionDraft{Question: "q", MCQ: true, Options: []string{"a", "b"}, Answer: -1}, false},
		{"mcq blank option", admin.QuestionDraft{Question: "q", MCQ: true, Options: []string{"a", " "}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.draft.Input()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, apperrors.ErrValidation)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	require.Equal(t, []string{"a", "b c", "d"}, admin.ParseOptions(" a ,b c,, d ,"))
	require.Nil(t, admin.ParseOptions(" , "))
}
