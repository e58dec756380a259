package catalog

import (
	"context"
	"sort"

	"github.com/abhyasa/study-client/api"
)

// API is the read side of api.Client used for browsing.
type API interface {
	Boards(ctx context.Context) ([]api.Board, error)
	Grades(ctx context.Context) ([]api.Grade, error)
	Subjects(ctx context.Context, filter api.SubjectFilter) ([]api.Subject, error)
	SubjectChapters(ctx context.Context, subjectID string) ([]api.Chapter, error)
}

var _ API = (*api.Client)(nil)

// Step is where a browse flow currently is
type Step int

const (
	StepBoards Step = iota
	StepClasses
	StepGrades
	StepSubjects
	StepChapters
)

func (s Step) String() string {
	switch s {
	case StepBoards:
		return "boards"
	case StepClasses:
		return "classes"
	case StepGrades:
		return "grades"
	case StepSubjects:
		return "subjects"
	case StepChapters:
		return "chapters"
	}
	return "unknown"
}

// SortChapters orders chapters by number, keeping API order for ties.
func SortChapters(chapters []api.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
}

// UniqueSubjects keeps the first subject of each name.
func UniqueSubjects(subjects []api.Subject) []api.Subject {
	seen := make(map[string]struct{}, len(subjects))
	unique := make([]api.Subject, 0, len(subjects))
	for _, s := range subjects {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}

func loadChapters(ctx context.Context, a API, subjectID string) ([]api.Chapter, error) {
	chapters, err := a.SubjectChapters(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	SortChapters(chapters)
	return chapters, nil
}
