package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
)

// GradeOption is one of the fixed grades offered after picking a board.
type GradeOption struct {
	ID    string
	Grade int
}

// FixedGrades lists grades 6 to 10.
func FixedGrades() []GradeOption {
	grades := make([]GradeOption, 0, 5)
	for g := 6; g <= 10; g++ {
		grades = append(grades, GradeOption{ID: strconv.Itoa(g), Grade: g})
	}
	return grades
}

// GradeFirst browses board, then grade, then subject, then chapter.
type GradeFirst struct {
	api      API
	step     Step
	boards   []api.Board
	board    *api.Board
	grade    *GradeOption
	subjects []api.Subject
	chapters []api.Chapter
}

func NewGradeFirst(a API) *GradeFirst {
	return &GradeFirst{api: a, step: StepBoards}
}

func (f *GradeFirst) Step() Step {
	return f.step
}

// Start loads the boards and resets the flow.
func (f *GradeFirst) Start(ctx context.Context) ([]api.Board, error) {
	*f = GradeFirst{api: f.api, step: StepBoards}
	boards, err := f.api.Boards(ctx)
	if err != nil {
		return nil, err
	}
	f.boards = boards
	return boards, nil
}

func (f *GradeFirst) ChooseBoard(board api.Board) ([]GradeOption, error) {
	if f.step != StepBoards {
		return nil, fmt.Errorf("%w: choose a board from %s", apperrors.ErrInvalidState, f.step)
	}
	f.board = &board
	f.step = StepGrades
	return FixedGrades(), nil
}

// ChooseGrade lists the board's subjects for grade, one per subject name.
func (f *GradeFirst) ChooseGrade(ctx context.Context, grade GradeOption) ([]api.Subject, error) {
	if f.step != StepGrades {
		return nil, fmt.Errorf("%w: choose a grade from %s", apperrors.ErrInvalidState, f.step)
	}
	f.grade = &grade
	f.step = StepSubjects
	f.subjects = nil

	subjects, err := f.api.Subjects(ctx, api.SubjectFilter{Board: f.board.ID, Grade: grade.ID})
	if err != nil {
		return nil, err
	}
	f.subjects = UniqueSubjects(subjects)
	return f.subjects, nil
}

// ChooseSubject lists the subject's chapters by number.
func (f *GradeFirst) ChooseSubject(ctx context.Context, subject api.Subject) ([]api.Chapter, error) {
	if f.step != StepSubjects {
		return nil, fmt.Errorf("%w: choose a subject from %s", apperrors.ErrInvalidState, f.step)
	}
	f.step = StepChapters
	f.chapters = nil

	chapters, err := loadChapters(ctx, f.api, subject.ID)
	if err != nil {
		return nil, err
	}
	f.chapters = chapters
	return chapters, nil
}

// Back unwinds one step and returns the step now showing.
func (f *GradeFirst) Back() Step {
	switch f.step {
	case StepGrades:
		f.board = nil
		f.step = StepBoards
	case StepSubjects:
		f.grade = nil
		f.subjects = nil
		f.step = StepGrades
	case StepChapters:
		f.chapters = nil
		f.step = StepSubjects
	}
	return f.step
}

func (f *GradeFirst) Board() *api.Board       { return f.board }
func (f *GradeFirst) Grade() *GradeOption     { return f.grade }
func (f *GradeFirst) Boards() []api.Board     { return f.boards }
func (f *GradeFirst) Subjects() []api.Subject { return f.subjects }
func (f *GradeFirst) Chapters() []api.Chapter { return f.chapters }
