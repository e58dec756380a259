package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
)

// ClassOption is a board and grade pair offered as one "class".
type ClassOption struct {
	Label   string
	BoardID string
	GradeID string
	Value   string
}

// ClassOptions pairs every board with the grades that belong to it.
func ClassOptions(boards []api.Board, grades []api.Grade) []ClassOption {
	var options []ClassOption
	for _, b := range boards {
		for _, g := range grades {
			if g.Board.ID != b.ID {
				continue
			}
			options = append(options, ClassOption{
				Label:   fmt.Sprintf("%s Class %d", b.Name, g.Grade),
				BoardID: b.ID,
				GradeID: g.ID,
				Value:   b.ID + "-" + g.ID,
			})
		}
	}
	return options
}

// ParseClassValue splits a "<boardID>-<gradeID>" class value.
func ParseClassValue(value string) (boardID, gradeID string, err error) {
	boardID, gradeID, ok := strings.Cut(value, "-")
	if !ok || boardID == "" || gradeID == "" {
		return "", "", fmt.Errorf("%w: class %q", apperrors.ErrInvalidOption, value)
	}
	return boardID, gradeID, nil
}

// ClassFirst browses class, then subject, then chapter.
type ClassFirst struct {
	api      API
	step     Step
	classes  []ClassOption
	class    string
	subjects []api.Subject
	chapters []api.Chapter
}

func NewClassFirst(a API) *ClassFirst {
	return &ClassFirst{api: a, step: StepClasses}
}

func (f *ClassFirst) Step() Step {
	return f.step
}

// Start loads boards and grades and resets the flow.
func (f *ClassFirst) Start(ctx context.Context) ([]ClassOption, error) {
	*f = ClassFirst{api: f.api, step: StepClasses}

	boards, err := f.api.Boards(ctx)
	if err != nil {
		return nil, err
	}
	grades, err := f.api.Grades(ctx)
	if err != nil {
		return nil, err
	}
	f.classes = ClassOptions(boards, grades)
	return f.classes, nil
}

// ChooseClass lists the subjects of a class value. The value need not come
// from Start, so a class can be opened directly.
func (f *ClassFirst) ChooseClass(ctx context.Context, value string) ([]api.Subject, error) {
	if f.step != StepClasses {
		return nil, fmt.Errorf("%w: choose a class from %s", apperrors.ErrInvalidState, f.step)
	}
	boardID, gradeID, err := ParseClassValue(value)
	if err != nil {
		return nil, err
	}
	f.class = value
	f.step = StepSubjects
	f.subjects = nil

	subjects, err := f.api.Subjects(ctx, api.SubjectFilter{Board: boardID, Grade: gradeID})
	if err != nil {
		return nil, err
	}
	f.subjects = subjects
	return subjects, nil
}

func (f *ClassFirst) ChooseSubject(ctx context.Context, subject api.Subject) ([]api.Chapter, error) {
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

func (f *ClassFirst) Back() Step {
	switch f.step {
	case StepSubjects:
		f.class = ""
		f.subjects = nil
		f.step = StepClasses
	case StepChapters:
		f.chapters = nil
		f.step = StepSubjects
	}
	return f.step
}

func (f *ClassFirst) Class() string           { return f.class }
func (f *ClassFirst) Classes() []ClassOption  { return f.classes }
func (f *ClassFirst) Subjects() []api.Subject { return f.subjects }
func (f *ClassFirst) Chapters() []api.Chapter { return f.chapters }
