package main

import (
	"context"
	"errors"
	"strings"

	"github.com/abhyasa/study-client/api"
	"github.com/abhyasa/study-client/catalog"
)

func (cli *commandLine) boards(ctx context.Context) error {
	boards, err := cli.app.API.Boards(ctx)
	if err != nil {
		return err
	}
	for _, b := range boards {
		cli.printf("%s  %s\n", b.ID, b.Name)
	}
	return nil
}

func (cli *commandLine) search(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		cli.println("Usage: search QUERY")
		return errHelp
	}

	results, err := cli.app.Search.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cli.printf("No results found for %q\n", query)
		return nil
	}
	for _, r := range results {
		cli.printf("%s  %d. %s (%s)\n", r.Chapter.ID, r.Chapter.Number, r.Chapter.DisplayTitle(), r.SubjectName)
	}
	return nil
}

// browse walks to a chapter through menus and opens it.
func (cli *commandLine) browse(ctx context.Context, args []string) error {
	fs := cli.flags("browse")
	flow := fs.String("flow", "grade", "grade: board, grade, subject. class: class, subject.")
	class := fs.String("class", "", "Open this class value (<boardID>-<gradeID>) directly")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if err := cli.protected(ctx); err != nil {
		return err
	}

	var chapter *api.Chapter
	var err error
	switch *flow {
	case "grade":
		chapter, err = cli.browseGradeFirst(ctx)
	case "class":
		chapter, err = cli.browseClassFirst(ctx, *class)
	default:
		fs.Usage()
		return errHelp
	}
	if errors.Is(err, errQuit) || (err == nil && chapter == nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return cli.openChapter(ctx, chapter.ID)
}

func (cli *commandLine) browseGradeFirst(ctx context.Context) (*api.Chapter, error) {
	flow := catalog.NewGradeFirst(cli.app.API)
	if _, err := flow.Start(ctx); err != nil {
		return nil, err
	}

	for {
		switch flow.Step() {
		case catalog.StepBoards:
			cli.println("Select a board:")
			boards := flow.Boards()
			for i, b := range boards {
				cli.printf("  %d. %s\n", i+1, b.Name)
			}
			idx, err := cli.choose(len(boards))
			if err != nil || idx < 0 {
				return nil, err
			}
			if _, err := flow.ChooseBoard(boards[idx]); err != nil {
				return nil, err
			}

		case catalog.StepGrades:
			cli.println("Select a grade:")
			grades := catalog.FixedGrades()
			for i, g := range grades {
				cli.printf("  %d. Grade %d %s\n", i+1, g.Grade, flow.Board().Name)
			}
			idx, err := cli.choose(len(grades))
			if err != nil {
				return nil, err
			}
			if idx < 0 {
				flow.Back()
				continue
			}
			if _, err := flow.ChooseGrade(ctx, grades[idx]); err != nil {
				cli.printf("Failed to load subjects: %s\n", err)
			}

		case catalog.StepSubjects:
			subject, back, err := cli.pickSubject(flow.Subjects())
			if err != nil {
				return nil, err
			}
			if back {
				flow.Back()
				continue
			}
			if _, err := flow.ChooseSubject(ctx, subject); err != nil {
				cli.printf("Failed to load chapters: %s\n", err)
			}

		case catalog.StepChapters:
			ch, back, err := cli.pickChapter(flow.Chapters())
			if err != nil {
				return nil, err
			}
			if back {
				flow.Back()
				continue
			}
			return ch, nil
		}
	}
}

func (cli *commandLine) browseClassFirst(ctx context.Context, class string) (*api.Chapter, error) {
	flow := catalog.NewClassFirst(cli.app.API)
	if _, err := flow.Start(ctx); err != nil {
		return nil, err
	}
	if class != "" {
		if _, err := flow.ChooseClass(ctx, class); err != nil {
			return nil, err
		}
	}

	for {
		switch flow.Step() {
		case catalog.StepClasses:
			classes := flow.Classes()
			if len(classes) == 0 {
				cli.println("No classes available.")
				return nil, nil
			}
			cli.println("Select a class:")
			for i, c := range classes {
				cli.printf("  %d. %s\n", i+1, c.Label)
			}
			idx, err := cli.choose(len(classes))
			if err != nil || idx < 0 {
				return nil, err
			}
			if _, err := flow.ChooseClass(ctx, classes[idx].Value); err != nil {
				cli.printf("Failed to load subjects: %s\n", err)
			}

		case catalog.StepSubjects:
			subject, back, err := cli.pickSubject(flow.Subjects())
			if err != nil {
				return nil, err
			}
			if back {
				flow.Back()
				continue
			}
			if _, err := flow.ChooseSubject(ctx, subject); err != nil {
				cli.printf("Failed to load chapters: %s\n", err)
			}

		case catalog.StepChapters:
			ch, back, err := cli.pickChapter(flow.Chapters())
			if err != nil {
				return nil, err
			}
			if back {
				flow.Back()
				continue
			}
			return ch, nil
		}
	}
}

func (cli *commandLine) pickSubject(subjects []api.Subject) (api.Subject, bool, error) {
	if len(subjects) == 0 {
		cli.println("No subjects here. b to go back.")
	} else {
		cli.println("Select a subject:")
	}
	for i, s := range subjects {
		cli.printf("  %d. %s\n", i+1, s.Name)
	}
	idx, err := cli.choose(len(subjects))
	if err != nil {
		return api.Subject{}, false, err
	}
	if idx < 0 {
		return api.Subject{}, true, nil
	}
	return subjects[idx], false, nil
}

func (cli *commandLine) pickChapter(chapters []api.Chapter) (*api.Chapter, bool, error) {
	if len(chapters) == 0 {
		cli.println("No chapters here. b to go back.")
	} else {
		cli.println("Select a chapter:")
	}
	for i, c := range chapters {
		cli.printf("  %d. %d. %s\n", i+1, c.Number, c.DisplayTitle())
	}
	idx, err := cli.choose(len(chapters))
	if err != nil {
		return nil, false, err
	}
	if idx < 0 {
		return nil, true, nil
	}
	return &chapters[idx], false, nil
}
