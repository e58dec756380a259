package main

import (
	"context"

	"github.com/abhyasa/study-client/admin"
	"github.com/abhyasa/study-client/api"
)

func (cli *commandLine) printAdminUsage() {
	cli.println("Usage:")
	cli.println("  admin chapters")
	cli.println("  admin save-chapter [-id ID] -subject SUBJECT -name NAME [-title T] [-number N] [-preview P] [-video URL] [-restricted]")
	cli.println("  admin delete-chapter -id ID")
	cli.println("  admin add-question -chapter ID -question Q [-reason R] [-video URL] [-options \"a,b,c\" -answer N]")
}

func (cli *commandLine) admin(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printAdminUsage()
		return errHelp
	}
	if err := cli.protected(ctx); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "chapters":
		return cli.adminChapters(ctx)
	case "save-chapter":
		return cli.adminSaveChapter(ctx, rest)
	case "delete-chapter":
		return cli.adminDeleteChapter(ctx, rest)
	case "add-question":
		return cli.adminAddQuestion(ctx, rest)
	default:
		cli.printAdminUsage()
		return errHelp
	}
}

func (cli *commandLine) adminChapters(ctx context.Context) error {
	chapters, err := cli.app.Admin.ListChapters(ctx)
	if err != nil {
		return err
	}
	for _, ch := range chapters {
		restricted := ""
		if ch.Restricted {
			restricted = " [restricted]"
		}
		cli.printf("%s  %s  %d. %s%s\n", ch.ID, ch.Subject.ID, ch.Number, ch.DisplayTitle(), restricted)
	}
	return nil
}

func (cli *commandLine) adminSaveChapter(ctx context.Context, args []string) error {
	fs := cli.flags("save-chapter")
	id := fs.String("id", "", "Chapter to update; empty creates a new chapter")
	in := api.ChapterInput{}
	fs.StringVar(&in.Subject, "subject", "", "Subject the chapter belongs to")
	fs.StringVar(&in.Name, "name", "", "Chapter name")
	fs.StringVar(&in.Title, "title", "", "Display title")
	fs.IntVar(&in.Number, "number", 0, "Chapter number")
	fs.StringVar(&in.ContentPreview, "preview", "", "Content preview")
	fs.StringVar(&in.VideoURL, "video", "", "Video URL")
	fs.BoolVar(&in.Restricted, "restricted", false, "Restrict to paid users")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	ch, err := cli.app.Admin.SaveChapter(ctx, *id, in)
	if err != nil {
		return err
	}
	if *id == "" {
		cli.printf("Chapter created! %s\n", ch.ID)
	} else {
		cli.println("Chapter updated!")
	}
	return nil
}

func (cli *commandLine) adminDeleteChapter(ctx context.Context, args []string) error {
	fs := cli.flags("delete-chapter")
	id := fs.String("id", "", "Chapter to delete")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	answer, err := cli.prompt("Delete chapter? [y/N] ")
	if err != nil {
		return err
	}
	if answer != "y" {
		return nil
	}
	if err := cli.app.Admin.DeleteChapter(ctx, *id); err != nil {
		return err
	}
	cli.println("Chapter deleted!")
	return nil
}

func (cli *commandLine) adminAddQuestion(ctx context.Context, args []string) error {
	fs := cli.flags("add-question")
	chapterID := fs.String("chapter", "", "Chapter to add the question to")
	options := fs.String("options", "", "Comma separated options; makes the question multiple choice")
	draft := admin.QuestionDraft{}
	fs.StringVar(&draft.Question, "question", "", "Question text")
	fs.StringVar(&draft.Reason, "reason", "", "Explanation shown with the answer")
	fs.StringVar(&draft.ExplanationVideoURL, "video", "", "Explanation video URL")
	fs.IntVar(&draft.Answer, "answer", 0, "Index of the correct option, from 0")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if *options != "" {
		draft.MCQ = true
		draft.Options = admin.ParseOptions(*options)
	}

	if err := cli.app.Admin.AddQuestion(ctx, *chapterID, draft); err != nil {
		return err
	}
	cli.println("Question added!")
	return nil
}
