package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abhyasa/study-client/activity"
	"github.com/abhyasa/study-client/api"
	"github.com/abhyasa/study-client/selftest"
)

const subscribeNotice = "Subscribe for Rs 99 to access all questions and results."

func (cli *commandLine) chapter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		cli.println("Usage: chapter ID")
		return errHelp
	}
	return cli.openChapter(ctx, args[0])
}

// openChapter shows a chapter with its in-text solutions and self-test.
func (cli *commandLine) openChapter(ctx context.Context, id string) error {
	ch, err := cli.app.API.Chapter(ctx, id)
	if err != nil {
		return err
	}

	cli.printf("\n%d. %s\n", ch.Number, ch.DisplayTitle())
	if ch.ContentPreview != "" {
		cli.println(ch.ContentPreview)
	}
	if ch.VideoURL != "" {
		cli.printf("Video: %s\n", ch.VideoURL)
	}

	test := selftest.FromChapter(ch, cli.app.Sessions)
	reader := selftest.NewReader(cli.authenticated(ctx))
	for {
		answer, err := cli.prompt("\n[r] in-text solutions  [t] test  [q] back: ")
		if err != nil {
			return ignoreEOF(err)
		}
		switch answer {
		case "r":
			reader.SetAuthenticated(cli.authenticated(ctx))
			reader.Reset()
			err = cli.readSolutions(ch, reader)
		case "t":
			err = cli.runTest(ctx, test)
		case "q":
			return nil
		default:
			continue
		}
		if errors.Is(err, errQuit) {
			continue
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

// readSolutions pages through the in-text questions one per Enter. Readers
// who are not logged in are asked to sign up after a few pages.
func (cli *commandLine) readSolutions(ch api.Chapter, reader *selftest.Reader) error {
	if len(ch.Content) == 0 {
		cli.println("No in-text questions yet.")
		return nil
	}

	for i, q := range ch.Content {
		cli.printf("\nQ%d. %s\n", i+1, q.Question)
		if q.Reason != "" {
			cli.printf("   %s\n", q.Reason)
		}
		if q.ExplanationVideoURL != "" {
			cli.printf("   Video: %s\n", q.ExplanationVideoURL)
		}
		if i == len(ch.Content)-1 {
			return nil
		}

		answer, err := cli.prompt("[Enter] more  [q] stop: ")
		if err != nil {
			return err
		}
		if answer == "q" {
			return nil
		}
		cli.input.Emit(activity.Scroll)
		if shown := reader.Prompted(); reader.Scroll() && !shown {
			cli.println("\nEnjoying the solutions? Create a free account to keep your progress: abhyasa register")
		}
	}
	return nil
}

func (cli *commandLine) authenticated(ctx context.Context) bool {
	s, err := cli.app.Sessions.Read(ctx)
	if err != nil || !s.HasToken() {
		return false
	}
	active, err := cli.app.Sessions.ActiveWithin(ctx, cli.app.Gate.Window())
	return err == nil && active
}

// runTest drives the self-test until the user quits.
func (cli *commandLine) runTest(ctx context.Context, test *selftest.Test) error {
	if test.Len() == 0 {
		cli.println("No questions available.")
		return nil
	}

	for {
		state, idx := test.State()
		switch state {
		case selftest.Locked:
			cli.println("\n" + subscribeNotice)
			answer, err := cli.prompt("[buy] subscribe  [q] back: ")
			if err != nil {
				return err
			}
			switch answer {
			case "buy":
				cli.input.Emit(activity.Click)
				if _, err := test.Purchase(ctx); err != nil {
					return err
				}
				cli.println("Payment successful. All questions unlocked.")
			case "q":
				return errQuit
			}

		case selftest.ShowingResults:
			cli.printResults(test)
			answer, err := cli.prompt("[r] retake  [q] back: ")
			if err != nil {
				return err
			}
			switch answer {
			case "r":
				if err := test.Retake(); err != nil {
					return err
				}
			case "q":
				return errQuit
			}

		case selftest.Answering:
			q, selected, err := test.Current()
			if err != nil {
				return err
			}
			cli.printf("\nQuestion %d of %d: %s\n", idx+1, test.Len(), q.Question)
			for i, o := range q.Options {
				marker := " "
				if selected != nil && *selected == i {
					marker = "*"
				}
				cli.printf(" %s %d. %s\n", marker, i+1, o)
			}
			next := "[n] next"
			if test.IsLast() {
				next = "[n] finish"
			}
			answer, err := cli.prompt(fmt.Sprintf("option number  %s  [p] previous  [q] back: ", next))
			if err != nil {
				return err
			}
			if err := cli.answer(ctx, test, answer); err != nil {
				return err
			}
		}
	}
}

func (cli *commandLine) answer(ctx context.Context, test *selftest.Test, answer string) error {
	switch answer {
	case "n", "f":
		cli.input.Emit(activity.Click)
		_, err := test.Next(ctx)
		return err
	case "p":
		if err := test.Previous(); err != nil {
			cli.println("Already at the first question.")
		}
		return nil
	case "q":
		return errQuit
	}

	var option int
	if _, err := fmt.Sscanf(answer, "%d", &option); err != nil {
		return nil
	}
	cli.input.Emit(activity.Click)
	if err := test.Select(option - 1); err != nil {
		cli.printf("%s\n", err)
	}
	return nil
}

func (cli *commandLine) printResults(test *selftest.Test) {
	results := test.Results()
	cli.printf("\nYou got %d out of %d correct.\n", test.Score(), len(results))
	for i, r := range results {
		mark := "x"
		if r.Correct {
			mark = "ok"
		}
		chosen := "-"
		if r.Selected != nil && *r.Selected < len(r.Question.Options) {
			chosen = r.Question.Options[*r.Selected]
		}
		correct := ""
		if r.Question.Answer >= 0 && r.Question.Answer < len(r.Question.Options) {
			correct = r.Question.Options[r.Question.Answer]
		}
		cli.printf("%2d. [%s] %s\n    your answer: %s  correct: %s\n", i+1, mark, r.Question.Question, chosen, correct)
		if r.Question.Reason != "" {
			cli.printf("    %s\n", r.Question.Reason)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
