package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/abhyasa/study-client/activity"
	"github.com/abhyasa/study-client/internal/app"
	apperrors "github.com/abhyasa/study-client/internal/errors"
)

var (
	errHelp = errors.New("help provided")
	errQuit = errors.New("quit")
)

type commandLine struct {
	app          *app.App
	lines        *bufio.Scanner
	out          io.Writer
	input        *activity.ChannelSource
	readPassword func(cli *commandLine) (string, error)
}

func newCommandLine(a *app.App, in io.Reader, out io.Writer, input *activity.ChannelSource) *commandLine {
	return &commandLine{
		app:   a,
		lines: bufio.NewScanner(in),
		out:   out,
		input: input,
		readPassword: func(cli *commandLine) (string, error) {
			return cli.readLine()
		},
	}
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  login -id EMAIL|PHONE                 - sign in, the password is prompted")
	cli.println("  register -name NAME -email E|-phone P - create an account, the password is prompted")
	cli.println("  logout                                - sign out and forget this session")
	cli.println("  whoami                                - show the stored session")
	cli.println("  boards                                - list boards")
	cli.println("  browse [-flow grade|class] [-class V] - browse to a chapter")
	cli.println("  search QUERY                          - search chapters")
	cli.println("  chapter ID                            - read a chapter and take its self-test")
	cli.println("  admin chapters|save-chapter|delete-chapter|add-question")
	cli.println("  shell                                 - run commands interactively")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "register":
		return cli.register(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "boards":
		return cli.boards(ctx)
	case "browse":
		return cli.browse(ctx, rest)
	case "search":
		return cli.search(ctx, rest)
	case "chapter":
		return cli.chapter(ctx, rest)
	case "admin":
		return cli.admin(ctx, rest)
	case "shell":
		return cli.shell(ctx)
	case "help", "-h", "--help":
		cli.printUsage()
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// shell runs one command per input line until EOF or "exit".
func (cli *commandLine) shell(ctx context.Context) error {
	for {
		fmt.Fprint(cli.out, "abhyasa> ")
		line, err := cli.readLine()
		if errors.Is(err, io.EOF) {
			cli.println()
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		if fields[0] == "shell" {
			continue
		}
		if err := cli.run(ctx, append([]string{"abhyasa"}, fields...)); err != nil && !errors.Is(err, errHelp) {
			cli.printf("error: %s\n", describe(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// protected runs the session gate before a protected command.
func (cli *commandLine) protected(ctx context.Context) error {
	verdict, err := cli.app.Gate.Check(ctx)
	if err != nil {
		return err
	}
	if !verdict.Allowed() {
		return fmt.Errorf("%w (%s): please log in", apperrors.ErrSessionExpired, verdict.Reason)
	}
	return nil
}

// readLine reads one input line. Every line read counts as activity.
func (cli *commandLine) readLine() (string, error) {
	if !cli.lines.Scan() {
		if err := cli.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	cli.input.Emit(activity.KeyPress)
	return strings.TrimSpace(cli.lines.Text()), nil
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	return cli.readLine()
}

// choose reads a menu selection: a 1 based index into n items, "b" for back
// or "q" for quit. It returns -1 for back.
func (cli *commandLine) choose(n int) (int, error) {
	for {
		answer, err := cli.prompt("> ")
		if err != nil {
			return 0, err
		}
		switch answer {
		case "b":
			cli.input.Emit(activity.Click)
			return -1, nil
		case "q":
			return 0, errQuit
		}
		var idx int
		if _, err := fmt.Sscanf(answer, "%d", &idx); err == nil && idx >= 1 && idx <= n {
			cli.input.Emit(activity.Click)
			return idx - 1, nil
		}
		cli.printf("pick 1-%d, b or q\n", n)
	}
}

func (cli *commandLine) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) println(a ...any) {
	fmt.Fprintln(cli.out, a...)
}

func (cli *commandLine) printf(format string, a ...any) {
	fmt.Fprintf(cli.out, format, a...)
}

// describe turns known errors into the notice shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return "You are already registered, please log in instead!"
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return err.Error() + ". Try register to create an account."
	case errors.Is(err, apperrors.ErrNotAdmin):
		return "this command is for administrators"
	}
	return err.Error()
}
