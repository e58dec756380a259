package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/abhyasa/study-client/activity"
	"github.com/abhyasa/study-client/internal/app"
	"github.com/abhyasa/study-client/internal/config"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			log.Error().Msg(describe(err))
		}
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := config.New()
	a, err := app.New(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()
	log.Logger = a.Logger

	if len(args) < 2 || args[1] == "shell" {
		displayAppname(c.GetAppName())
	}

	input := activity.NewChannelSource(16)
	detach := a.Tracker.Attach(ctx, input)
	defer detach()
	defer input.Close()

	cli := newCommandLine(a, os.Stdin, os.Stdout, input)
	cli.readPassword = readPassword
	return cli.run(ctx, args)
}

// readPassword reads without echo from a terminal and falls back to a plain
// line otherwise.
func readPassword(cli *commandLine) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return cli.readLine()
	}
	pwd, err := term.ReadPassword(fd)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	cli.input.Emit(activity.KeyPress)
	return string(pwd), nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
