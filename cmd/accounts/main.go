package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robinvdvleuten/accounts/cli"
	"github.com/robinvdvleuten/accounts/console"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""
)

func main() {
	cli.Version = Version
	cli.CommitSHA = CommitSHA

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result := cli.Execute(ctx, os.Args[1:], cli.Deps{TTY: console.IsTerminal(os.Stdout)})
	stop()
	os.Exit(result.ExitCode)
}
