package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sudo-init-do/propnest/internal/client"
	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/mapview"
)

const usage = `usage: browse <command> [flags]

commands:
  signup    create an account and sign in
  login     sign in and remember the session
  logout    forget the session
  list      show listings (grid or map), optionally filtered
  add       add a listing (owners)
  contact   send an enquiry about a listing
  inbox     show enquiries addressed to you (owners)
`

// app carries what every command needs.
type app struct {
	api    *client.Client
	maps   mapview.Renderer
	stdout io.Writer
	stderr io.Writer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session := client.NewSession(client.FileSessionStore{Path: cfg.SessionFile})
	if err := session.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "could not read session: %v\n", err)
	}

	a := &app{
		api:    client.New(cfg.BackendURL, session),
		maps:   mapview.Renderer{Origin: cfg.BackendURL, Placeholder: cfg.PlaceholderImage},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "list":
		return a.list(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "contact":
		return a.contact(ctx, args)
	case "inbox":
		return a.inbox(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}
