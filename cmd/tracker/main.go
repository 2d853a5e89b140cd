package main

import (
	"context"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/platform/logger"
	"delivery-tracker/internal/ports"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// main is the composition root of the driver tracker.
// It wires concrete adapters behind ports and runs one subcommand:
//
//	tracker [console]                     interactive driver console
//	tracker login -email E -password P    sign in and exit
//	tracker logout
//	tracker mode [sim|live]
func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	err = run(ctx, a, os.Args[1:])
	if cerr := a.Close(); cerr != nil {
		logrus.WithError(cerr).Warn("shutdown")
	}
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app, args []string) error {
	cmd := "console"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "console":
		if err := a.tracker.Open(ctx); err != nil {
			return err
		}
		c := &console{app: a, out: os.Stdout}
		fmt.Fprintln(os.Stdout, "type help for commands")
		return c.Run(ctx, os.Stdin)

	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		email := fs.String("email", "", "driver email")
		password := fs.String("password", os.Getenv("TRACKER_PASSWORD"), "driver password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		_, err := a.auth.SignIn(ctx, ports.Credentials{Email: *email, Password: *password})
		return err

	case "logout":
		return a.auth.SignOut(ctx)

	case "mode":
		c := &console{app: a, out: os.Stdout}
		return c.mode(ctx, args)
	}

	return fmt.Errorf("unknown command %q", cmd)
}
