package main

import (
	"bufio"
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/services"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
)

const consoleHelp = `commands:
  login <email> <password>   sign in
  logout                     sign out and drop the local route
  scan <code>                link a scanned package
  list                       show linked packages
  start                      start deliveries for the linked packages
  load                       load the active route
  track                      start position playback
  stop                       stop position playback
  next                       show the next stop
  complete                   mark the next stop delivered
  finish                     finish the active route
  addresses                  show the address of every stop
  nav                        print a navigation link for the route
  mode [sim|live]            show or switch the position mode
  quit                       exit`

// errQuit ends the console loop.
var errQuit = errors.New("quit")

// console reads driver commands line by line and runs them against the app.
type console struct {
	app *app
	out io.Writer
}

func (c *console) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	c.prompt()
	for sc.Scan() {
		if errors.Is(c.handle(ctx, sc.Text()), errQuit) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		c.prompt()
	}
	return sc.Err()
}

func (c *console) prompt() { fmt.Fprint(c.out, "> ") }

// handle runs one command. Failures the flow did not already report to the
// driver are turned into an error toast.
func (c *console) handle(ctx context.Context, line string) error {
	before := c.app.notes.Total()

	err := c.exec(ctx, line)
	if err == nil || errors.Is(err, errQuit) {
		return err
	}

	logrus.WithError(err).Warn("console command")
	if c.app.notes.Total() == before {
		c.app.notifier.Toast(ports.SeverityError, failureMessage(err))
	}
	return err
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrNoActiveRoute):
		return "No active route. Load your route first."
	case errors.Is(err, ports.ErrUnauthorized), errors.Is(err, services.ErrNotSignedIn):
		return "Your session expired. Sign in again."
	case errors.Is(err, services.ErrLocationPermissionDenied):
		return "Location permission denied."
	}
	return "Something went wrong: " + err.Error()
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "login":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "usage: login <email> <password>")
			return nil
		}
		_, err := c.app.auth.SignIn(ctx, ports.Credentials{Email: args[0], Password: args[1]})
		return err
	}

	ok, err := c.app.session.Authenticated(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.out, "sign in first: login <email> <password>")
		return nil
	}

	switch cmd {
	case "logout":
		c.app.tracker.Stop()
		if err := c.app.surface.Clear(); err != nil {
			logrus.WithError(err).Warn("clear map")
		}
		return c.app.auth.SignOut(ctx)
	case "scan":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "usage: scan <code>")
			return nil
		}
		_, err := c.app.linker.Link(ctx, args[0])
		return err
	case "list":
		c.list()
		return nil
	case "start":
		return c.app.starter.Start(ctx)
	case "load":
		route, err := c.app.loader.Load(ctx)
		if errors.Is(err, ports.ErrNoActiveRoute) {
			fmt.Fprintln(c.out, "no active route")
			return nil
		}
		if err != nil {
			c.app.notifier.Toast(ports.SeverityError, "Could not load the route.")
			return err
		}
		fmt.Fprintf(c.out, "route %s loaded: %d stops\n", route.ID, len(route.Legs))
		return nil
	case "track":
		return c.app.tracker.Start(ctx)
	case "stop":
		c.app.tracker.Stop()
		return nil
	case "next":
		p, ok := c.app.progression.Next()
		if !ok {
			fmt.Fprintln(c.out, "no stop left")
			return nil
		}
		fmt.Fprintf(c.out, "next: %s at %s\n", p.ID, p.Destination)
		return nil
	case "complete":
		res, err := c.app.progression.CompleteNext(ctx)
		if err != nil {
			return err
		}
		if res.RouteFinished {
			c.routeDone()
		}
		return nil
	case "finish":
		if err := c.app.progression.FinishRoute(ctx); err != nil {
			return err
		}
		c.routeDone()
		return nil
	case "addresses":
		for _, pa := range c.app.loader.Addresses(ctx) {
			fmt.Fprintf(c.out, "%-9s %s  %s\n", pa.Stage, pa.Package.ID, pa.Address)
		}
		return nil
	case "nav":
		route, ok := c.app.route.Get()
		if !ok {
			fmt.Fprintln(c.out, "no active route")
			return nil
		}
		u, err := c.app.surface.NavigationURL(route)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, u)
		return nil
	case "mode":
		return c.mode(ctx, args)
	}

	fmt.Fprintf(c.out, "unknown command %q, try help\n", cmd)
	return nil
}

func (c *console) list() {
	pkgs := c.app.book.Snapshot()
	if len(pkgs) == 0 {
		fmt.Fprintln(c.out, "no packages linked")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTAGE\tCLIENT\tDESTINATION")
	for i, stage := range domain.Stages(pkgs) {
		p := pkgs[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, stage, p.ClientName, p.Destination)
	}
	tw.Flush()
}

func (c *console) mode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		sim, err := c.app.session.SimulationMode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, modeName(sim))
		return nil
	}

	var on bool
	switch strings.ToLower(args[0]) {
	case "sim", "simulation":
		on = true
	case "live":
		on = false
	default:
		fmt.Fprintln(c.out, "usage: mode [sim|live]")
		return nil
	}
	if err := c.app.tracker.SetSimulationMode(ctx, on); err != nil {
		return err
	}
	fmt.Fprintln(c.out, modeName(on))
	return nil
}

func (c *console) routeDone() {
	c.app.tracker.Stop()
	if err := c.app.surface.Clear(); err != nil {
		logrus.WithError(err).Warn("clear map")
	}
}

func modeName(sim bool) string {
	if sim {
		return "simulation"
	}
	return "live"
}
