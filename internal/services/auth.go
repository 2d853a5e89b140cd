package services

import (
	"context"
	"delivery-tracker/internal/platform/httpx"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// DriverSessions stores and drops the signed-in driver.
type DriverSessions interface {
	SignIn(ctx context.Context, ds ports.DriverSession) error
	SignOut(ctx context.Context) error
}

// Auth signs drivers in and out. Signing out drops the session-scoped state.
type Auth struct {
	api      ports.AuthAPI
	sessions DriverSessions
	route    *state.ActiveRoute
	book     *state.PackageBook
	notifier ports.Notifier
}

func NewAuth(
	api ports.AuthAPI,
	sessions DriverSessions,
	route *state.ActiveRoute,
	book *state.PackageBook,
	notifier ports.Notifier,
) *Auth {
	return &Auth{
		api:      api,
		sessions: sessions,
		route:    route,
		book:     book,
		notifier: notifier,
	}
}

func (a *Auth) SignIn(ctx context.Context, creds ports.Credentials) (ports.DriverSession, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		a.notifier.Toast(ports.SeverityWarning, "Enter your email and password.")
		return ports.DriverSession{}, fmt.Errorf("sign in: %w", ErrNotSignedIn)
	}

	ds, err := a.api.Login(ctx, creds)
	if err != nil {
		if httpx.HasStatus(err, http.StatusUnauthorized) || httpx.HasStatus(err, http.StatusBadRequest) {
			a.notifier.Toast(ports.SeverityError, "Invalid email or password.")
		} else {
			a.notifier.Toast(ports.SeverityError, "Could not sign in. Try again.")
		}
		return ports.DriverSession{}, fmt.Errorf("sign in %s: %w", creds.Email, err)
	}

	if err := a.sessions.SignIn(ctx, ds); err != nil {
		a.notifier.Toast(ports.SeverityError, "Could not save your session.")
		return ports.DriverSession{}, fmt.Errorf("sign in %s: %w", creds.Email, err)
	}

	logrus.WithField("driver_id", ds.DriverID).Info("driver signed in")
	a.notifier.Toast(ports.SeveritySuccess, fmt.Sprintf("Welcome, %s.", ds.Name))
	return ds, nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	a.route.Clear()
	a.book.Clear()
	if err := a.sessions.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	logrus.Info("driver signed out")
	return nil
}
