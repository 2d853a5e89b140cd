package session

import (
	"context"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Keys persisted in the session store.
const (
	KeyToken          = "token"
	KeyName           = "name"
	KeyDriverID       = "id"
	KeySimulationMode = "simulationMode"
	KeyRoute          = "route"
)

// Session is the driver's persisted login and preferences.
type Session struct {
	store ports.SessionStore
	now   func() time.Time
}

func New(store ports.SessionStore) *Session {
	return &Session{store: store, now: time.Now}
}

// SignIn stores the result of a successful login.
func (s *Session) SignIn(ctx context.Context, ds ports.DriverSession) error {
	values := [][2]string{
		{KeyToken, ds.AccessToken},
		{KeyName, ds.Name},
		{KeyDriverID, ds.DriverID},
	}
	for _, kv := range values {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("sign in: store %s: %w", kv[0], err)
		}
	}
	return nil
}

// SignOut removes the login data. The simulation preference is kept.
func (s *Session) SignOut(ctx context.Context) error {
	for _, key := range []string{KeyToken, KeyName, KeyDriverID, KeyRoute} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("sign out: delete %s: %w", key, err)
		}
	}
	return nil
}

// Token returns the stored access token, or "" when signed out.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.get(ctx, KeyToken)
}

// ClearToken drops the access token after the API rejected it.
func (s *Session) ClearToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Authenticated reports whether a token is stored and not expired. Tokens
// that do not parse as JWTs, or carry no exp claim, count as valid: the
// API is the authority and answers 401 when it disagrees.
func (s *Session) Authenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true, nil
	}
	return s.now().Before(exp.Time), nil
}

func (s *Session) DriverID(ctx context.Context) (string, error) {
	return s.get(ctx, KeyDriverID)
}

func (s *Session) DriverName(ctx context.Context) (string, error) {
	return s.get(ctx, KeyName)
}

// SimulationMode returns the stored preference, true when never set.
func (s *Session) SimulationMode(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, KeySimulationMode)
	if err != nil {
		return false, err
	}
	if v == "" {
		return true, nil
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return true, nil
	}
	return on, nil
}

func (s *Session) SetSimulationMode(ctx context.Context, on bool) error {
	if err := s.store.Set(ctx, KeySimulationMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("set simulation mode: %w", err)
	}
	return nil
}

// ToggleSimulationMode flips the preference and returns the new value.
func (s *Session) ToggleSimulationMode(ctx context.Context) (bool, error) {
	on, err := s.SimulationMode(ctx)
	if err != nil {
		return false, err
	}
	if err := s.SetSimulationMode(ctx, !on); err != nil {
		return false, err
	}
	return !on, nil
}

func (s *Session) RouteID(ctx context.Context) (string, error) {
	return s.get(ctx, KeyRoute)
}

func (s *Session) SetRouteID(ctx context.Context, routeID string) error {
	if err := s.store.Set(ctx, KeyRoute, routeID); err != nil {
		return fmt.Errorf("set route: %w", err)
	}
	return nil
}

func (s *Session) ClearRouteID(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyRoute); err != nil {
		return fmt.Errorf("clear route: %w", err)
	}
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, ports.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	return v, nil
}
