package main

import (
	"context"
	"database/sql"
	"delivery-tracker/internal/adapters/cache"
	"delivery-tracker/internal/adapters/channel"
	"delivery-tracker/internal/adapters/deliveryapi"
	"delivery-tracker/internal/adapters/geocode"
	"delivery-tracker/internal/adapters/location"
	"delivery-tracker/internal/adapters/mapview"
	"delivery-tracker/internal/adapters/store"
	"delivery-tracker/internal/api"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/notify"
	"delivery-tracker/internal/platform/db"
	"delivery-tracker/internal/platform/httpx"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/services"
	"delivery-tracker/internal/session"
	"delivery-tracker/internal/state"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// app holds the wired adapters and flows of one tracker process.
type app struct {
	session  *session.Session
	route    *state.ActiveRoute
	book     *state.PackageBook
	surface  *mapview.GeoJSONSurface
	notes    *notify.Recorder
	notifier ports.Notifier

	auth        *services.Auth
	linker      *services.Linker
	starter     *services.Starter
	loader      *services.Loader
	progression *services.Progression
	tracker     *services.Tracker

	status  *http.Server
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (_ *app, err error) {
	a := &app{
		route:   state.NewActiveRoute(),
		book:    state.NewPackageBook(),
		surface: mapview.NewGeoJSONSurface(cfg.MapOutput),
		notes:   notify.NewRecorder(100),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.notifier = notify.Multi{
		notify.NewConsole(os.Stdout, logrus.StandardLogger()),
		a.notes,
	}

	localDB, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, localDB.Close)
	if err := store.InitSqliteSchema(localDB); err != nil {
		return nil, err
	}

	sessions, err := a.sessionStore(ctx, cfg, localDB)
	if err != nil {
		return nil, err
	}
	a.session = session.New(sessions)

	addresses, err := a.addressCache(cfg, localDB)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: httpx.NewLoggingTransport(http.DefaultTransport),
	}

	var geocoder ports.Geocoder = geocode.CoordinateGeocoder{}
	if cfg.ORSAPIKey != "" {
		ors, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, httpClient)
		if err != nil {
			return nil, err
		}
		geocoder = geocode.NewCached(ors, addresses)
	}

	client := deliveryapi.NewClient(cfg.APIBaseURL, httpClient, a.session)

	var ch ports.Channel
	switch cfg.ChannelTransport {
	case "amqp":
		ch = channel.NewAMQPChannel(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		ch = channel.NewWebSocketChannel(cfg.ChannelURL, nil)
	}

	provider := location.NewStreamProvider(cfg.LocationDevice)
	simOrigin := domain.Coordinates{Lat: cfg.SimOriginLat, Lng: cfg.SimOriginLng}

	a.auth = services.NewAuth(client, a.session, a.route, a.book, a.notifier)
	a.linker = services.NewLinker(client, a.book, a.notifier)
	a.starter = services.NewStarter(client, a.book, a.session, provider, simOrigin, a.notifier)
	a.loader = services.NewLoader(client, a.route, a.book, a.session, a.surface, geocoder)
	a.progression = services.NewProgression(client, a.book, a.route, a.session, a.notifier)
	a.tracker = services.NewTracker(
		a.session,
		a.route,
		ch,
		services.NewBroadcaster(a.surface, ch),
		provider,
		a.notifier,
		nil,
	)
	a.closers = append(a.closers, a.tracker.Close)

	if cfg.StatusAddr != "" {
		a.serveStatus(cfg.StatusAddr)
	}
	return a, nil
}

func (a *app) sessionStore(ctx context.Context, cfg config.Config, localDB *sql.DB) (ports.SessionStore, error) {
	if cfg.SessionBackend != "redis" {
		return store.NewSqliteSessionStore(localDB), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	a.closers = append(a.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session store: ping redis %s: %w", cfg.RedisAddr, err)
	}
	return store.NewRedisSessionStore(rdb, ""), nil
}

// addressCache prefers the shared Postgres cache when DATABASE_URL is set.
func (a *app) addressCache(cfg config.Config, localDB *sql.DB) (ports.AddressCache, error) {
	if cfg.DatabaseURL == "" {
		return cache.NewSqliteAddressCache(localDB), nil
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pg.Close)
	if err := store.InitPostgresSchema(pg); err != nil {
		return nil, err
	}
	return cache.NewSQLAddressCache(pg), nil
}

func (a *app) serveStatus(addr string) {
	a.status = &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(a.book, a.route, a.surface, a.notes),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("status endpoint listening")
		if err := a.status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("status endpoint")
		}
	}()
}

// Close releases everything newApp opened, last opened first.
func (a *app) Close() error {
	var errs []error
	if a.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.status.Shutdown(ctx))
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
