package mongo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"

	"github.com/leadpoint/site-api/internal/core/domain"
)

const (
	hookTimeout       = 30 * time.Second
	hookRetryInterval = 30 * time.Second
)

// Dialer opens a client and selects the database.
type Dialer func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error)

// Hook runs after the first successful connection. A failed hook is run
// again by a later Connect until it succeeds.
type Hook func(ctx context.Context, db *mongo.Database) error

// DatabaseProvider hands out the shared database handle.
type DatabaseProvider interface {
	Connect(ctx context.Context) (*mongo.Database, error)
}

type namedHook struct {
	name string
	fn   Hook
}

// Connector lazily opens one shared connection per process. Concurrent
// callers wait on the same attempt; a failed attempt is forgotten so the
// next call dials again.
type Connector struct {
	cfg     Config
	dial    Dialer
	log     zerolog.Logger
	observe func(outcome string)
	now     func() time.Time

	group singleflight.Group

	mu           sync.RWMutex
	client       *mongo.Client
	db           *mongo.Database
	pending      []namedHook
	hooksRunning bool
	retryAt      time.Time
}

type ConnectorOption func(*Connector)

// WithDialer replaces Connect, mainly for tests.
func WithDialer(d Dialer) ConnectorOption {
	return func(c *Connector) { c.dial = d }
}

// WithAttemptObserver is called with "success" or "failure" after every
// dial.
func WithAttemptObserver(fn func(outcome string)) ConnectorOption {
	return func(c *Connector) { c.observe = fn }
}

func NewConnector(cfg Config, log zerolog.Logger, opts ...ConnectorOption) *Connector {
	c := &Connector{
		cfg:     cfg,
		dial:    Connect,
		log:     log,
		observe: func(string) {},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnFirstConnect registers fn to run after the first successful
// connection. Hooks run in registration order. A failing hook is logged,
// does not fail the connection and is retried at most every
// hookRetryInterval.
func (c *Connector) OnFirstConnect(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, namedHook{name: name, fn: fn})
}

// Connect returns the shared database, dialing on first use. Dial errors
// wrap domain.ErrDatabaseUnavailable. A caller whose ctx ends stops
// waiting, while the attempt itself runs to completion for the others.
func (c *Connector) Connect(ctx context.Context) (*mongo.Database, error) {
	if db, ready := c.ready(); ready {
		return db, nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		return c.connect(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Database), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Connector) connect(ctx context.Context) (*mongo.Database, error) {
	db := c.database()
	if db == nil {
		client, fresh, err := c.dial(ctx, c.cfg)
		if err != nil {
			c.observe("failure")
			c.log.Error().Err(err).Msg("mongo connection failed")
			return nil, fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
		}
		c.observe("success")
		c.log.Info().Str("database", fresh.Name()).Msg("mongo connected")

		// Publish the handle before running hooks: hooks call back into
		// Connect and must hit the fast path.
		c.mu.Lock()
		c.client, c.db = client, fresh
		c.mu.Unlock()
		db = fresh
	}

	c.mu.Lock()
	hooks := c.pending
	c.hooksRunning = len(hooks) > 0
	c.mu.Unlock()

	if len(hooks) > 0 {
		failed := c.runHooks(ctx, db, hooks)

		c.mu.Lock()
		c.pending = append(failed, c.pending[len(hooks):]...)
		c.hooksRunning = false
		if len(failed) > 0 {
			c.retryAt = c.now().Add(hookRetryInterval)
		}
		c.mu.Unlock()
	}
	return db, nil
}

// runHooks returns the hooks that failed.
func (c *Connector) runHooks(ctx context.Context, db *mongo.Database, hooks []namedHook) []namedHook {
	var failed []namedHook
	for _, h := range hooks {
		hctx, cancel := context.WithTimeout(ctx, hookTimeout)
		err := h.fn(hctx, db)
		cancel()
		if err != nil {
			c.log.Error().Err(err).Str("hook", h.name).Msg("first-connect hook failed")
			failed = append(failed, h)
			continue
		}
		c.log.Debug().Str("hook", h.name).Msg("first-connect hook done")
	}
	return failed
}

// Ping checks the live connection, dialing first if needed. It fails while
// any first-connect hook has not yet succeeded.
func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	if err := db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}
	if names := c.PendingHooks(); len(names) > 0 {
		return fmt.Errorf("%w: first-connect hooks pending: %s", domain.ErrDatabaseUnavailable, strings.Join(names, ", "))
	}
	return nil
}

// PendingHooks names the hooks that have not succeeded yet.
func (c *Connector) PendingHooks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.pending))
	for _, h := range c.pending {
		names = append(names, h.name)
	}
	return names
}

// Disconnect closes the shared client. Hooks that already succeeded do not
// run again on a later Connect.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client, c.db = nil, nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// ready reports whether Connect can return the handle without entering the
// single-flight group: connected, and no hook is due for a retry. While
// hooks run they reach Connect themselves, so that counts as ready too.
func (c *Connector) ready() (*mongo.Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, false
	}
	if len(c.pending) == 0 || c.hooksRunning || c.now().Before(c.retryAt) {
		return c.db, true
	}
	return c.db, false
}

func (c *Connector) database() *mongo.Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
