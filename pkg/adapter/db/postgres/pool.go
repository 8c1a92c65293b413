package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a bounded set of PostgreSQL connections. The Conn
// method claims one dedicated connection for the duration of its
// handler, waiting at most the configured acquire timeout when all
// slots are busy and failing with a cerr.ResourceExhausted error when
// that wait elapses fruitlessly.
type Pool struct {
	db  *gorm.DB // root handle over the driver-level pool
	sdb *sql.DB  // driver-level pool enforcing the max conns cap

	glog           logger.Interface
	acquireTimeout time.Duration
}

type options struct {
	maxConns        int
	acquireTimeout  time.Duration
	connMaxLifetime time.Duration
}

// Option is a functional option for the NewPool function.
type Option func(o *options) error

// WithMaxConns option bounds the pool at the given count of
// simultaneously open connections. In absence of this option, at most
// five connections will be opened.
func WithMaxConns(count int) Option {
	return func(o *options) error {
		if count <= 0 {
			return fmt.Errorf("max conns (%d) is not positive", count)
		}
		if o.maxConns != 0 {
			return errors.New("max conns is already configured")
		}
		o.maxConns = count
		return nil
	}
}

// WithAcquireTimeout option bounds the duration which an acquisition
// may wait for a free connection slot before giving up with a
// cerr.ResourceExhausted error. In absence of this option, a five
// seconds timeout is applied.
func WithAcquireTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("acquire timeout (%v) is not positive", d)
		}
		if o.acquireTimeout != 0 {
			return errors.New("acquire timeout is already configured")
		}
		o.acquireTimeout = d
		return nil
	}
}

// WithConnMaxLifetime option asks the pool to retire connections
// which are older than the given duration, redialing fresh ones as
// needed. In absence of this option, connections are kept as long as
// they stay healthy.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("conn max lifetime (%v) is not positive", d)
		}
		if o.connMaxLifetime != 0 {
			return errors.New("conn max lifetime is already configured")
		}
		o.connMaxLifetime = d
		return nil
	}
}

// NewPool connects to the url PostgreSQL database and returns a Pool
// over it, after verifying with a no-op acquisition that the database
// answers and a connection slot can be claimed.
func NewPool(ctx context.Context, url string, opts ...Option) (*Pool, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if o.maxConns == 0 {
		o.maxConns = 5
	}
	if o.acquireTimeout == 0 {
		o.acquireTimeout = 5 * time.Second
	}
	glog := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		},
	)
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: glog,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing driver-level pool: %w", err)
	}
	sdb.SetMaxOpenConns(o.maxConns)
	sdb.SetMaxIdleConns(o.maxConns)
	if o.connMaxLifetime > 0 {
		sdb.SetConnMaxLifetime(o.connMaxLifetime)
	}
	pool := &Pool{
		db:  gdb,
		sdb: sdb,

		glog:           glog,
		acquireTimeout: o.acquireTimeout,
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn claims one dedicated connection, binds a GORM session to it,
// and runs the f handler with the wrapping Conn instance. The claimed
// connection is released again when f returns, on every path
// including panic unwinding. A connection which broke while serving f
// is discarded by the driver-level pool instead of being released
// into rotation.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	sc, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer sc.Close()
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sc}), &gorm.Config{
		Logger:               p.glog,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return fmt.Errorf("binding gorm session: %w", err)
	}
	return f(ctx, &Conn{DB: gdb})
}

// acquire claims one dedicated connection from the driver-level pool,
// waiting at most the configured acquire timeout when all slots are
// busy. A wait which this timeout interrupts reports pool saturation,
// while a caller-side cancellation keeps its own error.
func (p *Pool) acquire(ctx context.Context) (*sql.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()
	sc, err := p.sdb.Conn(actx)
	if err == nil {
		return sc, nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, cerr.ResourceExhausted(fmt.Errorf(
			"db pool: no free connection within %v: %w",
			p.acquireTimeout, err,
		))
	}
	return nil, fmt.Errorf("acquiring connection: %w", err)
}

func (p *Pool) Close() error {
	return p.sdb.Close()
}
