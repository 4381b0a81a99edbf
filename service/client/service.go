package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/itiky/notes-sync/logger"
	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/state"
)

var ErrAlreadyStarted = errors.New("controller already started")

type (
	// Controller syncs the local State with the notes backend (Sync Controller).
	Controller struct {
		// Config
		session       model.SessionId // own writes marker
		policies      Policies
		monitorPeriod time.Duration
		// State
		store        *state.Store
		journal      *state.Journal
		awaitingEcho map[string]time.Time // own creates not yet seen via subscription
		listening    bool                 // awaitingEcho is only tracked with an active subscription
		echoMu       sync.Mutex
		//
		backend  Backend
		notifier Notifier
		monitor  *Monitor
		logger   *zap.Logger
		//
		runMu  sync.Mutex
		cancel context.CancelFunc
		doneCh chan struct{}
		runErr error
	}

	// Option configures the Controller.
	Option func(c *Controller)
)

// WithPolicies overrides per operation policies.
func WithPolicies(policies Policies) Option {
	return func(c *Controller) {
		for opType, policy := range policies {
			c.policies[opType] = policy
		}
	}
}

// WithNotifier sets the user facing messages receiver.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = log
	}
}

// WithMonitorPeriod enables periodic stats report.
func WithMonitorPeriod(period time.Duration) Option {
	return func(c *Controller) {
		c.monitorPeriod = period
	}
}

// WithInitialState sets the store initial state.
func WithInitialState(s state.State) Option {
	return func(c *Controller) {
		c.store = state.NewStore(s)
	}
}

// String implements the stringer interface.
func (c *Controller) String() string {
	return fmt.Sprintf("Controller (%s)", c.session)
}

// Session returns the own session id.
func (c *Controller) Session() model.SessionId {
	return c.session
}

// State returns the current State snapshot.
func (c *Controller) State() state.State {
	return c.store.State()
}

// Watch returns the State updates channel, see state.Store.Watch.
func (c *Controller) Watch() (<-chan state.State, func()) {
	return c.store.Watch()
}

// Monitor returns the controller stats.
func (c *Controller) Monitor() *Monitor {
	return c.monitor
}

// Start acquires the created notes subscription and starts the worker
// which fetches the notes list and merges subscription events until Stop.
func (c *Controller) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.doneCh != nil {
		return ErrAlreadyStarted
	}

	workerCtx, cancel := context.WithCancel(ctx)
	sub, err := c.backend.SubscribeCreatedNotes(workerCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe: %w", err)
	}

	c.echoMu.Lock()
	c.listening = true
	c.echoMu.Unlock()

	c.cancel = cancel
	c.doneCh = make(chan struct{})
	c.runErr = nil
	c.monitor.Start(c.monitorPeriod)
	go c.worker(workerCtx, cancel, c.doneCh, sub)

	return nil
}

// Stop releases the subscription and waits for the worker to finish.
// The Controller can be started again afterwards.
func (c *Controller) Stop() {
	c.runMu.Lock()
	cancel, doneCh := c.cancel, c.doneCh
	c.runMu.Unlock()

	if doneCh == nil {
		return
	}

	cancel()
	<-doneCh
}

// Done is closed once the worker finishes (Stop or subscription failure).
// A closed channel is returned if the Controller is not started.
func (c *Controller) Done() <-chan struct{} {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.doneCh == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}

	return c.doneCh
}

// Err returns the worker termination reason (nil on Stop).
func (c *Controller) Err() error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	return c.runErr
}

// worker does the actual job.
func (c *Controller) worker(ctx context.Context, cancel context.CancelFunc, doneCh chan struct{}, sub Subscription) {
	log := c.logger.With(zap.String(logger.FieldSession, c.session.String()))
	log.Debug("controller: start")

	err := c.listen(ctx, sub, func() {
		if err := c.FetchNotes(ctx); err != nil {
			log.Warn("controller: initial fetch", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		log.Error("controller: subscription", zap.Error(err))
	}
	log.Debug("controller: stop")

	c.echoMu.Lock()
	c.listening = false
	c.awaitingEcho = make(map[string]time.Time)
	c.echoMu.Unlock()

	cancel()

	c.runMu.Lock()
	c.runErr = err
	c.cancel, c.doneCh = nil, nil
	c.monitor.Stop()
	close(doneCh)
	c.runMu.Unlock()
}

// listen merges subscription events until the context is done or the subscription ends.
// The subscription is released on every exit path.
func (c *Controller) listen(ctx context.Context, sub Subscription, onReady func()) error {
	defer func() {
		if err := sub.Close(); err != nil {
			c.logger.Debug("subscription close", zap.Error(err))
		}
	}()

	if onReady != nil {
		onReady()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case note, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					return err
				}
				return ctx.Err()
			}
			c.mergeCreated(note)
		}
	}
}

// NewController creates a new Controller object.
func NewController(session model.SessionId, backend Backend, opts ...Option) (*Controller, error) {
	if session == "" {
		return nil, fmt.Errorf("%s: empty", "session")
	}
	if backend == nil {
		return nil, fmt.Errorf("%s: nil", "backend")
	}

	c := Controller{
		session:      session,
		policies:     DefaultPolicies(),
		store:        state.NewStore(state.InitialState()),
		journal:      state.NewJournal(),
		awaitingEcho: make(map[string]time.Time),
		backend:      backend,
		notifier:     NotifierFunc(func(string) {}),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.monitor = NewMonitor(c.logger, c.journal)

	return &c, nil
}
