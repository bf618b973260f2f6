// Package panel manages the open workflow panels, each owning its own form state.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/form"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/google/uuid"
)

// ErrPanelNotFound is returned for unknown, closed or expired panels.
var ErrPanelNotFound = errors.New("panel not found")

// DefaultIdleTimeout is how long a panel survives without any request.
const DefaultIdleTimeout = 30 * time.Minute

// Panel is one open form for one workflow.
type Panel struct {
	ID         string
	OpenedAt   time.Time
	form       *form.Controller
	lastActive atomic.Int64
}

// LastActive returns when the panel was last opened, read or changed.
func (p *Panel) LastActive() time.Time {
	return time.Unix(0, p.lastActive.Load()).UTC()
}

func (p *Panel) touch(now time.Time) {
	p.lastActive.Store(now.UnixNano())
}

// idle reports whether the panel expired. Panels with a submission in flight
// never expire.
func (p *Panel) idle(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 || now.Sub(p.LastActive()) < timeout {
		return false
	}

	return !p.form.Snapshot().Submitting
}

// Workflow returns the workflow shown by the panel.
func (p *Panel) Workflow() *models.Workflow {
	return p.form.Workflow()
}

// Form returns the controller holding the panel's form state.
func (p *Panel) Form() *form.Controller {
	return p.form
}

// Manager opens, looks up and closes panels. Panels never share form state.
type Manager struct {
	catalog  *catalog.Catalog
	executor execution.Executor
	notifier notify.Notifier
	logger   *slog.Logger

	idleTimeout time.Duration
	now         func() time.Time

	mu     sync.RWMutex
	panels map[string]*Panel
}

type Option func(*Manager)

// WithIdleTimeout sets how long a panel may go without requests before it is
// discarded. Zero or less keeps panels until they are closed.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.idleTimeout = timeout
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(
	catalog *catalog.Catalog,
	executor execution.Executor,
	notifier notify.Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		catalog:     catalog,
		executor:    executor,
		notifier:    notifier,
		logger:      logger.With("module", "panel_manager"),
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		panels:      make(map[string]*Panel),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Open creates a panel with empty values for the workflow. Coming-soon
// workflows open too, to show their placeholder, but cannot be submitted.
func (m *Manager) Open(workflowID string) (*Panel, error) {
	wf, err := m.catalog.Workflow(workflowID)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := m.now()
	p := &Panel{
		ID:       id,
		OpenedAt: now.UTC(),
		form:     form.NewController(id, wf, m.executor, m.notifier, m.logger),
	}
	p.touch(now)

	m.mu.Lock()
	m.panels[id] = p
	m.mu.Unlock()

	m.logger.Debug("Panel opened", "panel_id", id, "workflow_id", wf.ID)

	return p, nil
}

// Get returns an open panel and marks it active. An expired panel is
// discarded and reported as not found.
func (m *Manager) Get(id string) (*Panel, error) {
	m.mu.RLock()
	p, ok := m.panels[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}

	now := m.now()
	if p.idle(now, m.idleTimeout) {
		m.expire(p)

		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}

	p.touch(now)

	return p, nil
}

// Sweep discards every expired panel and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.RLock()
	expired := make([]*Panel, 0)

	for _, p := range m.panels {
		if p.idle(now, m.idleTimeout) {
			expired = append(expired, p)
		}
	}
	m.mu.RUnlock()

	for _, p := range expired {
		m.expire(p)
	}

	return len(expired)
}

// Run sweeps expired panels until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(max(m.idleTimeout/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.InfoContext(ctx, "Expired idle panels", "count", n)
			}
		}
	}
}

func (m *Manager) expire(p *Panel) {
	m.mu.Lock()
	current, ok := m.panels[p.ID]
	if ok && current == p {
		delete(m.panels, p.ID)
	}
	m.mu.Unlock()

	if ok && current == p {
		p.form.Reset()
		m.logger.Debug("Panel expired", "panel_id", p.ID, "last_active", p.LastActive())
	}
}

// List returns the open panels, oldest first.
func (m *Manager) List() []*Panel {
	m.Sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()

	panels := make([]*Panel, 0, len(m.panels))
	for _, p := range m.panels {
		panels = append(panels, p)
	}

	sort.Slice(panels, func(i, j int) bool {
		return panels[i].OpenedAt.Before(panels[j].OpenedAt)
	})

	return panels
}

// Close discards the panel and its form state. A submission already in flight
// is not aborted: it completes and still publishes its notification.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	p, ok := m.panels[id]
	delete(m.panels, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}

	p.form.Reset()
	m.logger.Debug("Panel closed", "panel_id", id)

	return nil
}

// SetField updates one field of an open panel.
func (m *Manager) SetField(id, fieldID string, value any) (form.State, error) {
	p, err := m.Get(id)
	if err != nil {
		return form.State{}, err
	}

	if err := p.form.SetField(fieldID, value); err != nil {
		return form.State{}, err
	}

	return p.form.Snapshot(), nil
}

// Validate recomputes the errors of an open panel.
func (m *Manager) Validate(id string) (models.ValidationErrors, error) {
	p, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	return p.form.Validate(), nil
}

// Submit sends the panel's form. The call is detached from ctx cancellation so
// a client going away mid-request behaves like closing the panel. A
// successful submission closes the panel.
func (m *Manager) Submit(ctx context.Context, id string) (*form.Outcome, error) {
	p, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	outcome, err := p.form.Submit(context.WithoutCancel(ctx))
	if err != nil {
		p.touch(m.now())

		return outcome, err
	}

	m.mu.Lock()
	delete(m.panels, id)
	m.mu.Unlock()

	return outcome, nil
}
