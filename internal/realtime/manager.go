package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/auth"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/metrics"
)

// Transport opens the underlying push connection. Implementations own retry
// policy; the manager only tracks connected state.
type Transport interface {
	Open(ctx context.Context, credential, businessID string) (Conn, error)
}

// Conn is one live subscription. Events closes when the connection dies for
// any reason; Close must release the transport resource on every path.
type Conn interface {
	Events() <-chan Event
	Close() error
}

// Manager owns the realtime channel lifecycle: it connects only while a
// valid credential is present, tears down and redials on credential change,
// and forwards every inbound event to the order store's merge API without
// further business logic. Connection failures never reach callers as errors;
// the state flag is the only signal, and the store's idempotent merges
// self-heal once events flow again.
type Manager struct {
	transport Transport
	store     *orders.Store
	logg      *logger.Logger
	sync      *metrics.SyncMetrics
	jwtCfg    config.JWTConfig

	mu         sync.Mutex
	state      enums.ChannelState
	credential *auth.Credential
	businessID string
	conn       Conn
	generation uint64
	attempts   uint64
}

// NewManager builds a disconnected channel manager.
func NewManager(transport Transport, store *orders.Store, jwtCfg config.JWTConfig, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Manager, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport required")
	}
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Manager{
		transport: transport,
		store:     store,
		logg:      logg,
		sync:      syncMetrics,
		jwtCfg:    jwtCfg,
		state:     enums.ChannelStateDisconnected,
	}, nil
}

// State reports the externally observable channel state.
func (m *Manager) State() enums.ChannelState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetCredential swaps the credential. A live connection is torn down and
// re-established with the new credential; rotation without reconnect is not
// supported. A nil credential disconnects and stays down.
func (m *Manager) SetCredential(ctx context.Context, credential *auth.Credential) {
	m.mu.Lock()
	m.credential = credential
	m.teardownLocked()
	m.mu.Unlock()

	m.Connect(ctx)
}

// SetBusiness repoints the subscription at another business. Any previous
// subscription is closed first; nothing carries over.
func (m *Manager) SetBusiness(ctx context.Context, businessID string) {
	m.mu.Lock()
	m.businessID = businessID
	m.teardownLocked()
	m.mu.Unlock()

	m.Connect(ctx)
}

// Connect attempts to open the channel. Missing or expired credentials keep
// the manager disconnected without dialing; dial failures surface only
// through State.
func (m *Manager) Connect(ctx context.Context) {
	m.mu.Lock()
	if m.state != enums.ChannelStateDisconnected {
		m.mu.Unlock()
		return
	}
	credential := m.credential
	businessID := m.businessID
	if businessID == "" || !credential.Valid(m.jwtCfg, time.Now()) {
		m.mu.Unlock()
		return
	}
	m.state = enums.ChannelStateConnecting
	m.generation++
	generation := m.generation
	m.attempts++
	if m.attempts > 1 {
		m.sync.IncReconnect()
	}
	m.mu.Unlock()

	logCtx := m.logg.WithBusinessID(ctx, businessID)
	conn, err := m.transport.Open(ctx, credential.Token, businessID)

	m.mu.Lock()
	if m.generation != generation {
		// Superseded while dialing: a newer connect owns the state.
		m.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		m.state = enums.ChannelStateDisconnected
		m.mu.Unlock()
		m.logg.Warn(m.logg.WithField(logCtx, "error", err.Error()), "realtime channel dial failed")
		return
	}
	m.conn = conn
	m.state = enums.ChannelStateConnected
	m.mu.Unlock()

	m.logg.Info(logCtx, "realtime channel connected")
	go m.pump(logCtx, conn, generation)
}

// Close disconnects and releases the transport resource.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.generation++
	m.state = enums.ChannelStateDisconnected
}

func (m *Manager) pump(ctx context.Context, conn Conn, generation uint64) {
	for event := range conn.Events() {
		// A superseded connection must never write to the store; events
		// still buffered at teardown are dropped, not routed.
		if !m.current(generation) {
			break
		}
		m.route(ctx, event)
	}

	m.mu.Lock()
	if m.generation == generation {
		m.conn = nil
		m.state = enums.ChannelStateDisconnected
		m.mu.Unlock()
		m.logg.Warn(ctx, "realtime channel dropped")
		return
	}
	m.mu.Unlock()
}

func (m *Manager) current(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == generation
}

// route maps one event onto the store's merge API. The manager is a
// transport adapter, not a decision point: no business logic lives here.
func (m *Manager) route(ctx context.Context, event Event) {
	m.sync.IncEventRouted(event.Type.String())

	switch event.Type {
	case enums.EventOrderCreated, enums.EventOrderUpdated:
		if event.Order == nil {
			m.logg.Warn(ctx, "order event without payload dropped")
			return
		}
		m.store.UpsertOne(*event.Order)
	case enums.EventOrderRemoved:
		m.store.Remove(event.OrderID)
	case enums.EventOrdersByStatus:
		m.store.UpsertByStatus(event.Orders, event.Status)
	default:
		m.logg.Warn(m.logg.WithField(ctx, "event_type", event.Type.String()), "unknown realtime event dropped")
	}
}
