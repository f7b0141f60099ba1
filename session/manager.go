package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-console/internal/config"
	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/jrsteele09/go-auth-console/token/jwt"
	"github.com/jrsteele09/go-auth-console/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// AuthService issues, renews and revokes access tokens.
type AuthService interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
	Renew(ctx context.Context, currentToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

// IdentityService resolves the user behind an access token.
type IdentityService interface {
	Me(ctx context.Context, accessToken string) (*users.User, error)
}

// TokenStore persists the access token. Get returns apperrors.ErrNotFound
// when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

type Option func(*Manager)

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

func WithClock(clock Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithCallTimeout bounds each renewal and identity call made on behalf of a
// caller.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.callTimeout = d
	}
}

const defaultCallTimeout = 15 * time.Second

// Manager owns the access token of a single console session. It installs
// tokens, resolves their identity, renews them ahead of expiry and drops to
// LoggedOut whenever renewal or identity resolution fails.
//
// Every token change bumps a generation counter. Timers, renewals and
// identity fetches remember the generation they started under and their
// results are discarded once it has moved on.
type Manager struct {
	auth        AuthService
	identity    IdentityService
	store       TokenStore
	clock       Clock
	lead        time.Duration
	callTimeout time.Duration
	limiter     *rate.Limiter
	log         zerolog.Logger

	// background bounds renewals started by timers; cancelled by Close.
	background context.Context
	cancel     context.CancelFunc

	mu          sync.Mutex
	token       string
	user        *users.User
	generation  uint64
	timer       Timer
	renewAt     time.Time
	subscribers map[int]chan Snapshot
	nextSubID   int
	closed      bool
}

func NewManager(auth AuthService, identity IdentityService, store TokenStore, cfg config.SessionConfig, opts ...Option) *Manager {
	burst := cfg.GetImmediateRenewalBurst()
	if burst < 1 {
		burst = 1
	}

	m := &Manager{
		auth:        auth,
		identity:    identity,
		store:       store,
		clock:       realClock{},
		lead:        cfg.GetRenewalLead(),
		callTimeout: defaultCallTimeout,
		limiter:     rate.NewLimiter(rate.Every(cfg.GetImmediateRenewalInterval()), burst),
		log:         log.Logger.With().Str("component", "session").Logger(),
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.background, m.cancel = context.WithCancel(context.Background())
	return m
}

// Restore seeds the session from the token store. An empty store leaves the
// session logged out.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Get(ctx)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrapf(err, "restore session")
	}
	m.log.Debug().Msg("restoring persisted session")
	_ = m.install(ctx, token, false)
	return nil
}

// Login exchanges credentials for a token and installs it. A rejected login
// returns the backend error and leaves any existing session untouched. When
// the token is accepted but its identity cannot be resolved, Login still
// returns nil and the session ends up LoggedOut.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.auth.IssueToken(ctx, username, password)
	if err != nil {
		m.log.Info().Err(err).Str("username", username).Msg("login rejected")
		return err
	}
	_ = m.install(ctx, token, false)
	return nil
}

// LoginWithToken installs a token obtained elsewhere, such as a third-party
// login redirect.
func (m *Manager) LoginWithToken(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		m.log.Warn().Msg("ignoring empty token")
		return
	}
	_ = m.install(ctx, token, false)
}

// Renew trades the current token for a fresh one. Any failure ends the
// session. A result that arrives after the session has moved on is dropped
// and ErrSessionSuperseded returned.
func (m *Manager) Renew(ctx context.Context) (string, error) {
	m.mu.Lock()
	token, generation := m.token, m.generation
	m.mu.Unlock()

	if token == "" {
		return "", apperrors.ErrNoSession
	}
	return m.renew(ctx, generation, token)
}

// Logout clears the local session first and then tells the backend. Backend
// failures are logged only.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.clearLocked(ctx)
	m.mu.Unlock()

	if token == "" {
		return
	}
	if err := m.auth.Logout(ctx, token); err != nil {
		m.log.Warn().Err(err).Msg("backend logout failed; local session cleared anyway")
		return
	}
	m.log.Info().Msg("logged out")
}

// Close stops the renewal timer and abandons in-flight background work. The
// persisted token is kept so the session can be restored later.
func (m *Manager) Close() {
	m.mu.Lock()
	m.generation++
	m.stopTimerLocked()
	m.closed = true
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	m.mu.Unlock()
	m.cancel()
}

// Subscribe returns a channel that always holds the latest Snapshot. Slow
// readers skip intermediate states. The returned func unsubscribes.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	offer(ch, m.snapshotLocked())

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(c)
		}
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) State() State {
	return m.Snapshot().State
}

func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) Identity() *users.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == LoggedIn
}

func (m *Manager) HasRole(name string) bool {
	return m.Identity().HasRole(name)
}

func (m *Manager) HasPermission(authority string) bool {
	return m.Identity().HasPermission(authority)
}

// install makes token current and resolves its identity. keepIdentity leaves
// the previous identity visible while the new one loads.
func (m *Manager) install(ctx context.Context, token string, keepIdentity bool) error {
	m.mu.Lock()
	m.replaceTokenLocked(ctx, token, keepIdentity)
	generation := m.generation
	m.mu.Unlock()

	return m.resolveIdentity(ctx, generation, token)
}

// detach keeps ctx's values but not its cancellation, so a caller that goes
// away mid-call cannot end the session. The call is still bounded by the call
// timeout and by Close.
func (m *Manager) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.callTimeout)
	stop := context.AfterFunc(m.background, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

func (m *Manager) resolveIdentity(ctx context.Context, generation uint64, token string) error {
	callCtx, cancel := m.detach(ctx)
	user, err := m.identity.Me(callCtx, token)
	cancel()
	if err == nil && user == nil {
		err = errors.New("empty identity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		m.log.Debug().Msg("discarding identity for a superseded token")
		return apperrors.ErrSessionSuperseded
	}
	if err != nil {
		m.clearLocked(ctx)
		m.log.Warn().Err(err).Msg("identity could not be resolved; session invalidated")
		return fmt.Errorf("%w: %w", apperrors.ErrIdentityUnavailable, err)
	}

	m.user = user
	m.notifyLocked()
	return nil
}

func (m *Manager) renew(ctx context.Context, generation uint64, current string) (string, error) {
	logger := m.log.With().Str("attempt", uuid.NewString()).Logger()
	logger.Debug().Msg("renewing access token")

	callCtx, cancel := m.detach(ctx)
	renewed, err := m.auth.Renew(callCtx, current)
	cancel()

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		logger.Debug().Msg("discarding renewal result for a superseded token")
		return "", apperrors.ErrSessionSuperseded
	}
	if err != nil {
		m.clearLocked(ctx)
		m.mu.Unlock()
		logger.Warn().Err(err).Msg("token renewal failed; session invalidated")
		return "", fmt.Errorf("%w: %w", apperrors.ErrRenewalFailed, err)
	}
	m.replaceTokenLocked(ctx, renewed, true)
	newGeneration := m.generation
	m.mu.Unlock()

	logger.Info().Msg("access token renewed")
	if err := m.resolveIdentity(ctx, newGeneration, renewed); err != nil {
		return "", err
	}
	return renewed, nil
}

// runRenewal is the body of the renewal timer.
func (m *Manager) runRenewal(generation uint64) {
	m.mu.Lock()
	if generation != m.generation || m.token == "" {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.renewAt = time.Time{}
	token := m.token
	m.mu.Unlock()

	_, _ = m.renew(m.background, generation, token)
}

func (m *Manager) replaceTokenLocked(ctx context.Context, token string, keepIdentity bool) {
	m.generation++
	m.stopTimerLocked()
	m.token = token
	if !keepIdentity {
		m.user = nil
	}
	if err := m.store.Set(context.WithoutCancel(ctx), token); err != nil {
		m.log.Error().Err(err).Msg("failed to persist access token")
	}
	m.armRenewalLocked(token)
	m.notifyLocked()
}

func (m *Manager) clearLocked(ctx context.Context) {
	m.generation++
	m.stopTimerLocked()
	m.token = ""
	m.user = nil
	if err := m.store.Remove(context.WithoutCancel(ctx)); err != nil {
		m.log.Error().Err(err).Msg("failed to remove persisted access token")
	}
	m.notifyLocked()
}

// armRenewalLocked schedules renewal lead before the token's exp. Overdue
// tokens are renewed right away unless the limiter says otherwise, in which
// case the renewal waits for the limiter.
func (m *Manager) armRenewalLocked(token string) {
	exp, ok := jwt.ExpiresAt(token)
	if !ok {
		m.log.Warn().Msg("access token has no expiry; it will not be renewed automatically")
		return
	}

	generation := m.generation
	now := m.clock.Now()
	delay := exp.Add(-m.lead).Sub(now)

	if delay <= 0 {
		reservation := m.limiter.ReserveN(now, 1)
		wait := reservation.DelayFrom(now)
		if wait == 0 {
			m.log.Info().Time("expires_at", exp).Msg("access token due for renewal; renewing now")
			go m.runRenewal(generation)
			return
		}
		if !reservation.OK() {
			wait = m.lead
		}
		m.log.Warn().Dur("delay", wait).Msg("immediate renewals throttled; delaying renewal")
		delay = wait
	}

	m.renewAt = now.Add(delay)
	m.timer = m.clock.AfterFunc(delay, func() { m.runRenewal(generation) })
	m.log.Debug().Time("renew_at", m.renewAt).Time("expires_at", exp).Msg("renewal scheduled")
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.renewAt = time.Time{}
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		AccessToken: m.token,
		Identity:    m.user,
		RenewAt:     m.renewAt,
	}
	switch {
	case m.token == "":
		snap.State = LoggedOut
	case m.user == nil:
		snap.State = TokenPending
	default:
		snap.State = LoggedIn
	}
	if exp, ok := jwt.ExpiresAt(m.token); ok {
		snap.ExpiresAt = exp
	}
	return snap
}

func (m *Manager) notifyLocked() {
	if len(m.subscribers) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, ch := range m.subscribers {
		offer(ch, snap)
	}
}

// offer replaces whatever is buffered in ch with snap.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
