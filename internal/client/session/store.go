package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// ErrBusy is returned by Refresh when another operation is in flight.
var ErrBusy = errors.New("session: operation in progress")

// Store is the single owner of the session State. It drives the session
// client, applies every outcome atomically and notifies subscribers after
// each change.
//
// Mutating operations are serialized: a call made while another one is in
// flight waits for it (or for its own ctx to end) before it enters Busy.
type Store struct {
	client   client.Client
	log      logging.Logger
	onLogout func(ctx context.Context)

	mu    sync.RWMutex
	state State
	once  *sync.Once
	guard *semaphore.Weighted

	subsMu sync.Mutex
	subs   map[uint64]func(State)
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLogoutHook registers fn to run after every Logout, whatever the
// outcome of the remote call. fn receives a context that is not cancelled
// with the caller's.
func WithLogoutHook(fn func(ctx context.Context)) Option {
	return func(s *Store) { s.onLogout = fn }
}

// NewStore constructs a Store in the Unresolved state.
func NewStore(c client.Client, opts ...Option) *Store {
	s := &Store{
		client: c,
		log:    logging.NewNop(),
		state:  unresolved(),
		once:   &sync.Once{},
		guard:  semaphore.NewWeighted(1),
		subs:   make(map[uint64]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns a copy of the current state. The User in the copy is
// detached from the store.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// IsAuthenticated reports whether a user is currently set.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil
}

// Subscribe registers fn to receive the new state after every change.
// fn is called synchronously on the goroutine that made the change and
// must not block. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// update applies fn to the state under the lock, then notifies subscribers.
func (s *Store) update(fn func(st *State)) {
	s.notify(s.mutate(fn))
}

func (s *Store) mutate(fn func(st *State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state.clone()
}

func (s *Store) notify(snap State) {
	s.subsMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Bootstrap discovers whether the cookie jar already holds a live session.
// It runs at most once per Store; later calls return immediately. Every
// failure, including an unreachable server, resolves to anonymous without
// setting Error.
func (s *Store) Bootstrap(ctx context.Context) {
	s.mu.RLock()
	once := s.once
	s.mu.RUnlock()

	once.Do(func() { s.bootstrap(ctx) })
}

func (s *Store) bootstrap(ctx context.Context) {
	if err := s.guard.Acquire(ctx, 1); err != nil {
		s.log.Warn(ctx, "session bootstrap abandoned", "error", err)
		s.update(func(st *State) {
			st.User = nil
			st.Loading = false
			st.Error = ""
			st.Bootstrapped = true
		})
		return
	}

	var user *models.User
	defer func() {
		snap := s.mutate(func(st *State) {
			st.User = user
			st.Loading = false
			st.Error = ""
			st.Bootstrapped = true
		})
		s.guard.Release(1)
		s.notify(snap)
	}()

	res := s.invoke(ctx, "bootstrap", s.client.CheckSession)
	switch {
	case res.Success && res.User != nil:
		user = res.User.Clone()
		s.log.Info(ctx, "session restored", "user_id", user.ID)
	case res.Error != "":
		s.log.Warn(ctx, "session check failed, continuing anonymously", "error", res.Error)
	default:
		s.log.Info(ctx, "no active session")
	}
}

// begin makes sure the bootstrap ran, waits for the operation guard and
// enters Busy with Error cleared. It returns false when ctx ended first;
// the state is then left untouched.
func (s *Store) begin(ctx context.Context, op string) bool {
	s.Bootstrap(ctx)

	if err := s.guard.Acquire(ctx, 1); err != nil {
		s.log.Warn(ctx, "session operation not started", "op", op, "error", err)
		return false
	}
	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
	})
	return true
}

// end leaves Busy. apply, when set, is folded into the same change so the
// outcome is published at once. Subscribers run after the guard is released
// and may start the next operation.
func (s *Store) end(apply func(st *State)) {
	snap := s.mutate(func(st *State) {
		if apply != nil {
			apply(st)
		}
		st.Loading = false
	})
	s.guard.Release(1)
	s.notify(snap)
}

// invoke calls fn and turns a panic into a failed result.
func (s *Store) invoke(ctx context.Context, op string, fn func(context.Context) models.AuthResult) (res models.AuthResult) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error(ctx, "session client panicked", "op", op, "panic", fmt.Sprint(p))
			res = models.Failed(client.MsgUnexpected, fmt.Errorf("%s: panic: %v", op, p))
		}
	}()
	return fn(ctx)
}

func failureMessage(res models.AuthResult, fallback string) string {
	if res.Error != "" {
		return res.Error
	}
	return fallback
}

// run is the Busy→Idle cycle shared by the operations that never touch User.
func (s *Store) run(ctx context.Context, op, fallback string, fn func(context.Context) models.AuthResult) bool {
	if !s.begin(ctx, op) {
		return false
	}
	var outcome func(st *State)
	defer func() { s.end(outcome) }()

	res := s.invoke(ctx, op, fn)
	if !res.Success {
		msg := failureMessage(res, fallback)
		outcome = func(st *State) { st.Error = msg }
		s.log.Info(ctx, "session operation failed", "op", op, "error", msg)
		return false
	}
	s.log.Info(ctx, "session operation succeeded", "op", op)
	return true
}

// Login authenticates and, on success, sets User. On failure Error holds
// the server's message or "Login failed" and User is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if !s.begin(ctx, "login") {
		return false
	}
	var outcome func(st *State)
	defer func() { s.end(outcome) }()

	res := s.invoke(ctx, "login", func(ctx context.Context) models.AuthResult {
		return s.client.Login(ctx, email, password)
	})
	if res.Success && res.User == nil {
		res = models.Failed(client.MsgMalformed, client.ErrMalformedResponse)
	}
	if !res.Success {
		msg := failureMessage(res, client.MsgLoginFailed)
		outcome = func(st *State) { st.Error = msg }
		s.log.Info(ctx, "login failed", "error", msg)
		return false
	}

	user := res.User.Clone()
	outcome = func(st *State) { st.User = user }
	s.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return true
}

// Signup registers an account. It never sets User: the account must be
// verified and then logged into explicitly.
func (s *Store) Signup(ctx context.Context, username, email, password, confirmPassword string) bool {
	return s.run(ctx, "signup", client.MsgSignupFailed, func(ctx context.Context) models.AuthResult {
		return s.client.Signup(ctx, username, email, password, confirmPassword)
	})
}

// Logout invalidates the remote session and always clears User, even when
// the remote call fails or panics. A failed remote logout is logged, not
// surfaced in Error. Like every operation it first waits for the one in
// flight, so the clear lands after that operation's outcome.
//
// If ctx ends while waiting, User is cleared at once and the remote call
// is skipped; the clear and the logout hook are then repeated once the
// in-flight operation has finished.
func (s *Store) Logout(ctx context.Context) {
	if !s.begin(ctx, "logout") {
		s.update(forgetUser)
		s.log.Info(ctx, "logged out locally, remote logout skipped")
		go s.finishLogout(context.WithoutCancel(ctx))
		return
	}

	defer func() {
		// The hook runs under the guard: no queued operation starts
		// before the cookies are wiped.
		snap := s.mutate(func(st *State) {
			forgetUser(st)
			st.Loading = false
		})
		s.runLogoutHook(ctx)
		s.guard.Release(1)
		s.notify(snap)
		s.log.Info(ctx, "logged out")
	}()

	res := s.invoke(ctx, "logout", s.client.Logout)
	if !res.Success {
		s.log.Warn(ctx, "remote logout failed, local session cleared anyway", "error", res.Error)
	}
}

// finishLogout completes a logout whose caller gave up waiting: it takes
// the guard behind the in-flight operation, clears User and runs the hook.
func (s *Store) finishLogout(ctx context.Context) {
	if err := s.guard.Acquire(ctx, 1); err != nil {
		return
	}
	snap := s.mutate(forgetUser)
	s.runLogoutHook(ctx)
	s.guard.Release(1)
	s.notify(snap)
	s.log.Info(ctx, "logged out")
}

func (s *Store) runLogoutHook(ctx context.Context) {
	if s.onLogout != nil {
		s.onLogout(context.WithoutCancel(ctx))
	}
}

func forgetUser(st *State) { st.User = nil }

// VerifyEmail confirms an account with an emailed token.
func (s *Store) VerifyEmail(ctx context.Context, token string) bool {
	return s.run(ctx, "verify_email", client.MsgVerifyEmailFailed, func(ctx context.Context) models.AuthResult {
		return s.client.VerifyEmail(ctx, token)
	})
}

// ForgotPassword asks the server to send a reset email.
func (s *Store) ForgotPassword(ctx context.Context, email string) bool {
	return s.run(ctx, "forgot_password", client.MsgForgotPasswordFailed, func(ctx context.Context) models.AuthResult {
		return s.client.ForgotPassword(ctx, email)
	})
}

// ResetPassword sets a new password with a reset token.
func (s *Store) ResetPassword(ctx context.Context, token, password, confirmPassword string) bool {
	return s.run(ctx, "reset_password", client.MsgResetPasswordFailed, func(ctx context.Context) models.AuthResult {
		return s.client.ResetPassword(ctx, token, password, confirmPassword)
	})
}

// ClearError resets Error without touching anything else.
func (s *Store) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

// Invalidate drops the local user. Any authenticated API caller that gets
// a 401/403 raises it; it is safe to call from any goroutine and does not
// wait for in-flight operations.
func (s *Store) Invalidate(reason string) {
	snap, had := s.invalidate()
	s.notify(snap)
	if had {
		s.log.Info(context.Background(), "session invalidated", "reason", reason)
	}
}

func (s *Store) invalidate() (State, bool) {
	var had bool
	snap := s.mutate(func(st *State) {
		had = st.User != nil
		st.User = nil
	})
	return snap, had
}

// Refresh re-checks an authenticated session in the background without
// entering Busy. A live session replaces User with the fresh copy; a
// rejected one is invalidated. An unreachable server leaves the state alone
// and is reported as an error wrapping client.ErrUnavailable. Anonymous
// stores are not checked, so a fail-open logout is never undone.
//
// The outcome is applied while the guard is still held, so an operation
// queued behind the check always sees it and is never overwritten by it.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return nil
	}
	if !s.guard.TryAcquire(1) {
		return ErrBusy
	}
	res := s.invoke(ctx, "refresh", s.client.CheckSession)

	switch {
	case res.Success && res.User != nil:
		user := res.User.Clone()
		snap := s.mutate(func(st *State) {
			if st.User != nil {
				st.User = user
			}
		})
		s.guard.Release(1)
		s.notify(snap)
		return nil
	case res.Cause == nil || errors.Is(res.Cause, client.ErrUnauthorized):
		snap, had := s.invalidate()
		s.guard.Release(1)
		s.notify(snap)
		if had {
			s.log.Info(ctx, "session invalidated", "reason", "session check rejected")
		}
		return nil
	}

	s.guard.Release(1)
	if errors.Is(res.Cause, client.ErrUnavailable) {
		return fmt.Errorf("refresh session: %w", res.Cause)
	}
	return fmt.Errorf("refresh session: %s: %w", res.Error, res.Cause)
}

// Reset returns the store to the Unresolved state, forgets subscribers and
// re-arms Bootstrap. It exists for tests and must not be called while an
// operation is in flight.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = unresolved()
	s.once = &sync.Once{}
	s.mu.Unlock()

	s.subsMu.Lock()
	s.subs = make(map[uint64]func(State))
	s.subsMu.Unlock()
}
