// Copyright 2026 Interfase
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package verifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/interfase/vp-verifier/internal/request"
	"github.com/interfase/vp-verifier/internal/vptoken"
)

// State is the verification session state.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateQRShown  State = "qr_shown"
	StateVerified State = "verified"
	StateError    State = "error"
	StateTimeout  State = "timeout"
)

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	return s == StateVerified || s == StateError || s == StateTimeout
}

// ErrTimeout is returned by Run when the poll budget or wall-clock deadline
// is exhausted without a terminal signal from the wallet.
var ErrTimeout = errors.New("timed out waiting for presentation")

// Callbacks notify the host application of session progress. All callbacks
// are optional and are invoked best-effort: a panicking callback is logged
// and does not disturb the session.
type Callbacks struct {
	OnStateChange func(State)
	// OnClaims delivers progressively decoded vp_token claims, possibly
	// before the terminal submission signal arrives.
	OnClaims  func(*vptoken.DecodedCredential)
	OnSuccess func(*Status)
	OnError   func(error)
}

// Config holds session parameters. Zero values get the defaults below.
type Config struct {
	ClientID         string
	DeepLinkScheme   string
	RequestURIMethod string
	PollInterval     time.Duration // default 3s
	MaxTries         int           // default 30
	Deadline         time.Duration // wall-clock safety net, default 90s
	Callbacks        Callbacks
	Verbose          bool
}

const (
	defaultPollInterval = 3 * time.Second
	defaultMaxTries     = 30
	defaultDeadline     = 90 * time.Second
	defaultScheme       = "eudi-openid4vp"
	defaultURIMethod    = "get"
)

// Session drives one verification exchange: create the presentation, expose
// the wallet deep link, poll until a terminal state. All state mutation
// happens on the goroutine running Run. Hosts that observe a session from
// other goroutines must do so through the callbacks, which are invoked from
// the Run goroutine in transition order.
type Session struct {
	client *Client
	cfg    Config

	state    State
	tx       *Transaction
	deepLink string
	decoded  *vptoken.DecodedCredential
}

// NewSession creates a session in the idle state.
func NewSession(client *Client, cfg Config) *Session {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxTries <= 0 {
		cfg.MaxTries = defaultMaxTries
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = defaultDeadline
	}
	if cfg.DeepLinkScheme == "" {
		cfg.DeepLinkScheme = defaultScheme
	}
	if cfg.RequestURIMethod == "" {
		cfg.RequestURIMethod = defaultURIMethod
	}
	return &Session{client: client, cfg: cfg, state: StateIdle}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// DeepLink returns the wallet deep link, available once the session reached
// qr_shown.
func (s *Session) DeepLink() string { return s.deepLink }

// Transaction returns the backend transaction, available once the session
// reached qr_shown.
func (s *Session) Transaction() *Transaction { return s.tx }

// Claims returns the decoded credential accumulated so far. May be non-nil
// before the verified state: the wallet can stream the vp_token ahead of the
// terminal submission signal.
func (s *Session) Claims() *vptoken.DecodedCredential { return s.decoded }

// Run drives the session to a terminal state and returns it. Cancelling ctx
// stops the session cooperatively: no response that arrives after
// cancellation is applied. Run must not be called twice.
func (s *Session) Run(ctx context.Context, pr *request.PresentationRequest) (State, error) {
	if s.state != StateIdle {
		return s.state, fmt.Errorf("session already started (state %s)", s.state)
	}

	s.transition(StateStarting)

	tx, err := s.client.CreatePresentation(ctx, pr)
	if err != nil {
		return s.fail(StateError, err)
	}
	if ctx.Err() != nil {
		return s.state, ctx.Err()
	}

	s.tx = tx
	s.deepLink = BuildDeepLink(s.cfg.DeepLinkScheme, s.cfg.ClientID, tx.RequestURI, s.cfg.RequestURIMethod)
	s.transition(StateQRShown)
	s.logf("presentation created: transaction=%s", tx.ID)

	return s.poll(ctx)
}

// poll ticks at the configured interval until the wallet answers, the try
// budget runs out, or the independent wall-clock deadline fires.
func (s *Session) poll(ctx context.Context) (State, error) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(s.cfg.Deadline)
	defer deadline.Stop()

	tries := 0
	for {
		select {
		case <-ctx.Done():
			s.logf("cancelled after %d polls", tries)
			return s.state, ctx.Err()

		case <-deadline.C:
			return s.fail(StateTimeout, ErrTimeout)

		case <-ticker.C:
			tries++
			st, err := s.client.TransactionStatus(ctx, s.tx.ID)
			if err != nil {
				// Transient poll failures are tolerated; only budget
				// exhaustion surfaces to the user.
				s.logf("poll %d failed: %v", tries, err)
			} else if ctx.Err() != nil {
				// Response arrived after cancellation: discard.
				return s.state, ctx.Err()
			} else if done, result, rerr := s.apply(st); done {
				return result, rerr
			}
			if tries >= s.cfg.MaxTries {
				return s.fail(StateTimeout, ErrTimeout)
			}
		}
	}
}

// apply folds one poll response into the session. The presence of
// presentation_submission is authoritative: a response carrying both the
// submission and an error field counts as verified.
func (s *Session) apply(st *Status) (done bool, result State, err error) {
	if st.VPToken != nil {
		if dec := vptoken.ExtractClaims(st.VPToken); dec != nil {
			s.decoded = dec
			s.logf("decoded %d claims (%s)", len(dec.Claims), dec.Format)
			if cb := s.cfg.Callbacks.OnClaims; cb != nil {
				invoke(func() { cb(dec) })
			}
		}
	}

	if len(st.PresentationSubmission) > 0 {
		s.transition(StateVerified)
		s.emitSuccess(st)
		return true, StateVerified, nil
	}
	if st.Error != "" {
		_, err := s.fail(StateError, fmt.Errorf("backend rejected presentation: %s", st.Error))
		return true, StateError, err
	}
	return false, s.state, nil
}

func (s *Session) fail(st State, err error) (State, error) {
	s.transition(st)
	s.emitError(err)
	return st, err
}

func (s *Session) transition(st State) {
	s.state = st
	s.logf("state -> %s", st)
	if cb := s.cfg.Callbacks.OnStateChange; cb != nil {
		invoke(func() { cb(st) })
	}
}

func (s *Session) emitSuccess(st *Status) {
	if cb := s.cfg.Callbacks.OnSuccess; cb != nil {
		invoke(func() { cb(st) })
	}
}

func (s *Session) emitError(err error) {
	if cb := s.cfg.Callbacks.OnError; cb != nil {
		invoke(func() { cb(err) })
	}
}

// invoke runs a host callback, containing panics so a misbehaving host
// cannot take down the state machine.
func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] callback panic: %v", r)
		}
	}()
	fn()
}

func (s *Session) logf(f string, args ...any) {
	if s.cfg.Verbose {
		log.Printf("[session] "+f, args...)
	}
}
