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

package widget

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/qr"
	"github.com/interfase/vp-verifier/internal/request"
	"github.com/interfase/vp-verifier/internal/verifier"
	"github.com/interfase/vp-verifier/internal/vptoken"
)

//go:embed embed.js
var embedJS []byte

// Widget holds the configuration and session table of one embedded
// verification flow. Multiple widgets with different configurations can
// coexist in a process.
type Widget struct {
	cfg    Config
	cred   *request.Credential
	client *verifier.Client

	mu       sync.Mutex
	sessions map[string]*session
}

// session is the widget-side view of one verification exchange. All fields
// behind mu; the session goroutine writes, HTTP handlers read.
type session struct {
	mu        sync.Mutex
	id        string
	state     verifier.State
	deepLink  string
	claims    *vptoken.DecodedCredential
	errMsg    string
	cancel    context.CancelFunc
	ready     chan struct{}
	readyOnce sync.Once
}

// SessionInfo is the snapshot reported to HTTP clients and Go hosts.
type SessionInfo struct {
	ID       string                  `json:"session_id"`
	State    verifier.State          `json:"state"`
	DeepLink string                  `json:"deep_link,omitempty"`
	Format   format.CredentialFormat `json:"format,omitempty"`
	VCT      string                  `json:"vct,omitempty"`
	Claims   map[string]any          `json:"claims,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// New creates a widget. Zero config fields get defaults; the credential type
// must exist in the catalog and support the configured format.
func New(cfg Config) (*Widget, error) {
	cfg = cfg.withDefaults()

	cred, err := request.Lookup(cfg.CredentialType)
	if err != nil {
		return nil, err
	}
	if !cred.SupportsFormat(cfg.Format) {
		return nil, fmt.Errorf("credential %s does not support format %s", cred.ID, cfg.Format)
	}

	return &Widget{
		cfg:      cfg,
		cred:     cred,
		client:   verifier.NewClient(cfg.BackendBaseURL),
		sessions: make(map[string]*session),
	}, nil
}

// StartSession creates a backend transaction and begins polling in the
// background. It returns once the deep link is known or the session failed to
// start.
func (w *Widget) StartSession(ctx context.Context) (*SessionInfo, error) {
	attrs := w.cfg.Attributes
	if len(attrs) == 0 {
		attrs = w.cred.AttributeIDs()
	}

	pr, err := request.Build(w.cred, w.cfg.Format, attrs)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())
	ws := &session{
		id:     id,
		state:  verifier.StateIdle,
		cancel: cancel,
		ready:  make(chan struct{}),
	}

	w.mu.Lock()
	w.sessions[id] = ws
	w.mu.Unlock()

	var sess *verifier.Session
	sess = verifier.NewSession(w.client, verifier.Config{
		ClientID:         w.cfg.ClientID,
		DeepLinkScheme:   w.cfg.DeepLinkScheme,
		RequestURIMethod: w.cfg.RequestURIMethod,
		PollInterval:     w.cfg.PollingInterval,
		MaxTries:         w.cfg.PollingMaxTries,
		Deadline:         w.cfg.PollingInterval * time.Duration(w.cfg.PollingMaxTries+1),
		Callbacks: verifier.Callbacks{
			OnStateChange: func(st verifier.State) { w.onStateChange(ws, st, sess) },
			OnClaims:      func(dec *vptoken.DecodedCredential) { w.onClaims(ws, dec) },
			OnError:       func(err error) { w.onError(ws, err) },
		},
	})

	go func() {
		defer cancel()
		sess.Run(runCtx, pr)
	}()

	select {
	case <-ws.ready:
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	info := ws.snapshot()
	return &info, nil
}

func (w *Widget) onStateChange(ws *session, st verifier.State, sess *verifier.Session) {
	ws.mu.Lock()
	ws.state = st
	if st == verifier.StateQRShown {
		ws.deepLink = sess.DeepLink()
	}
	ws.mu.Unlock()

	if st == verifier.StateQRShown || st.Terminal() {
		ws.readyOnce.Do(func() { close(ws.ready) })
	}

	if cb := w.cfg.OnStateChange; cb != nil {
		cb(ws.id, st)
	}
	if st == verifier.StateVerified {
		if cb := w.cfg.OnSuccess; cb != nil {
			ws.mu.Lock()
			claims := ws.claims
			ws.mu.Unlock()
			cb(ws.id, claims)
		}
	}
}

func (w *Widget) onClaims(ws *session, dec *vptoken.DecodedCredential) {
	ws.mu.Lock()
	ws.claims = dec
	ws.mu.Unlock()
}

func (w *Widget) onError(ws *session, err error) {
	ws.mu.Lock()
	ws.errMsg = err.Error()
	ws.mu.Unlock()

	if cb := w.cfg.OnError; cb != nil {
		cb(ws.id, err)
	}
}

// Session returns a snapshot of the session with the given id.
func (w *Widget) Session(id string) (*SessionInfo, bool) {
	w.mu.Lock()
	ws, ok := w.sessions[id]
	w.mu.Unlock()
	if !ok {
		return nil, false
	}
	info := ws.snapshot()
	return &info, true
}

// Close cancels every running session.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ws := range w.sessions {
		ws.cancel()
	}
}

func (s *session) snapshot() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := SessionInfo{
		ID:       s.id,
		State:    s.state,
		DeepLink: s.deepLink,
		Error:    s.errMsg,
	}
	if s.claims != nil {
		info.Format = s.claims.Format
		info.VCT = s.claims.VCT
		info.Claims = s.claims.Claims
	}
	return info
}

// Handler returns the HTTP surface third-party sites mount, e.g. under
// /verify/. Paths are relative to the mount point via http.StripPrefix.
func (w *Widget) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", w.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", w.handleGetSession)
	mux.HandleFunc("GET /sessions/{id}/qr", w.handleSessionQR)
	mux.HandleFunc("GET /embed.js", w.handleEmbedJS)
	return mux
}

func (w *Widget) handleCreateSession(rw http.ResponseWriter, r *http.Request) {
	info, err := w.StartSession(r.Context())
	if err != nil {
		writeError(rw, http.StatusBadGateway, err)
		return
	}
	writeJSON(rw, http.StatusCreated, info)
}

func (w *Widget) handleGetSession(rw http.ResponseWriter, r *http.Request) {
	info, ok := w.Session(r.PathValue("id"))
	if !ok {
		writeError(rw, http.StatusNotFound, fmt.Errorf("unknown session"))
		return
	}
	writeJSON(rw, http.StatusOK, info)
}

func (w *Widget) handleSessionQR(rw http.ResponseWriter, r *http.Request) {
	info, ok := w.Session(r.PathValue("id"))
	if !ok {
		writeError(rw, http.StatusNotFound, fmt.Errorf("unknown session"))
		return
	}
	if info.DeepLink == "" {
		writeError(rw, http.StatusConflict, fmt.Errorf("session has no deep link yet"))
		return
	}

	rw.Header().Set("Content-Type", "image/png")
	if err := qr.EncodePNG(rw, info.DeepLink, 256); err != nil {
		writeError(rw, http.StatusInternalServerError, err)
	}
}

// handleEmbedJS serves the browser snippet with this widget's client-side
// settings injected ahead of it.
func (w *Widget) handleEmbedJS(rw http.ResponseWriter, r *http.Request) {
	settings, err := json.Marshal(map[string]any{
		"autoAttach":     w.cfg.AutoAttach,
		"buttonSelector": w.cfg.ButtonSelector,
		"pollingMs":      w.cfg.PollingInterval.Milliseconds(),
	})
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err)
		return
	}

	rw.Header().Set("Content-Type", "application/javascript")
	fmt.Fprintf(rw, "window.vpVerifierSettings = %s;\n", settings)
	rw.Write(embedJS)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, err error) {
	writeJSON(rw, status, map[string]string{"error": err.Error()})
}
