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

// Package widget embeds a verification flow into a third-party site: a
// mountable HTTP surface plus a drop-in browser snippet. Each Widget instance
// carries its own configuration and session table.
package widget

import (
	"time"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/verifier"
	"github.com/interfase/vp-verifier/internal/vptoken"
)

// Config is the widget option surface. Zero fields are filled from
// DefaultConfig when the widget is created.
type Config struct {
	// BackendBaseURL is the verification backend, e.g.
	// "https://verifier-backend.interfase.uy/ui".
	BackendBaseURL string

	// CredentialType is a catalog credential id (e.g. "eu.europa.ec.eudi.pid.1").
	CredentialType string

	// Format is the requested credential format.
	Format format.CredentialFormat

	// Attributes limits the requested attributes. Empty means all catalog
	// attributes of the credential.
	Attributes []string

	PollingInterval time.Duration
	PollingMaxTries int

	ClientID         string
	RequestURIMethod string
	DeepLinkScheme   string

	// AutoAttach and ButtonSelector configure the browser snippet: when
	// AutoAttach is set, embed.js binds a click handler to every element
	// matching ButtonSelector.
	AutoAttach     bool
	ButtonSelector string

	// Host callbacks, keyed by session id. Invoked from session goroutines.
	OnStateChange func(sessionID string, state verifier.State)
	OnSuccess     func(sessionID string, claims *vptoken.DecodedCredential)
	OnError       func(sessionID string, err error)
}

// DefaultConfig returns the stock widget configuration.
func DefaultConfig() Config {
	return Config{
		BackendBaseURL:   "https://verifier-backend.interfase.uy/ui",
		CredentialType:   "eu.europa.ec.eudi.pid.1",
		Format:           format.FormatMDOC,
		PollingInterval:  3 * time.Second,
		PollingMaxTries:  30,
		ClientID:         "x509_san_dns:verifier-backend.interfase.uy",
		RequestURIMethod: "get",
		DeepLinkScheme:   "eudi-openid4vp",
		ButtonSelector:   "[data-vp-verify]",
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BackendBaseURL == "" {
		c.BackendBaseURL = d.BackendBaseURL
	}
	if c.CredentialType == "" {
		c.CredentialType = d.CredentialType
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.PollingInterval <= 0 {
		c.PollingInterval = d.PollingInterval
	}
	if c.PollingMaxTries <= 0 {
		c.PollingMaxTries = d.PollingMaxTries
	}
	if c.ClientID == "" {
		c.ClientID = d.ClientID
	}
	if c.RequestURIMethod == "" {
		c.RequestURIMethod = d.RequestURIMethod
	}
	if c.DeepLinkScheme == "" {
		c.DeepLinkScheme = d.DeepLinkScheme
	}
	if c.ButtonSelector == "" {
		c.ButtonSelector = d.ButtonSelector
	}
	return c
}
