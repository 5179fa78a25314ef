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

// Package format holds credential format identifiers and the encoding
// helpers shared by the decoders.
package format

import (
	"encoding/base64"
	"strings"
)

// CredentialFormat identifies a verifiable credential wire format.
type CredentialFormat string

const (
	FormatSDJWT CredentialFormat = "dc+sd-jwt"
	FormatMDOC  CredentialFormat = "mso_mdoc"
)

// Valid reports whether f is a format this toolkit can request and decode.
func (f CredentialFormat) Valid() bool {
	return f == FormatSDJWT || f == FormatMDOC
}

// DecodeBase64URL decodes a base64url-encoded string (with or without padding).
func DecodeBase64URL(s string) ([]byte, error) {
	// Try without padding first (most common in JWTs)
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		// Try with padding
		b, err = base64.URLEncoding.DecodeString(s)
	}
	return b, err
}

// EncodeBase64URL encodes bytes as base64url without padding.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64Any decodes base64url or standard base64, padded or not.
// Wallets are not consistent about which alphabet they use for vp_token
// array entries.
func DecodeBase64Any(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := DecodeBase64URL(s); err == nil {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	return b, err
}
