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

package mock

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/interfase/vp-verifier/internal/format"
)

// SDJWTConfig holds options for generating a mock SD-JWT vp_token.
type SDJWTConfig struct {
	Issuer    string
	VCT       string
	ExpiresIn time.Duration
	Claims    map[string]any
	Key       *ecdsa.PrivateKey
}

// GenerateSDJWT creates a mock SD-JWT presentation with every claim
// selectively disclosable, in the combined jwt~disclosure~...~ form.
func GenerateSDJWT(cfg SDJWTConfig) (string, error) {
	now := time.Now()

	var disclosures []string
	var digests []string

	for name, value := range cfg.Claims {
		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return "", fmt.Errorf("generating salt: %w", err)
		}

		discJSON, err := json.Marshal([]any{format.EncodeBase64URL(salt), name, value})
		if err != nil {
			return "", fmt.Errorf("marshaling disclosure: %w", err)
		}

		encoded := format.EncodeBase64URL(discJSON)
		disclosures = append(disclosures, encoded)

		h := sha256.Sum256([]byte(encoded))
		digests = append(digests, format.EncodeBase64URL(h[:]))
	}

	payload := map[string]any{
		"iss":     cfg.Issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(cfg.ExpiresIn).Unix(),
		"vct":     cfg.VCT,
		"_sd_alg": "sha-256",
		"_sd":     digests,
	}

	header := map[string]any{
		"alg": "ES256",
		"typ": "dc+sd-jwt",
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("marshaling header: %w", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	headerB64 := format.EncodeBase64URL(headerJSON)
	payloadB64 := format.EncodeBase64URL(payloadJSON)

	h := sha256.Sum256([]byte(headerB64 + "." + payloadB64))
	sig, err := signECDSA(cfg.Key, h[:])
	if err != nil {
		return "", fmt.Errorf("signing: %w", err)
	}

	jwt := headerB64 + "." + payloadB64 + "." + format.EncodeBase64URL(sig)
	return jwt + "~" + strings.Join(disclosures, "~") + "~", nil
}

// signECDSA signs a digest and returns the JWS r||s encoded signature.
func signECDSA(key *ecdsa.PrivateKey, digest []byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, key, digest)
	if err != nil {
		return nil, err
	}

	keySize := (key.Curve.Params().BitSize + 7) / 8
	rBytes := padToSize(r.Bytes(), keySize)
	sBytes := padToSize(s.Bytes(), keySize)

	return append(rBytes, sBytes...), nil
}
