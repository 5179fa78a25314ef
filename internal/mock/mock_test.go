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
	"crypto/sha256"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/interfase/vp-verifier/internal/format"
)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	return key
}

func TestGenerateSDJWT(t *testing.T) {
	key := testKey(t)

	token, err := GenerateSDJWT(SDJWTConfig{
		Issuer:    "https://issuer.example",
		VCT:       "urn:eudi:pid:1",
		ExpiresIn: time.Hour,
		Claims:    map[string]any{"given_name": "Erika", "family_name": "Mustermann"},
		Key:       key,
	})
	if err != nil {
		t.Fatalf("GenerateSDJWT() error: %v", err)
	}

	if !strings.HasSuffix(token, "~") {
		t.Error("token missing trailing ~")
	}

	parts := strings.Split(strings.TrimSuffix(token, "~"), "~")
	if len(parts) != 3 { // jwt + 2 disclosures
		t.Fatalf("got %d parts, want 3", len(parts))
	}

	jwtParts := strings.Split(parts[0], ".")
	if len(jwtParts) != 3 {
		t.Fatalf("JWT has %d segments, want 3", len(jwtParts))
	}

	payloadBytes, err := format.DecodeBase64URL(jwtParts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		t.Fatalf("unmarshaling payload: %v", err)
	}
	if payload["vct"] != "urn:eudi:pid:1" {
		t.Errorf("vct = %v", payload["vct"])
	}
	if digests, ok := payload["_sd"].([]any); !ok || len(digests) != 2 {
		t.Errorf("_sd = %v, want 2 digests", payload["_sd"])
	}

	// The ES256 signature must verify against the JWS signing input.
	sig, err := format.DecodeBase64URL(jwtParts[2])
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("signature length = %d, want 64", len(sig))
	}
	h := sha256.Sum256([]byte(jwtParts[0] + "." + jwtParts[1]))
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	if !ecdsa.Verify(&key.PublicKey, h[:], r, s) {
		t.Error("signature does not verify")
	}
}

func TestGenerateMDOC(t *testing.T) {
	token, err := GenerateMDOC(MDOCConfig{
		DocType:   "eu.europa.ec.eudi.pid.1",
		Namespace: "eu.europa.ec.eudi.pid.1",
		Claims:    map[string]any{"given_name": "Erika"},
		Key:       testKey(t),
	})
	if err != nil {
		t.Fatalf("GenerateMDOC() error: %v", err)
	}

	// base64url, no padding, decodes to CBOR.
	raw, err := format.DecodeBase64URL(token)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty DeviceResponse")
	}
	// Major type 5 (map) leads a DeviceResponse.
	if raw[0]>>5 != 5 {
		t.Errorf("leading major type = %d, want map", raw[0]>>5)
	}
}

func TestPublicKeyJWK(t *testing.T) {
	jwk := PublicKeyJWK(&testKey(t).PublicKey)

	var m map[string]string
	if err := json.Unmarshal([]byte(jwk), &m); err != nil {
		t.Fatalf("JWK is not JSON: %v", err)
	}
	if m["kty"] != "EC" || m["crv"] != "P-256" {
		t.Errorf("JWK = %v", m)
	}
	if m["x"] == "" || m["y"] == "" {
		t.Error("JWK missing coordinates")
	}
}
