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

package vptoken

import (
	"testing"
	"time"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/mock"
)

func mockSDJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	key, err := mock.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	token, err := mock.GenerateSDJWT(mock.SDJWTConfig{
		Issuer:    "https://issuer.example",
		VCT:       "urn:eudi:pid:1",
		ExpiresIn: time.Hour,
		Claims:    claims,
		Key:       key,
	})
	if err != nil {
		t.Fatalf("generating SD-JWT: %v", err)
	}
	return token
}

func mockMDOC(t *testing.T, claims map[string]any) string {
	t.Helper()
	key, err := mock.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	token, err := mock.GenerateMDOC(mock.MDOCConfig{
		DocType:   "eu.europa.ec.eudi.pid.1",
		Namespace: "eu.europa.ec.eudi.pid.1",
		Claims:    claims,
		Key:       key,
	})
	if err != nil {
		t.Fatalf("generating mdoc: %v", err)
	}
	return token
}

func TestExtractClaims_SDJWT(t *testing.T) {
	token := mockSDJWT(t, map[string]any{"given_name": "Jane", "family_name": "Doe"})

	cred := ExtractClaims(token)
	if cred == nil {
		t.Fatal("ExtractClaims() = nil, want decoded credential")
	}
	if cred.Format != format.FormatSDJWT {
		t.Errorf("Format = %s, want %s", cred.Format, format.FormatSDJWT)
	}
	if cred.VCT != "urn:eudi:pid:1" {
		t.Errorf("VCT = %q, want urn:eudi:pid:1", cred.VCT)
	}
	if cred.Claims["given_name"] != "Jane" {
		t.Errorf("given_name = %v, want Jane", cred.Claims["given_name"])
	}
}

func TestExtractClaims_MDOC(t *testing.T) {
	token := mockMDOC(t, map[string]any{"given_name": "Jane", "family_name": "Doe"})

	cred := ExtractClaims(token)
	if cred == nil {
		t.Fatal("ExtractClaims() = nil, want decoded credential")
	}
	if cred.Format != format.FormatMDOC {
		t.Errorf("Format = %s, want %s", cred.Format, format.FormatMDOC)
	}
	if cred.Claims["family_name"] != "Doe" {
		t.Errorf("family_name = %v, want Doe", cred.Claims["family_name"])
	}
}

func TestExtractClaims_MDOCInArray(t *testing.T) {
	token := mockMDOC(t, map[string]any{"given_name": "Jane"})

	cred := ExtractClaims([]any{token})
	if cred == nil {
		t.Fatal("ExtractClaims() = nil, want decoded credential")
	}
	if cred.Format != format.FormatMDOC {
		t.Errorf("Format = %s, want %s", cred.Format, format.FormatMDOC)
	}
}

func TestExtractClaims_SDJWTPreferredOverMDOC(t *testing.T) {
	// When both formats are present the SD-JWT wins: JWT structure is an
	// unambiguous match, mdoc matching is heuristic.
	sd := mockSDJWT(t, map[string]any{"given_name": "Jane"})
	md := mockMDOC(t, map[string]any{"family_name": "Doe"})

	cred := ExtractClaims([]any{md, sd})
	if cred == nil {
		t.Fatal("ExtractClaims() = nil")
	}
	if cred.Format != format.FormatSDJWT {
		t.Errorf("Format = %s, want %s", cred.Format, format.FormatSDJWT)
	}
}

func TestExtractClaims_NoClaims(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"garbage",
		"AAAA", // valid base64, not CBOR claims
		[]any{},
		[]any{42},
		map[string]any{"x": "y"},
		3.14,
	}
	for _, in := range inputs {
		if cred := ExtractClaims(in); cred != nil {
			t.Errorf("ExtractClaims(%v) = %+v, want nil", in, cred)
		}
	}
}
