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

// Package vptoken turns an opaque vp_token value into a flat, printable
// claim set, whichever credential format it carries.
package vptoken

import (
	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/mdoc"
	"github.com/interfase/vp-verifier/internal/sdjwt"
)

// DecodedCredential is the normalized decoding result.
type DecodedCredential struct {
	Format format.CredentialFormat `json:"format"`
	Claims map[string]any          `json:"claims"`
	VCT    string                  `json:"vct,omitempty"`
}

// ExtractClaims decodes a vp_token of any shape (string, array, or exploded
// object). It returns nil when vpToken is nil or nothing decodable is found;
// it never panics and never returns an error — for a pending verification,
// "no claims" simply means the wallet has not delivered them yet.
//
// SD-JWT decoding is tried first: a successful JWT structural match is
// unambiguous, whereas mdoc decoding relies on heuristic CBOR structure
// matching and is only attempted as a fallback.
func ExtractClaims(vpToken any) *DecodedCredential {
	if vpToken == nil {
		return nil
	}

	if sd := sdjwt.DecodeVPToken(vpToken); len(sd.Claims) > 0 {
		return &DecodedCredential{
			Format: format.FormatSDJWT,
			Claims: sd.Claims,
			VCT:    sd.VCT,
		}
	}

	for _, candidate := range candidateStrings(vpToken) {
		bytes, err := format.DecodeBase64Any(candidate)
		if err != nil || len(bytes) == 0 {
			continue
		}
		root, err := mdoc.DecodeResponse(bytes)
		if err != nil {
			continue
		}
		if claims := mdoc.ExtractClaims(root); len(claims) > 0 {
			return &DecodedCredential{
				Format: format.FormatMDOC,
				Claims: claims,
			}
		}
	}

	return nil
}

// candidateStrings flattens vpToken into the strings worth trying as
// base64-encoded mdoc responses.
func candidateStrings(vpToken any) []string {
	switch v := vpToken.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
