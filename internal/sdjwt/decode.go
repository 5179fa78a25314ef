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

// Package sdjwt reconstructs selectively-disclosed claims from SD-JWT
// presentations carried in a vp_token.
package sdjwt

import (
	"encoding/json"
	"strings"

	"github.com/interfase/vp-verifier/internal/format"
)

// Presentation is one SD-JWT presentation in canonical form: the issuer JWT
// followed by disclosures and an optional key-binding JWT, '~'-joined.
// Heterogeneous vp_token shapes (combined string, {sd_jwt, disclosures,
// kb_jwt} object, arrays of either) all normalize to this at the boundary.
type Presentation struct {
	Combined string
}

// Decoded is the result of merging an SD-JWT presentation's disclosures.
// Empty Claims is a valid non-error result: it signals "nothing here" to the
// vp_token dispatcher.
type Decoded struct {
	Claims    map[string]any
	VCT       string
	Payload   map[string]any // signed SD-JWT payload
	KBPayload map[string]any // key-binding JWT payload, if present
}

// Normalize converts any vp_token shape into its SD-JWT presentations.
// Unrecognized shapes yield no presentations.
func Normalize(vpToken any) []Presentation {
	switch v := vpToken.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []Presentation{{Combined: v}}
	case []string:
		var out []Presentation
		for _, s := range v {
			out = append(out, Normalize(s)...)
		}
		return out
	case []any:
		var out []Presentation
		for _, item := range v {
			out = append(out, Normalize(item)...)
		}
		return out
	case map[string]any:
		return normalizeParts(v)
	default:
		return nil
	}
}

// normalizeParts handles the exploded object shape: {combined} or
// {sd_jwt, disclosures, kb_jwt}.
func normalizeParts(m map[string]any) []Presentation {
	if combined, ok := m["combined"].(string); ok && combined != "" {
		return []Presentation{{Combined: combined}}
	}

	var parts []string
	if sd, ok := m["sd_jwt"].(string); ok && sd != "" {
		parts = append(parts, sd)
	}
	if discs, ok := m["disclosures"].([]any); ok {
		for _, d := range discs {
			if s, ok := d.(string); ok {
				parts = append(parts, s)
			}
		}
	}
	if discs, ok := m["disclosures"].([]string); ok {
		parts = append(parts, discs...)
	}
	if kb, ok := m["kb_jwt"].(string); ok && kb != "" {
		parts = append(parts, kb)
	}
	if len(parts) == 0 {
		return nil
	}
	return []Presentation{{Combined: strings.Join(parts, "~")}}
}

// DecodeVPToken normalizes vpToken and merges the claims of every SD-JWT
// presentation it contains. It never fails: undecodable parts are skipped.
func DecodeVPToken(vpToken any) Decoded {
	out := Decoded{Claims: make(map[string]any)}
	for _, p := range Normalize(vpToken) {
		decodePresentation(p, &out)
	}
	return out
}

func decodePresentation(p Presentation, out *Decoded) {
	for _, part := range strings.Split(p.Combined, "~") {
		if part == "" {
			continue
		}
		if format.IsJWT(part) {
			_, payload, _, err := format.ParseJWTParts(part)
			if err != nil {
				continue
			}
			// First JWT is the signed SD-JWT, a second one is the
			// key-binding JWT (retained, not merged).
			if out.Payload == nil {
				out.Payload = payload
				if vct, ok := payload["vct"].(string); ok {
					out.VCT = vct
				}
				mergeCredentialSubject(payload, out.Claims)
			} else if out.KBPayload == nil {
				out.KBPayload = payload
			}
			continue
		}
		mergeDisclosure(part, out.Claims)
	}
}

// mergeCredentialSubject merges vc.credentialSubject claims from a W3C-style
// JWT payload, when present.
func mergeCredentialSubject(payload, claims map[string]any) {
	vc, ok := payload["vc"].(map[string]any)
	if !ok {
		return
	}
	subject, ok := vc["credentialSubject"].(map[string]any)
	if !ok {
		return
	}
	for k, v := range subject {
		claims[k] = v
	}
}

// mergeDisclosure decodes one '~' part as a disclosure and merges it.
// Recognized shapes:
//
//	[salt, name, value]       -> claims[name] = value
//	[salt, {..object..}]      -> object merged wholesale (array-entry shape)
//	[{..object..}]            -> object merged wholesale
//	{..object..}              -> object merged wholesale
//
// Anything else is ignored.
func mergeDisclosure(part string, claims map[string]any) {
	raw, err := format.DecodeBase64URL(part)
	if err != nil {
		return
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		switch {
		case len(arr) >= 3:
			if name, ok := arr[1].(string); ok && name != "" {
				claims[name] = arr[2]
			}
		case len(arr) == 2:
			if obj, ok := arr[1].(map[string]any); ok {
				for k, v := range obj {
					claims[k] = v
				}
			}
		case len(arr) == 1:
			if obj, ok := arr[0].(map[string]any); ok {
				for k, v := range obj {
					claims[k] = v
				}
			}
		}
		return
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for k, v := range obj {
			claims[k] = v
		}
	}
}
