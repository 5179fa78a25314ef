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

// Package mdoc extracts a flat claim set from decoded mdoc (ISO 18013-5)
// structures: DeviceResponse documents, IssuerSigned maps, or COSE_Sign1
// envelopes wrapping either.
package mdoc

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/interfase/vp-verifier/internal/cbor"
)

// DecodeResponse decodes CBOR bytes into a generic structure, unwrapping a
// top-level COSE_Sign1 envelope when present. The returned value feeds
// ExtractClaims.
func DecodeResponse(data []byte) (any, error) {
	root, err := cbor.Decode(data)
	if err != nil {
		return nil, err
	}
	if payload, ok := coseSign1Payload(root); ok {
		if inner, err := cbor.Decode(payload); err == nil {
			return inner, nil
		}
	}
	return root, nil
}

// coseSign1Payload returns the payload byte string of a COSE_Sign1-shaped
// value: a 4-element array [protected, unprotected, payload, signature]
// whose third element is a byte string.
func coseSign1Payload(v any) ([]byte, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 4 {
		return nil, false
	}
	payload, ok := arr[2].([]byte)
	return payload, ok
}

// extractors are tried in order; the first one that produces claims wins.
// Each targets a structural variant observed across issuer and wallet
// implementations, so the order is part of the contract: most specific
// (documents array) down to most permissive (exhaustive element scan).
var extractors = []func(any, map[string]any){
	harvestDocuments,
	unwrapAndHarvest,
	flattenNamespaceMaps,
	scanElementPairs,
}

// ExtractClaims flattens all namespaced attributes found in root into a
// single claim map. An empty result means no recognizable mdoc structure was
// found; it is never an error.
func ExtractClaims(root any) map[string]any {
	for _, extract := range extractors {
		acc := make(map[string]any)
		extract(root, acc)
		if len(acc) > 0 {
			return acc
		}
	}
	return map[string]any{}
}

// harvestDocuments handles the canonical DeviceResponse shape: a documents
// (or mdocDocuments) array, or a bare array of documents, each carrying
// issuerSigned / deviceSigned substructures.
func harvestDocuments(root any, acc map[string]any) {
	var docs []any
	switch v := root.(type) {
	case []any:
		docs = v
	case map[string]any:
		if d, ok := v["documents"].([]any); ok {
			docs = d
		} else if d, ok := v["mdocDocuments"].([]any); ok {
			docs = d
		}
	}
	for _, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if is, ok := doc["issuerSigned"]; ok {
			unwrapAndHarvest(is, acc)
		}
		if ds, ok := doc["deviceSigned"]; ok {
			unwrapAndHarvest(ds, acc)
		}
	}
}

// unwrapAndHarvest walks the whole tree, decoding any COSE_Sign1 payload it
// encounters and harvesting every nameSpaces map.
func unwrapAndHarvest(node any, acc map[string]any) {
	switch v := node.(type) {
	case []any:
		if payload, ok := coseSign1Payload(v); ok {
			if inner, err := cbor.Decode(payload); err == nil {
				unwrapAndHarvest(inner, acc)
			}
		}
		for _, item := range v {
			unwrapAndHarvest(item, acc)
		}
	case map[string]any:
		if ns, ok := v["nameSpaces"]; ok {
			harvestNameSpaces(ns, acc)
		}
		for _, item := range v {
			unwrapAndHarvest(item, acc)
		}
	}
}

// flattenNamespaceMaps is a fallback for responses that carry no explicit
// nameSpaces key: any map whose keys look like namespace identifiers
// (containing '.' or ':') with plain map values is harvested directly.
func flattenNamespaceMaps(node any, acc map[string]any) {
	m, ok := node.(map[string]any)
	if !ok {
		return
	}
	for ns, values := range m {
		if !strings.ContainsAny(ns, ".:") {
			continue
		}
		if attrs, ok := values.(map[string]any); ok {
			for k, v := range attrs {
				acc[k] = toPrintable(v)
			}
		}
	}
	for _, v := range m {
		flattenNamespaceMaps(v, acc)
	}
}

// scanElementPairs is the last resort: every node carrying both
// elementIdentifier and elementValue contributes that pair, and any
// nameSpaces map found along the way is harvested too.
func scanElementPairs(node any, acc map[string]any) {
	switch v := node.(type) {
	case []any:
		if payload, ok := coseSign1Payload(v); ok {
			if inner, err := cbor.Decode(payload); err == nil {
				scanElementPairs(inner, acc)
			}
		}
		for _, item := range v {
			scanElementPairs(item, acc)
		}
	case map[string]any:
		id, hasID := v["elementIdentifier"]
		val, hasVal := v["elementValue"]
		if hasID && hasVal {
			if name, ok := id.(string); ok && name != "" {
				acc[name] = toPrintable(val)
			}
		}
		if ns, ok := v["nameSpaces"]; ok {
			harvestNameSpaces(ns, acc)
		}
		for _, item := range v {
			scanElementPairs(item, acc)
		}
	}
}

// harvestNameSpaces collects attributes from a nameSpaces map. Each
// namespace holds either an array of IssuerSignedItem entries (possibly
// CBOR-encoded byte strings needing a nested decode) or a direct map of
// attribute name to value.
func harvestNameSpaces(ns any, acc map[string]any) {
	nsMap, ok := ns.(map[string]any)
	if !ok {
		return
	}
	for _, entries := range nsMap {
		switch items := entries.(type) {
		case []any:
			for _, raw := range items {
				item := raw
				if b, ok := raw.([]byte); ok {
					decoded, err := cbor.Decode(b)
					if err != nil {
						continue
					}
					item = decoded
				}
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				name := firstString(m, "elementIdentifier", "identifier", "name")
				if name == "" {
					continue
				}
				if v, ok := m["elementValue"]; ok {
					acc[name] = toPrintable(v)
				} else if v, ok := m["value"]; ok {
					acc[name] = toPrintable(v)
				} else {
					acc[name] = toPrintable(m)
				}
			}
		case map[string]any:
			for name, v := range items {
				acc[name] = toPrintable(v)
			}
		}
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// toPrintable normalizes a claim value for display. Byte strings become
// UTF-8 text when they round-trip cleanly, otherwise a base64: prefixed
// string (portraits, signatures). Wrapper maps carrying elementValue or
// value are unwrapped recursively.
func toPrintable(v any) any {
	switch val := v.(type) {
	case []byte:
		if utf8.Valid(val) && !strings.ContainsRune(string(val), utf8.RuneError) {
			return string(val)
		}
		return "base64:" + base64.StdEncoding.EncodeToString(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toPrintable(item)
		}
		return out
	case map[string]any:
		if inner, ok := val["elementValue"]; ok {
			return toPrintable(inner)
		}
		if inner, ok := val["value"]; ok {
			return toPrintable(inner)
		}
		return val
	default:
		return v
	}
}
