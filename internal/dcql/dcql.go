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

// Package dcql models Digital Credentials Query Language queries, the
// non-presentation-exchange way to request mdoc credentials by doctype.
package dcql

// Query is a DCQL query.
type Query struct {
	Credentials []CredentialQuery `json:"credentials"`
}

// CredentialQuery defines a single credential request.
type CredentialQuery struct {
	ID     string          `json:"id"`
	Format string          `json:"format"`
	Meta   *CredentialMeta `json:"meta,omitempty"`
	Claims []ClaimQuery    `json:"claims"`
}

// CredentialMeta contains format-specific metadata.
type CredentialMeta struct {
	VCTValues    []string `json:"vct_values,omitempty"`
	DoctypeValue string   `json:"doctype_value,omitempty"`
}

// ClaimQuery defines a single claim request.
// Path elements are strings (object keys) or nil (array wildcard).
type ClaimQuery struct {
	Path           []any `json:"path"`
	IntentToRetain bool  `json:"intent_to_retain"`
}

// ForDoctype builds a query requesting the given data elements of one mdoc
// doctype. Claim paths take the [namespace, element] form.
func ForDoctype(doctype, namespace string, elements []string) *Query {
	claims := make([]ClaimQuery, 0, len(elements))
	for _, el := range elements {
		claims = append(claims, ClaimQuery{
			Path: []any{namespace, el},
		})
	}

	return &Query{
		Credentials: []CredentialQuery{{
			ID:     "query_0",
			Format: "mso_mdoc",
			Meta:   &CredentialMeta{DoctypeValue: doctype},
			Claims: claims,
		}},
	}
}
