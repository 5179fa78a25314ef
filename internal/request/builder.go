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

// Package request builds OpenID4VP presentation requests for the credential
// types in the catalog.
package request

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/interfase/vp-verifier/internal/dcql"
	"github.com/interfase/vp-verifier/internal/format"
)

// PresentationRequest is the body POSTed to the verification backend to
// start an exchange. Exactly one of PresentationDefinition and DCQLQuery is
// set. Immutable once sent.
type PresentationRequest struct {
	Type                   string                  `json:"type"`
	PresentationDefinition *PresentationDefinition `json:"presentation_definition,omitempty"`
	DCQLQuery              *dcql.Query             `json:"dcql_query,omitempty"`
	Nonce                  string                  `json:"nonce"`
	RequestURIMethod       string                  `json:"request_uri_method"`
}

// PresentationDefinition is a DIF presentation-exchange definition.
type PresentationDefinition struct {
	ID               string            `json:"id"`
	InputDescriptors []InputDescriptor `json:"input_descriptors"`
}

// InputDescriptor constrains one requested credential.
type InputDescriptor struct {
	ID          string         `json:"id"`
	Name        string         `json:"name,omitempty"`
	Purpose     string         `json:"purpose,omitempty"`
	Format      map[string]any `json:"format"`
	Constraints Constraints    `json:"constraints"`
}

// Constraints holds the field constraints of an input descriptor.
type Constraints struct {
	LimitDisclosure string  `json:"limit_disclosure,omitempty"`
	Fields          []Field `json:"fields"`
}

// Field is one constraint entry addressing a claim by JSONPath.
type Field struct {
	Path           []string `json:"path"`
	IntentToRetain *bool    `json:"intent_to_retain,omitempty"`
	Filter         *Filter  `json:"filter,omitempty"`
}

// Filter pins a field to a constant value.
type Filter struct {
	Type  string `json:"type"`
	Const string `json:"const"`
}

// Build constructs the presentation request for one catalog credential in
// the given format, asking for the listed attribute ids. Every request
// carries a fresh crypto-random nonce; a failing entropy source is surfaced
// as an error rather than degraded to a predictable nonce.
func Build(cred *Credential, f format.CredentialFormat, attrIDs []string) (*PresentationRequest, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	if !cred.SupportsFormat(f) {
		return nil, fmt.Errorf("credential %s does not support format %s", cred.ID, f)
	}
	if len(attrIDs) == 0 {
		return nil, fmt.Errorf("no attributes selected")
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}

	req := &PresentationRequest{
		Type:             "vp_token",
		Nonce:            nonce,
		RequestURIMethod: "get",
	}

	// mDL verification goes through DCQL; everything else through a
	// presentation definition.
	if cred.ID == MDL && f == format.FormatMDOC {
		req.DCQLQuery = dcql.ForDoctype(cred.ID, cred.Namespace, attrIDs)
		return req, nil
	}

	var pd *PresentationDefinition
	if f == format.FormatSDJWT {
		pd, err = sdJWTDefinition(cred, attrIDs)
	} else {
		pd, err = mdocDefinition(cred, attrIDs)
	}
	if err != nil {
		return nil, err
	}
	req.PresentationDefinition = pd
	return req, nil
}

// sdJWTDefinition builds an SD-JWT input descriptor: a mandatory $.vct
// filter pinning the credential type, then one field per attribute.
func sdJWTDefinition(cred *Credential, attrIDs []string) (*PresentationDefinition, error) {
	if cred.VCT == "" {
		return nil, fmt.Errorf("credential %s has no vct for SD-JWT requests", cred.ID)
	}

	defID, err := newNonce()
	if err != nil {
		return nil, err
	}
	descID, err := newNonce()
	if err != nil {
		return nil, err
	}

	fields := []Field{{
		Path:   []string{"$.vct"},
		Filter: &Filter{Type: "string", Const: cred.VCT},
	}}
	for _, id := range attrIDs {
		path := id
		if attr, ok := cred.Attribute(id); ok && attr.SDJWTPath != "" {
			path = attr.SDJWTPath
		}
		fields = append(fields, Field{
			Path:           []string{"$." + path},
			IntentToRetain: boolPtr(false),
		})
	}

	return &PresentationDefinition{
		ID: defID,
		InputDescriptors: []InputDescriptor{{
			ID:   descID,
			Name: cred.Name,
			Format: map[string]any{
				"dc+sd-jwt": map[string]any{
					"sd-jwt_alg_values": []string{"ES256"},
					"kb-jwt_alg_values": []string{"ES256"},
				},
			},
			Constraints: Constraints{Fields: fields},
		}},
	}, nil
}

// mdocDefinition builds an mdoc input descriptor with limit_disclosure and
// bracket-notation paths $['<namespace>']['<attribute>'].
func mdocDefinition(cred *Credential, attrIDs []string) (*PresentationDefinition, error) {
	defID, err := newNonce()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(attrIDs))
	for _, id := range attrIDs {
		fields = append(fields, Field{
			Path:           []string{fmt.Sprintf("$['%s']['%s']", cred.Namespace, id)},
			IntentToRetain: boolPtr(false),
		})
	}

	return &PresentationDefinition{
		ID: defID,
		InputDescriptors: []InputDescriptor{{
			ID: cred.ID,
			Format: map[string]any{
				"mso_mdoc": map[string]any{"alg": []string{"ES256"}},
			},
			Constraints: Constraints{
				LimitDisclosure: "required",
				Fields:          fields,
			},
		}},
	}, nil
}

// newNonce returns a crypto-random UUIDv4 string.
func newNonce() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return id.String(), nil
}

func boolPtr(b bool) *bool { return &b }
