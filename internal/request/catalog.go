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

package request

import (
	"fmt"

	"github.com/interfase/vp-verifier/internal/format"
)

// Attribute is one requestable claim of a catalog credential.
type Attribute struct {
	ID        string
	Name      string
	SDJWTPath string // claim name in the SD-JWT rendition, when it differs from ID
}

// Credential describes a credential type the verifier can request.
type Credential struct {
	ID         string // doctype (mdoc) or catalog identifier
	Name       string
	VCT        string // vct pinned in SD-JWT requests
	Namespace  string // mdoc namespace holding the attributes
	Formats    []format.CredentialFormat
	Attributes []Attribute
}

// SupportsFormat reports whether the credential can be requested as f.
func (c *Credential) SupportsFormat(f format.CredentialFormat) bool {
	for _, sf := range c.Formats {
		if sf == f {
			return true
		}
	}
	return false
}

// Attribute returns the attribute with the given id.
func (c *Credential) Attribute(id string) (Attribute, bool) {
	for _, a := range c.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttributeIDs returns the ids of all attributes, in catalog order.
func (c *Credential) AttributeIDs() []string {
	ids := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		ids[i] = a.ID
	}
	return ids
}

// MDL is the doctype of the ISO 18013-5 mobile driving licence, which is
// requested via DCQL rather than a presentation definition.
const MDL = "org.iso.18013.5.1.mDL"

// Catalog lists the credential types known to the verifier.
var Catalog = []Credential{
	{
		ID:        "eu.europa.ec.eudi.pid.1",
		Name:      "Person Identification Data",
		VCT:       "urn:eudi:pid:1",
		Namespace: "eu.europa.ec.eudi.pid.1",
		Formats:   []format.CredentialFormat{format.FormatMDOC, format.FormatSDJWT},
		Attributes: []Attribute{
			{ID: "given_name", Name: "Given Name"},
			{ID: "family_name", Name: "Family Name"},
			{ID: "birthdate", Name: "Date of Birth"},
			{ID: "nationality", Name: "Nationality", SDJWTPath: "nationalities"},
			{ID: "sex", Name: "Sex"},
			{ID: "issuance_date", Name: "Issuance Date", SDJWTPath: "date_of_issuance"},
			{ID: "expiry_date", Name: "Expiry Date", SDJWTPath: "date_of_expiry"},
			{ID: "document_number", Name: "Document Number"},
		},
	},
	{
		ID:        MDL,
		Name:      "Mobile Driver's Licence",
		Namespace: "org.iso.18013.5.1",
		Formats:   []format.CredentialFormat{format.FormatMDOC},
		Attributes: []Attribute{
			{ID: "given_name", Name: "Given Name"},
			{ID: "family_name", Name: "Family Name"},
			{ID: "birth_date", Name: "Date of Birth"},
			{ID: "issue_date", Name: "Issue Date"},
			{ID: "expiry_date", Name: "Expiry Date"},
			{ID: "driving_privileges", Name: "Driving Privileges"},
			{ID: "portrait", Name: "Portrait"},
		},
	},
	{
		ID:        "urn:org.caricom.csme:skills:1",
		Name:      "CSME Skills Certificate",
		VCT:       "urn:org.caricom.csme:skills:1",
		Namespace: "urn:org.caricom.csme:skills:1",
		Formats:   []format.CredentialFormat{format.FormatSDJWT},
		Attributes: []Attribute{
			{ID: "fullName", Name: "Full Name"},
			{ID: "picture", Name: "Picture"},
			{ID: "dateOfBirth", Name: "Date of Birth"},
			{ID: "placeOfBirth", Name: "Place of Birth"},
			{ID: "nationality", Name: "Nationality"},
			{ID: "passportNumber", Name: "Passport Number"},
			{ID: "maritalStatus", Name: "Marital Status"},
			{ID: "occupation", Name: "Occupation"},
			{ID: "qualification", Name: "Qualification"},
			{ID: "certificateNumber", Name: "Certificate Number"},
			{ID: "issuanceDate", Name: "Issuance Date"},
			{ID: "expiryDate", Name: "Expiry Date"},
			{ID: "dependants", Name: "Dependants"},
			{ID: "credential_type", Name: "Credential Type"},
			{ID: "issuing_authority", Name: "Issuing Authority"},
		},
	},
}

// Lookup finds a catalog credential by id.
func Lookup(id string) (*Credential, error) {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i], nil
		}
	}
	return nil, fmt.Errorf("unknown credential type %q", id)
}
