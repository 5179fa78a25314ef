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
	"testing"

	"github.com/interfase/vp-verifier/internal/format"
)

func mustLookup(t *testing.T, id string) *Credential {
	t.Helper()
	cred, err := Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", id, err)
	}
	return cred
}

func TestBuild_SDJWT(t *testing.T) {
	cred := mustLookup(t, "eu.europa.ec.eudi.pid.1")

	pr, err := Build(cred, format.FormatSDJWT, []string{"given_name", "nationality"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if pr.Type != "vp_token" {
		t.Errorf("Type = %q, want vp_token", pr.Type)
	}
	if pr.Nonce == "" {
		t.Error("Nonce is empty")
	}
	if pr.DCQLQuery != nil {
		t.Error("DCQLQuery set for SD-JWT request")
	}
	if pr.PresentationDefinition == nil {
		t.Fatal("PresentationDefinition is nil")
	}

	desc := pr.PresentationDefinition.InputDescriptors[0]
	if _, ok := desc.Format["dc+sd-jwt"]; !ok {
		t.Errorf("descriptor format = %v, want dc+sd-jwt", desc.Format)
	}

	fields := desc.Constraints.Fields
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want vct + 2 attributes", len(fields))
	}

	// The vct filter leads and pins the credential type.
	if fields[0].Path[0] != "$.vct" {
		t.Errorf("fields[0].Path = %v, want $.vct", fields[0].Path)
	}
	if fields[0].Filter == nil || fields[0].Filter.Const != "urn:eudi:pid:1" {
		t.Errorf("fields[0].Filter = %+v, want const urn:eudi:pid:1", fields[0].Filter)
	}

	if fields[1].Path[0] != "$.given_name" {
		t.Errorf("fields[1].Path = %v, want $.given_name", fields[1].Path)
	}
	// nationality maps to its SD-JWT claim name.
	if fields[2].Path[0] != "$.nationalities" {
		t.Errorf("fields[2].Path = %v, want $.nationalities", fields[2].Path)
	}
}

func TestBuild_MDOC(t *testing.T) {
	cred := mustLookup(t, "eu.europa.ec.eudi.pid.1")

	pr, err := Build(cred, format.FormatMDOC, []string{"given_name"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if pr.PresentationDefinition == nil {
		t.Fatal("PresentationDefinition is nil")
	}

	desc := pr.PresentationDefinition.InputDescriptors[0]
	if desc.ID != cred.ID {
		t.Errorf("descriptor ID = %q, want doctype %q", desc.ID, cred.ID)
	}
	if desc.Constraints.LimitDisclosure != "required" {
		t.Errorf("LimitDisclosure = %q, want required", desc.Constraints.LimitDisclosure)
	}

	wantPath := "$['eu.europa.ec.eudi.pid.1']['given_name']"
	if desc.Constraints.Fields[0].Path[0] != wantPath {
		t.Errorf("field path = %q, want %q", desc.Constraints.Fields[0].Path[0], wantPath)
	}
	if itr := desc.Constraints.Fields[0].IntentToRetain; itr == nil || *itr {
		t.Error("IntentToRetain should be explicit false")
	}
}

func TestBuild_MDLUsesDCQL(t *testing.T) {
	cred := mustLookup(t, MDL)

	pr, err := Build(cred, format.FormatMDOC, []string{"family_name", "driving_privileges"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if pr.PresentationDefinition != nil {
		t.Error("mDL request should not carry a presentation definition")
	}
	if pr.DCQLQuery == nil {
		t.Fatal("DCQLQuery is nil")
	}

	cq := pr.DCQLQuery.Credentials[0]
	if cq.Format != "mso_mdoc" {
		t.Errorf("Format = %q, want mso_mdoc", cq.Format)
	}
	if cq.Meta == nil || cq.Meta.DoctypeValue != MDL {
		t.Errorf("Meta = %+v, want doctype_value %s", cq.Meta, MDL)
	}
	if len(cq.Claims) != 2 {
		t.Fatalf("got %d claims, want 2", len(cq.Claims))
	}
	if cq.Claims[0].Path[0] != "org.iso.18013.5.1" || cq.Claims[0].Path[1] != "family_name" {
		t.Errorf("claim path = %v, want [org.iso.18013.5.1 family_name]", cq.Claims[0].Path)
	}
}

func TestBuild_Errors(t *testing.T) {
	pid := mustLookup(t, "eu.europa.ec.eudi.pid.1")
	mdl := mustLookup(t, MDL)

	if _, err := Build(pid, "jwt_vc", []string{"given_name"}); err == nil {
		t.Error("Build() with unknown format: expected error")
	}
	if _, err := Build(mdl, format.FormatSDJWT, []string{"family_name"}); err == nil {
		t.Error("Build() with unsupported format: expected error")
	}
	if _, err := Build(pid, format.FormatMDOC, nil); err == nil {
		t.Error("Build() with no attributes: expected error")
	}
}

func TestBuild_NonceUnique(t *testing.T) {
	cred := mustLookup(t, "eu.europa.ec.eudi.pid.1")

	a, err := Build(cred, format.FormatMDOC, []string{"given_name"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	b, err := Build(cred, format.FormatMDOC, []string{"given_name"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if a.Nonce == b.Nonce {
		t.Error("two requests share a nonce")
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("nope"); err == nil {
		t.Error("Lookup(nope): expected error")
	}
}
