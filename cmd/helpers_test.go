package cmd

import (
	"testing"

	"github.com/interfase/vp-verifier/internal/format"
)

func TestParseTokenInput(t *testing.T) {
	// Raw token strings pass through untouched.
	if got := parseTokenInput("eyJ.abc.def~x~"); got != "eyJ.abc.def~x~" {
		t.Errorf("raw token = %v", got)
	}

	// A JSON object with vp_token is unwrapped.
	got := parseTokenInput(`{"vp_token": "tok", "presentation_submission": {}}`)
	if got != "tok" {
		t.Errorf("vp_token unwrap = %v, want tok", got)
	}

	// Other JSON values are passed through decoded.
	got = parseTokenInput(`["a", "b"]`)
	arr, ok := got.([]any)
	if !ok || len(arr) != 2 {
		t.Errorf("JSON array = %v", got)
	}

	// Broken JSON falls back to the raw string.
	if got := parseTokenInput("{not json"); got != "{not json" {
		t.Errorf("broken JSON = %v", got)
	}
}

func TestResolveSelection(t *testing.T) {
	cred, f, attrs, err := resolveSelection("eu.europa.ec.eudi.pid.1", "mso_mdoc", nil)
	if err != nil {
		t.Fatalf("resolveSelection() error: %v", err)
	}
	if cred.ID != "eu.europa.ec.eudi.pid.1" {
		t.Errorf("cred = %s", cred.ID)
	}
	if f != format.FormatMDOC {
		t.Errorf("format = %s", f)
	}
	if len(attrs) != len(cred.Attributes) {
		t.Errorf("got %d attrs, want all %d", len(attrs), len(cred.Attributes))
	}

	_, _, attrs, err = resolveSelection("eu.europa.ec.eudi.pid.1", "dc+sd-jwt", []string{"given_name"})
	if err != nil {
		t.Fatalf("resolveSelection() error: %v", err)
	}
	if len(attrs) != 1 || attrs[0] != "given_name" {
		t.Errorf("attrs = %v", attrs)
	}

	if _, _, _, err := resolveSelection("nope", "mso_mdoc", nil); err == nil {
		t.Error("unknown credential: expected error")
	}
}
