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

package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/request"
)

func testRequest(t *testing.T) *request.PresentationRequest {
	t.Helper()
	cred, err := request.Lookup("eu.europa.ec.eudi.pid.1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	pr, err := request.Build(cred, format.FormatMDOC, []string{"given_name"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return pr
}

func TestCreatePresentation(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ui/presentations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{
			"transaction_id": "tx-1",
			"request_uri":    "https://backend.example/req/tx-1",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/ui/")
	tx, err := c.CreatePresentation(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("CreatePresentation() error: %v", err)
	}
	if tx.ID != "tx-1" {
		t.Errorf("ID = %q, want tx-1", tx.ID)
	}
	if tx.RequestURI != "https://backend.example/req/tx-1" {
		t.Errorf("RequestURI = %q", tx.RequestURI)
	}
	if gotBody["type"] != "vp_token" {
		t.Errorf("posted type = %v, want vp_token", gotBody["type"])
	}
	if gotBody["nonce"] == "" {
		t.Error("posted request has no nonce")
	}
}

func TestCreatePresentation_LegacyURIFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"qr_url", map[string]string{"transaction_id": "tx", "qr_url": "uri"}},
		{"qrCode", map[string]string{"transaction_id": "tx", "qrCode": "uri"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			tx, err := NewClient(srv.URL).CreatePresentation(context.Background(), testRequest(t))
			if err != nil {
				t.Fatalf("CreatePresentation() error: %v", err)
			}
			if tx.RequestURI != "uri" {
				t.Errorf("RequestURI = %q, want uri", tx.RequestURI)
			}
		})
	}
}

func TestCreatePresentation_Errors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreatePresentation(context.Background(), testRequest(t))
		if err == nil || !strings.Contains(err.Error(), "400") {
			t.Errorf("error = %v, want status 400 mentioned", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"transaction_id": "tx"})
		}))
		defer srv.Close()

		if _, err := NewClient(srv.URL).CreatePresentation(context.Background(), testRequest(t)); err == nil {
			t.Error("expected error for response without request_uri")
		}
	})
}

func TestTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/presentations/tx-1" {
			t.Errorf("path = %s, want /presentations/tx-1", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"presentation_submission": map[string]any{"id": "sub"},
			"vp_token":                "token",
		})
	}))
	defer srv.Close()

	st, err := NewClient(srv.URL).TransactionStatus(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("TransactionStatus() error: %v", err)
	}
	if len(st.PresentationSubmission) == 0 {
		t.Error("PresentationSubmission is empty")
	}
	if st.VPToken != "token" {
		t.Errorf("VPToken = %v, want token", st.VPToken)
	}
}

func TestBuildDeepLink(t *testing.T) {
	got := BuildDeepLink("eudi-openid4vp", "x509_san_dns:verifier.example", "https://v.example/req?id=1", "get")
	want := "eudi-openid4vp://?client_id=x509_san_dns%3Averifier.example" +
		"&request_uri=https%3A%2F%2Fv.example%2Freq%3Fid%3D1" +
		"&request_uri_method=get"
	if got != want {
		t.Errorf("BuildDeepLink() =\n%s\nwant\n%s", got, want)
	}
}
