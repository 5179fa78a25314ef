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

import "net/url"

// BuildDeepLink assembles the wallet deep link embedded in the QR code:
//
//	<scheme>://?client_id=...&request_uri=...&request_uri_method=...
//
// Parameter order is fixed; some wallets are picky about it.
func BuildDeepLink(scheme, clientID, requestURI, requestURIMethod string) string {
	return scheme + "://?client_id=" + url.QueryEscape(clientID) +
		"&request_uri=" + url.QueryEscape(requestURI) +
		"&request_uri_method=" + url.QueryEscape(requestURIMethod)
}
