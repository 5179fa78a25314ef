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

// Package output renders decoded credentials and session progress to the
// terminal.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/interfase/vp-verifier/internal/vptoken"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// BuildCredentialJSON returns the JSON-serializable map for a decoded
// credential.
func BuildCredentialJSON(cred *vptoken.DecodedCredential) map[string]any {
	out := map[string]any{
		"format": cred.Format,
		"claims": cred.Claims,
	}
	if cred.VCT != "" {
		out["vct"] = cred.VCT
	}
	return out
}

// PrintCredential prints a decoded credential to the terminal.
func PrintCredential(cred *vptoken.DecodedCredential, opts Options) {
	if opts.JSON {
		PrintJSON(BuildCredentialJSON(cred))
		return
	}

	headerColor.Println("Decoded Credential")
	headerColor.Println(strings.Repeat("─", 50))

	printSection("Format")
	printKV("Format", string(cred.Format), 1)
	if cred.VCT != "" {
		printKV("VCT", cred.VCT, 1)
	}

	printSection(fmt.Sprintf("Claims (%d)", len(cred.Claims)))
	printMap(cred.Claims, 1)

	fmt.Println()
}

// PrintDeepLink prints the wallet deep link with a hint for terminals that
// cannot render the QR code.
func PrintDeepLink(link string) {
	printSection("Wallet Deep Link")
	valueColor.Printf("  %s\n", link)
}

// PrintStateChange prints one session state transition.
func PrintStateChange(state string) {
	dimColor.Printf("  state: %s\n", state)
}

// PrintSuccess prints the terminal success line.
func PrintSuccess(msg string) {
	successColor.Printf("✓ %s\n", msg)
}

func printSection(title string) {
	fmt.Println()
	headerColor.Printf("┌ %s\n", title)
}

func printKV(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", prefix, key)
	valueColor.Println(value)
}

func printMap(m map[string]any, indent int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	prefix := strings.Repeat("  ", indent)
	for _, k := range keys {
		labelColor.Printf("%s%s: ", prefix, k)
		fmt.Println(formatValue(m[k]))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	case map[string]any:
		b, _ := json.MarshalIndent(val, "    ", "  ")
		return string(b)
	case []any:
		if isSimpleArray(val) {
			b, _ := json.Marshal(val)
			return string(b)
		}
		b, _ := json.MarshalIndent(val, "    ", "  ")
		return string(b)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func isSimpleArray(arr []any) bool {
	for _, v := range arr {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), msg)
}
