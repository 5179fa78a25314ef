package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/output"
	"github.com/interfase/vp-verifier/internal/vptoken"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Decode a vp_token (SD-JWT or mDOC) into a flat claim set",
	Long:  "Decodes a vp_token, auto-detecting the format (dc+sd-jwt or mso_mdoc). Input can be a file path, URL, raw token string, a JSON vp_token value, or piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	raw, err := format.ReadInput(input)
	if err != nil {
		return err
	}

	cred := vptoken.ExtractClaims(parseTokenInput(raw))
	if cred == nil {
		return fmt.Errorf("no decodable credential in input (expected dc+sd-jwt or mso_mdoc)")
	}

	output.PrintCredential(cred, output.Options{JSON: jsonOutput, Verbose: verbose})
	return nil
}

// parseTokenInput accepts either a raw token string or a JSON value. A JSON
// object carrying a vp_token member is unwrapped so a whole poll response can
// be piped in.
func parseTokenInput(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "\"") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			if m, ok := v.(map[string]any); ok {
				if vp, ok := m["vp_token"]; ok {
					return vp
				}
			}
			return v
		}
	}
	return raw
}
