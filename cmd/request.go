package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/output"
	"github.com/interfase/vp-verifier/internal/request"
)

var (
	requestCredential string
	requestFormat     string
	requestAttributes []string
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Print the presentation request for a catalog credential",
	Long:  "Builds the OpenID4VP presentation request (presentation_definition or dcql_query) for a catalog credential type and prints it as JSON.",
	RunE:  runRequest,
}

func init() {
	requestCmd.Flags().StringVarP(&requestCredential, "credential", "c", "eu.europa.ec.eudi.pid.1", "Catalog credential type")
	requestCmd.Flags().StringVarP(&requestFormat, "format", "f", "mso_mdoc", "Credential format (dc+sd-jwt or mso_mdoc)")
	requestCmd.Flags().StringSliceVarP(&requestAttributes, "attributes", "a", nil, "Attributes to request (default: all)")
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	cred, f, attrs, err := resolveSelection(requestCredential, requestFormat, requestAttributes)
	if err != nil {
		return err
	}

	pr, err := request.Build(cred, f, attrs)
	if err != nil {
		return err
	}

	output.PrintJSON(pr)
	return nil
}

// resolveSelection maps the shared credential/format/attribute flags to
// catalog entries, defaulting attributes to the whole catalog set.
func resolveSelection(credID, formatFlag string, attrs []string) (*request.Credential, format.CredentialFormat, []string, error) {
	cred, err := request.Lookup(strings.TrimSpace(credID))
	if err != nil {
		return nil, "", nil, err
	}

	f := format.CredentialFormat(strings.TrimSpace(formatFlag))
	if len(attrs) == 0 {
		attrs = cred.AttributeIDs()
	}
	return cred, f, attrs, nil
}
