package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/mock"
)

var (
	mockCredential string
	mockFormat     string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Emit a mock vp_token for testing",
	Long:  "Generates a throwaway SD-JWT or mdoc vp_token with sample claims for a catalog credential type, signed with an ephemeral P-256 key.",
	RunE:  runMock,
}

func init() {
	mockCmd.Flags().StringVarP(&mockCredential, "credential", "c", "eu.europa.ec.eudi.pid.1", "Catalog credential type")
	mockCmd.Flags().StringVarP(&mockFormat, "format", "f", "mso_mdoc", "Credential format (dc+sd-jwt or mso_mdoc)")
	rootCmd.AddCommand(mockCmd)
}

// sampleValues provides demo values for well-known attribute ids; anything
// else gets a generated placeholder.
var sampleValues = map[string]string{
	"given_name":      "Erika",
	"family_name":     "Mustermann",
	"birthdate":       "1986-03-14",
	"birth_date":      "1986-03-14",
	"dateOfBirth":     "1986-03-14",
	"nationality":     "UY",
	"sex":             "2",
	"document_number": "ABC123456",
	"fullName":        "Erika Mustermann",
}

func runMock(cmd *cobra.Command, args []string) error {
	cred, f, attrs, err := resolveSelection(mockCredential, mockFormat, nil)
	if err != nil {
		return err
	}
	if !cred.SupportsFormat(f) {
		return fmt.Errorf("credential %s does not support format %s", cred.ID, f)
	}

	claims := make(map[string]any, len(attrs))
	for _, id := range attrs {
		v, ok := sampleValues[id]
		if !ok {
			v = "sample-" + id
		}
		claims[id] = v
	}

	key, err := mock.GenerateKey()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	var token string
	switch f {
	case format.FormatSDJWT:
		token, err = mock.GenerateSDJWT(mock.SDJWTConfig{
			Issuer:    "https://issuer.example",
			VCT:       cred.VCT,
			ExpiresIn: 24 * time.Hour,
			Claims:    claims,
			Key:       key,
		})
	case format.FormatMDOC:
		token, err = mock.GenerateMDOC(mock.MDOCConfig{
			DocType:   cred.ID,
			Namespace: cred.Namespace,
			Claims:    claims,
			Key:       key,
		})
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
