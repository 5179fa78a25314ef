package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/interfase/vp-verifier/internal/output"
	"github.com/interfase/vp-verifier/internal/qr"
	"github.com/interfase/vp-verifier/internal/request"
	"github.com/interfase/vp-verifier/internal/verifier"
)

var (
	verifyBackend    string
	verifyCredential string
	verifyFormat     string
	verifyAttributes []string
	verifyClientID   string
	verifyScheme     string
	verifyQRPath     string
	verifyInterval   time.Duration
	verifyMaxTries   int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run a live verification session against a verifier backend",
	Long:  "Creates a presentation on the backend, prints the wallet deep link (and optionally writes a QR PNG), then polls until the wallet responds or the session times out.",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyBackend, "backend", "b", "https://verifier-backend.interfase.uy/ui", "Verifier backend base URL")
	verifyCmd.Flags().StringVarP(&verifyCredential, "credential", "c", "eu.europa.ec.eudi.pid.1", "Catalog credential type")
	verifyCmd.Flags().StringVarP(&verifyFormat, "format", "f", "mso_mdoc", "Credential format (dc+sd-jwt or mso_mdoc)")
	verifyCmd.Flags().StringSliceVarP(&verifyAttributes, "attributes", "a", nil, "Attributes to request (default: all)")
	verifyCmd.Flags().StringVar(&verifyClientID, "client-id", "x509_san_dns:verifier-backend.interfase.uy", "client_id embedded in the deep link")
	verifyCmd.Flags().StringVar(&verifyScheme, "scheme", "eudi-openid4vp", "Deep link scheme")
	verifyCmd.Flags().StringVar(&verifyQRPath, "qr", "", "Write the QR code PNG to this path")
	verifyCmd.Flags().DurationVar(&verifyInterval, "interval", 3*time.Second, "Poll interval")
	verifyCmd.Flags().IntVar(&verifyMaxTries, "max-tries", 30, "Poll attempts before giving up")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cred, f, attrs, err := resolveSelection(verifyCredential, verifyFormat, verifyAttributes)
	if err != nil {
		return err
	}

	pr, err := request.Build(cred, f, attrs)
	if err != nil {
		return err
	}

	client := verifier.NewClient(verifyBackend)

	var sess *verifier.Session
	sess = verifier.NewSession(client, verifier.Config{
		ClientID:       verifyClientID,
		DeepLinkScheme: verifyScheme,
		PollInterval:   verifyInterval,
		MaxTries:       verifyMaxTries,
		Verbose:        verbose,
		Callbacks: verifier.Callbacks{
			OnStateChange: func(st verifier.State) {
				output.PrintStateChange(string(st))
				if st == verifier.StateQRShown {
					showDeepLink(sess.DeepLink())
				}
			},
		},
	})

	state, err := sess.Run(cmd.Context(), pr)
	if err != nil {
		return fmt.Errorf("verification ended in state %s: %w", state, err)
	}

	output.PrintSuccess("presentation verified")
	if dec := sess.Claims(); dec != nil {
		output.PrintCredential(dec, output.Options{JSON: jsonOutput, Verbose: verbose})
	}
	return nil
}

func showDeepLink(link string) {
	output.PrintDeepLink(link)
	if verifyQRPath == "" {
		return
	}

	file, err := os.Create(verifyQRPath)
	if err != nil {
		output.PrintError(fmt.Sprintf("writing QR code: %v", err))
		return
	}
	defer file.Close()

	if err := qr.EncodePNG(file, link, 512); err != nil {
		output.PrintError(fmt.Sprintf("writing QR code: %v", err))
		return
	}
	fmt.Printf("  QR code written to %s\n", verifyQRPath)
}
