package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/interfase/vp-verifier/internal/format"
	"github.com/interfase/vp-verifier/internal/widget"
)

var (
	servePort       int
	serveBackend    string
	serveCredential string
	serveFormat     string
	serveClientID   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a demo page with the embeddable verification widget",
	Long:  "Starts a local HTTP server with the verification widget mounted under /verify/ and a demo page exercising it at /.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveBackend, "backend", "b", "https://verifier-backend.interfase.uy/ui", "Verifier backend base URL")
	serveCmd.Flags().StringVarP(&serveCredential, "credential", "c", "eu.europa.ec.eudi.pid.1", "Catalog credential type")
	serveCmd.Flags().StringVarP(&serveFormat, "format", "f", "mso_mdoc", "Credential format (dc+sd-jwt or mso_mdoc)")
	serveCmd.Flags().StringVar(&serveClientID, "client-id", "", "client_id embedded in deep links (default: widget default)")
	rootCmd.AddCommand(serveCmd)
}

const demoPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>vp-verifier demo</title>
  <style>
    body { font-family: sans-serif; max-width: 600px; margin: 80px auto; }
    button { font-size: 1.1em; padding: 12px 24px; cursor: pointer; }
    pre { background: #f4f4f4; padding: 12px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>Credential verification demo</h1>
  <p>Click the button and scan the QR code with your wallet.</p>
  <button data-vp-verify>Verify credential</button>
  <pre id="result"></pre>
  <script src="/verify/embed.js"></script>
  <script>
    document.querySelector("button").addEventListener("click", function () {
      vpVerifier.verify({
        onSuccess: function (claims) {
          document.getElementById("result").textContent = JSON.stringify(claims, null, 2);
        },
        onError: function (err) {
          document.getElementById("result").textContent = "error: " + err.message;
        },
      });
    });
  </script>
</body>
</html>
`

func runServe(cmd *cobra.Command, args []string) error {
	w, err := widget.New(widget.Config{
		BackendBaseURL: serveBackend,
		CredentialType: serveCredential,
		Format:         format.CredentialFormat(serveFormat),
		ClientID:       serveClientID,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	mux := http.NewServeMux()
	mux.Handle("/verify/", http.StripPrefix("/verify", w.Handler()))
	mux.HandleFunc("GET /{$}", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(rw, demoPage)
	})

	addr := fmt.Sprintf(":%d", servePort)
	fmt.Printf("Demo page on http://localhost%s (widget under /verify/)\n", addr)
	return http.ListenAndServe(addr, mux)
}
