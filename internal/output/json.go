package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// Options controls terminal output.
type Options struct {
	JSON    bool
	Verbose bool
}

// PrintJSON outputs the value as formatted JSON.
func PrintJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "JSON encoding error: %v\n", err)
	}
}
