package common

import (
	"encoding/json"
	"io"
	"os"
)

// CIResult is the machine-readable summary printed by tools in --ci mode.
type CIResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

var ciOutput io.Writer = os.Stdout

func PrintCIResult(ok bool, title string, details []string, err error) {
	_ = WriteCIResult(ciOutput, ok, title, details, err)
}

func WriteCIResult(w io.Writer, ok bool, title string, details []string, err error) error {
	result := CIResult{OK: ok, Title: title, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
