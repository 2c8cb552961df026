// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pdiddy/paper-analyzer/internal/textract"
)

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Invalid configuration or unknown provider
	ExitTooShort    = 3 // Not enough text to analyze
)

// configError marks failures that stem from configuration rather than input.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ce configError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, textract.ErrInputTooShort):
		return ExitTooShort
	case errors.As(err, &ce):
		return ExitConfigError
	default:
		return ExitError
	}
}

// reportError prints err to w. Short input is a warning, not a failure of
// the tool.
func reportError(w io.Writer, err error) {
	if errors.Is(err, textract.ErrInputTooShort) {
		fmt.Fprintf(w, "%s %v\n", color.YellowString("Warning:"), err)
		fmt.Fprintln(w, "The document may be scanned or image-based; OCR is not supported.")
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
}
