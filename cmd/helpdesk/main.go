package main

import (
	"os"

	"github.com/deskops/helpdesk/internal/config"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for rejected input and 1 for any other failure.
func exitCode(err error) int {
	if apperrors.IsValidation(err) {
		return 2
	}
	return 1
}
