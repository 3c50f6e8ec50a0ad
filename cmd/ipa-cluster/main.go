// Command ipa-cluster compiles sound-change rules and clusters IPA word
// lists with them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/palasimi/ipa-cluster/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands report their own errors; anything else is a usage error
	// from flag or argument parsing.
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(cli.ExitCommandError)
}
