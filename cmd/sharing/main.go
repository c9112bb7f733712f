// Command sharing runs shared-memory concurrency demos.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jba/sharing/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
