package main

import (
	"context"
	"os"

	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
