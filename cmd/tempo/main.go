package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/macropower/tempo/internal/cli"
	"github.com/macropower/tempo/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.Revision),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithColorSchemeFunc(cli.ColorSchemeFunc),
	)
	if err != nil {
		os.Exit(1)
	}
}
