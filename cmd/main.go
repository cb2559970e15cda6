// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	logging "github.com/iudx/catalogue-service/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "IUDX metadata catalogue service",
}

func init() {
	// slog is the standard library logger, we use it to log errors and
	logging.InitStructureLogConfig()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
