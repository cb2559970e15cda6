// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/constants"
)

var (
	requestFile string
	maxDistance int
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "print the backend query for a search request read as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if requestFile != "" && requestFile != "-" {
			f, err := os.Open(requestFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return compileRequest(cmd, in)
	},
}

func init() {
	compileCmd.Flags().StringVarP(&requestFile, "file", "f", "-", "search request JSON, - for stdin")
	compileCmd.Flags().IntVar(&maxDistance, "max-distance", constants.MaxDistanceLimit, "ceiling in meters for Point searches")
}

func compileRequest(cmd *cobra.Command, in io.Reader) error {
	var req model.SearchRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("invalid search request: %w", err)
	}
	if req.Operation == "" {
		req.Operation = model.OperationSearch
	}

	compiled, err := query.NewCompiler(query.WithMaxDistance(maxDistance)).Compile(cmd.Context(), req)
	if err != nil {
		return err
	}

	var body any = compiled
	if req.Operation == model.OperationCount {
		body = compiled.CountBody()
	}
	out, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
