// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikisvc/wikiweb/pkg/adapter/config"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/initdbuc"
)

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data.
The database connection information are read from the config file.
No changes will be made to the config file itself.
` + credsRenewalMessage + `

The users and posts tables will be dropped if they exist from a
previous run, the normal role will be created and granted its
privileges if it is missing, and then the tables will be recreated
and left empty since the real contents are going to arrive over the
REST APIs.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

func initProd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	c.Log.Setup()
	iduc := initdbuc.New(c)
	if err := iduc.InitProd(ctx); err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initProdCmd)
}
