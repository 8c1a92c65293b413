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

var renewPasswordsCmd = &cobra.Command{
	Use:   "renew-passwords",
	Short: "Replace database role passwords with fresh credentials",
	Long: `Replace database role passwords with fresh credentials
without touching the tables or their contents. The database connection
information are read from the config file. No changes will be made to
the config file itself.
` + credsRenewalMessage,
	RunE: renewPasswords,
	Args: cobra.NoArgs,
}

func renewPasswords(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	c.Log.Setup()
	iduc := initdbuc.New(c)
	if err := iduc.RenewPasswords(ctx); err != nil {
		return fmt.Errorf("renewing role passwords: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(renewPasswordsCmd)
}
