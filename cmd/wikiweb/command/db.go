// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import "github.com/spf13/cobra"

// credsRenewalMessage describes the passwords renewal behavior which
// is shared between the db sub-commands. It is included in their long
// help messages.
const credsRenewalMessage = `
Passwords of the database roles will be replaced by fresh random
credentials and recorded in the .pgpass file in the configured
passwords directory, so the web server command can connect to the
database later without any extra flag. An interrupted renewal leaves
a .pgpass.new file behind which will be picked up and finalized by
the next database connection attempt.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used and for replacing the database
role passwords of an existing installation with fresh random
credentials, the renew-passwords may be used.`,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
