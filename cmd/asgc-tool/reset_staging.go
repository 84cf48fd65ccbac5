// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/fantom-foundation/carmen-asgc/go/gc"
	"github.com/fantom-foundation/carmen-asgc/go/storage"
)

var ResetStaging = cli.Command{
	Action:    resetStaging,
	Name:      "reset-staging",
	Usage:     "drops the staging table without promoting it, abandoning a stuck swap",
	ArgsUsage: "<directory>",
}

func resetStaging(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing directory storing account state")
	}
	dir := context.Args().Get(0)

	backend, err := storage.OpenBackend(dir)
	if err != nil {
		return fmt.Errorf("failed to open account-state database: %v", err)
	}
	defer backend.Close()

	staging := backend.Table(gc.StagingTableName)
	if err := staging.Drop(); err != nil {
		return fmt.Errorf("failed to drop staging table: %v", err)
	}
	fmt.Println("staging table dropped")
	return nil
}
