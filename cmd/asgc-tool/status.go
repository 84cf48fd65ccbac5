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

var Status = cli.Command{
	Action:    status,
	Name:      "status",
	Usage:     "reports the row counts of the live and staging account-state tables",
	ArgsUsage: "<directory>",
}

func status(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing directory storing account state")
	}
	dir := context.Args().Get(0)

	backend, err := storage.OpenBackend(dir)
	if err != nil {
		return fmt.Errorf("failed to open account-state database: %v", err)
	}
	defer backend.Close()

	live := backend.Table(gc.LiveTableName)
	staging := backend.Table(gc.StagingTableName)

	liveEmpty, err := live.IsEmpty()
	if err != nil {
		return fmt.Errorf("failed to inspect live table: %v", err)
	}
	stagingEmpty, err := staging.IsEmpty()
	if err != nil {
		return fmt.Errorf("failed to inspect staging table: %v", err)
	}

	liveCount := 0
	if err := live.ForEach(func(hash [32]byte, node []byte) error {
		liveCount++
		return nil
	}); err != nil {
		return fmt.Errorf("failed to count live table rows: %v", err)
	}

	stagingCount := 0
	if err := staging.ForEach(func(hash [32]byte, node []byte) error {
		stagingCount++
		return nil
	}); err != nil {
		return fmt.Errorf("failed to count staging table rows: %v", err)
	}

	fmt.Printf("Account-state database at %s:\n", dir)
	fmt.Printf("\tlive table:    %d rows (empty=%v)\n", liveCount, liveEmpty)
	fmt.Printf("\tstaging table: %d rows (empty=%v)\n", stagingCount, stagingEmpty)
	if !stagingEmpty {
		fmt.Printf("\ta swap is pending; run 'asgc-tool promote %s' before the node reads account state\n", dir)
	}
	return nil
}
