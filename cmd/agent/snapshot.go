package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <url>",
	Short: "Print the accessibility snapshot of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useCache, _ := cmd.Flags().GetBool("use-cache")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		container, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer container.Close()

		result, err := container.Snapshots.Snapshot(ctx, args[0], useCache)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), result)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Snapshot)
		return err
	},
}

func init() {
	snapshotCmd.Flags().Bool("use-cache", true, "Reuse cached snapshots of popular sites")
	snapshotCmd.Flags().Bool("json", false, "Print URL, token count and cache flag alongside the snapshot")
}
