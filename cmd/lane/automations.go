package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List registered automations",
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := api.ListAutomations(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(descs)
		} else {
			printDescriptorTable(descs)
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <kind>",
	Short: "Show the payload schema of an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := api.GetSchema(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(desc)
		} else {
			printDescriptor(desc)
		}
		return nil
	},
}
