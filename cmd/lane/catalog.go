package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/lanes/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the catalog visible to the actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := api.GetCatalog(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(cat)
			return nil
		}
		for _, c := range cat.Categories {
			fmt.Printf("%s  %s\n", ui.RenderAccent(c.ID), c.Label)
		}
		for _, b := range cat.Blocks {
			fmt.Printf("  %s  %s\n", b.Name, ui.RenderMuted(b.CategoryID))
		}
		return nil
	},
}

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Show the composed navigation for the actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := api.GetNavigation(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(groups)
			return nil
		}
		for _, g := range groups {
			fmt.Println(ui.RenderAccent(g.Category.Label))
			for _, b := range g.Blocks {
				fmt.Printf("  %s\n", b.Name)
			}
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := api.Health(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(status)
		return nil
	},
}
