package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/lanes/internal/client"
	"github.com/alfredjeanlab/lanes/internal/ui"
)

var (
	serverURL string
	authToken string
	actorID   string
	roles     []string
	superuser bool
	jsonOut   bool

	api client.LanesClient
)

func defaultServer() string {
	if s := os.Getenv("LANES_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultActor() string {
	if a := os.Getenv("LANES_ACTOR"); a != "" {
		return a
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

func defaultRoles() []string {
	raw := os.Getenv("LANES_ROLES")
	if raw == "" {
		return nil
	}
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

var rootCmd = &cobra.Command{
	Use:   "lane",
	Short: "CLI client for the Lanes automation service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		api = client.NewHTTPClient(serverURL, authToken, client.Identity{
			ActorID:   actorID,
			Roles:     roles,
			Superuser: superuser,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if api != nil {
			api.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "lanes server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("LANES_AUTH_TOKEN"), "bearer token for the server")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", defaultActor(), "actor id to act as")
	rootCmd.PersistentFlags().StringSliceVar(&roles, "role", defaultRoles(), "role granted to the actor (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&superuser, "superuser", false, "act as a superuser")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
