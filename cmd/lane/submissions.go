package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/lanes/internal/client"
)

var (
	submitPayload string
	listStatus    []string
	listActor     string
	listLimit     int
	listOffset    int
	downloadOut   string
)

func init() {
	submitCmd.Flags().StringVarP(&submitPayload, "payload", "p", "", "JSON payload (reads stdin when \"-\" or empty)")
	listCmd.Flags().StringSliceVar(&listStatus, "status", nil, "filter by status (queued, running, done, error)")
	listCmd.Flags().StringVar(&listActor, "actor-id", "", "filter by actor id (superuser only)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "max submissions to return")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "pagination offset")
	downloadCmd.Flags().StringVarP(&downloadOut, "output", "o", "", "write result to file instead of stdout")
}

// readPayload resolves the submit payload from the flag or stdin.
func readPayload() (json.RawMessage, error) {
	if submitPayload != "" && submitPayload != "-" {
		return json.RawMessage(submitPayload), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading payload from stdin: %w", err)
	}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload: pass --payload or pipe JSON on stdin")
	}
	return data, nil
}

var submitCmd = &cobra.Command{
	Use:   "submit <kind>",
	Short: "Submit a payload to an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		resp, err := api.Submit(context.Background(), args[0], payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(resp)
		} else {
			fmt.Printf("%s  %s\n", resp.ID, resp.Status)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List submissions for an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.ListSubmissions(context.Background(), args[0], &client.ListSubmissionsRequest{
			Status:  listStatus,
			ActorID: listActor,
			Limit:   listLimit,
			Offset:  listOffset,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(resp)
		} else {
			printSubmissionTable(resp.Submissions, resp.Total)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <kind> <id>",
	Short: "Show details of a submission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := api.GetSubmission(context.Background(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(sub)
		} else {
			printSubmission(sub)
		}
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <kind> <id>",
	Short: "Download the result of a completed submission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.Download(context.Background(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if downloadOut != "" {
			if err := os.WriteFile(downloadOut, resp.Data, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("wrote %d bytes to %s\n", len(resp.Data), downloadOut)
			return nil
		}
		_, _ = os.Stdout.Write(resp.Data)
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events <kind> <id>",
	Short: "Show the audit trail of a submission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		evts, err := api.GetSubmissionEvents(context.Background(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOut {
			printJSON(evts)
		} else {
			printAuditTable(evts)
		}
		return nil
	},
}
