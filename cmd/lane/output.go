package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printDescriptorTable(descs []automation.Descriptor) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tVERSION\tTITLE")
	for _, d := range descs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Kind, d.Version, d.Title)
	}
	w.Flush()
}

func printDescriptor(d *automation.Descriptor) {
	fmt.Printf("Kind:        %s\n", d.Kind)
	fmt.Printf("Version:     %s\n", d.Version)
	fmt.Printf("Title:       %s\n", d.Title)
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	fmt.Printf("Result:      %s\n", d.ResultContentType)
	if len(d.Fields) > 0 {
		fmt.Println("Fields:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tTYPE\tREQUIRED\tRULE")
		for _, f := range d.Fields {
			fmt.Fprintf(w, "  %s\t%s\t%t\t%s\n", f.Name, f.Type, f.Required, f.Rule)
		}
		w.Flush()
	}
}

func printSubmission(sub *model.Submission) {
	fmt.Printf("ID:         %s\n", sub.ID)
	fmt.Printf("Kind:       %s\n", sub.Kind)
	fmt.Printf("Version:    %s\n", sub.Version)
	fmt.Printf("Actor:      %s\n", sub.ActorID)
	fmt.Printf("Status:     %s\n", ui.RenderStatus(sub.Status))
	if sub.Error != "" {
		fmt.Printf("Error:      %s\n", sub.Error)
	}
	if len(sub.Result) > 0 {
		fmt.Printf("Result:     %s\n", sub.Result)
	}
	fmt.Printf("Created At: %s\n", sub.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At: %s\n", sub.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printSubmissionTable(subs []*model.Submission, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tACTOR\tCREATED")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			sub.ID,
			ui.RenderStatus(sub.Status),
			sub.ActorID,
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
	fmt.Printf("\n%d submissions (%d total)\n", len(subs), total)
}

func printAuditTable(evts []*model.AuditEvent) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tACTOR")
	for _, e := range evts {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Action,
			e.ActorID,
		)
	}
	w.Flush()
}
