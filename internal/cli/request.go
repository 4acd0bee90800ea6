package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRequestCmd groups the request intake and inspection commands.
func NewRequestCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage requests",
	}

	cmd.AddCommand(
		newRequestCreateCmd(clientFn, outputFn),
		newRequestGetCmd(clientFn, outputFn),
		newRequestRecentCmd(clientFn, outputFn),
		newRequestCompleteCmd(clientFn, outputFn),
	)

	return cmd
}

var requestHeaders = []string{"ID", "STATUS", "ASSIGNED_TO", "PARAMETERS", "CREATED"}

func requestRow(r RequestResponse) []string {
	assignedTo := r.AssignedTo
	if assignedTo == "" {
		assignedTo = "-"
	}
	return []string{r.ID, r.Status, assignedTo, formatPayload(r.Params), r.CreatedAt}
}

func newRequestCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var params []string
	var body string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if body != "" && len(params) > 0 {
				return fmt.Errorf("--body and --param are mutually exclusive")
			}

			payload := map[string]any{}
			switch {
			case body != "":
				if err := json.Unmarshal([]byte(body), &payload); err != nil {
					return fmt.Errorf("invalid --body JSON: %w", err)
				}
			case len(params) > 0:
				kv, err := parseParams(params)
				if err != nil {
					return err
				}
				// Matching values live in the "parameters" sub-map.
				sub := make(map[string]any, len(kv))
				for k, v := range kv {
					sub[k] = v
				}
				payload["parameters"] = sub
			}

			req, err := client.CreateRequest(payload)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Request created: %s", req.ID))
			out.Print(requestHeaders, [][]string{requestRow(*req)}, req)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&params, "param", nil, "Matching parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&body, "body", "", "Full request payload as a JSON object")

	return cmd
}

func newRequestGetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show request details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req, err := client.GetRequest(args[0])
			if err != nil {
				return err
			}

			out.Print(requestHeaders, [][]string{requestRow(*req)}, req)
			return nil
		},
	}
}

func newRequestRecentCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the newest requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			reqs, err := client.RecentRequests(limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(reqs))
			for i, r := range reqs {
				rows[i] = requestRow(r)
			}

			out.Print(requestHeaders, rows, reqs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (server default if unset)")

	return cmd
}

func newRequestCompleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark an assigned request completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req, err := client.CompleteRequest(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Request completed: %s", req.ID))
			out.Print(requestHeaders, [][]string{requestRow(*req)}, req)
			return nil
		},
	}
}

// formatPayload renders a request payload compactly for table output.
func formatPayload(params map[string]any) string {
	if len(params) == 0 {
		return "-"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "?"
	}
	const max = 60
	s := string(data)
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
