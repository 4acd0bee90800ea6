package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewPullCmd requests the next assignment for an executor.
func NewPullCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "pull EXECUTOR_ID",
		Short: "Pull the next request for an executor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req, err := client.PullNext(args[0])
			if err != nil {
				return err
			}
			if req == nil {
				out.Success("Nothing to pull")
				return nil
			}

			out.Success(fmt.Sprintf("Request assigned: %s", req.ID))
			out.Print(requestHeaders, [][]string{requestRow(*req)}, req)
			return nil
		},
	}
}

// NewAutoCmd distributes the given requests across active executors.
func NewAutoCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "auto REQUEST_ID...",
		Short: "Distribute requests across active executors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			assigned, err := client.AutoDistribute(args)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Assigned %d of %d requests", assigned, len(args)))
			out.Print(
				[]string{"ASSIGNED", "REQUESTED"},
				[][]string{{strconv.Itoa(assigned), strconv.Itoa(len(args))}},
				map[string]int{"assigned": assigned, "requested": len(args)},
			)
			return nil
		},
	}
}

// NewStatsCmd reports distribution statistics.
func NewStatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show distribution statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			stats, err := client.Stats()
			if err != nil {
				return err
			}

			if out.jsonMode {
				out.JSON(stats)
				return nil
			}

			out.Table(
				[]string{"TOTAL", "PENDING", "ASSIGNED", "COMPLETED", "ACTIVE_EXECUTORS", "ERROR_PCT"},
				[][]string{{
					strconv.Itoa(stats.Total),
					strconv.Itoa(stats.Pending),
					strconv.Itoa(stats.Assigned),
					strconv.Itoa(stats.Completed),
					strconv.Itoa(stats.ActiveExecutors),
					strconv.FormatFloat(stats.ImbalancePercent, 'f', 2, 64),
				}},
			)

			if len(stats.Executors) == 0 {
				return nil
			}

			fmt.Fprintln(out.w)
			rows := make([][]string, len(stats.Executors))
			for i, e := range stats.Executors {
				rows[i] = []string{
					e.ID,
					e.Name,
					strconv.FormatBool(e.IsActive),
					strconv.Itoa(e.TotalAssigned),
					strconv.Itoa(e.ActualCount),
				}
			}
			out.Table([]string{"ID", "NAME", "ACTIVE", "TOTAL_ASSIGNED", "ACTUAL_COUNT"}, rows)
			return nil
		},
	}
}
