package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewExecutorCmd groups the executor lifecycle commands.
func NewExecutorCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "executor",
		Short: "Manage executors",
	}

	cmd.AddCommand(
		newExecutorCreateCmd(clientFn, outputFn),
		newExecutorListCmd(clientFn, outputFn),
		newExecutorGetCmd(clientFn, outputFn),
		newExecutorActivateCmd(clientFn, outputFn, true),
		newExecutorActivateCmd(clientFn, outputFn, false),
	)

	return cmd
}

var executorHeaders = []string{"ID", "NAME", "PARAMETERS", "ACTIVE", "TOTAL_ASSIGNED", "CREATED"}

func executorRow(e ExecutorResponse) []string {
	return []string{
		e.ID,
		e.Name,
		formatParams(e.Params),
		strconv.FormatBool(e.IsActive),
		strconv.Itoa(e.TotalAssigned),
		e.CreatedAt,
	}
}

func newExecutorCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Register a new executor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateExecutorRequest{Name: args[0]}
			if len(params) > 0 {
				kv, err := parseParams(params)
				if err != nil {
					return err
				}
				req.Params = kv
			}

			exec, err := client.CreateExecutor(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Executor created: %s", exec.ID))
			out.Print(executorHeaders, [][]string{executorRow(*exec)}, exec)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&params, "param", nil, "Capability parameter as KEY=VALUE (repeatable)")

	return cmd
}

func newExecutorListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executors",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var filter *bool
			if cmd.Flags().Changed("active") {
				filter = &active
			}

			execs, err := client.ListExecutors(filter)
			if err != nil {
				return err
			}

			rows := make([][]string, len(execs))
			for i, e := range execs {
				rows[i] = executorRow(e)
			}

			out.Print(executorHeaders, rows, execs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Filter by active state")

	return cmd
}

func newExecutorGetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show executor details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			exec, err := client.GetExecutor(args[0])
			if err != nil {
				return err
			}

			out.Print(executorHeaders, [][]string{executorRow(*exec)}, exec)
			return nil
		},
	}
}

func newExecutorActivateCmd(clientFn func() *Client, outputFn func() *Output, activate bool) *cobra.Command {
	use, short, done := "activate ID", "Mark an executor active", "Executor activated: %s"
	if !activate {
		use, short, done = "deactivate ID", "Mark an executor inactive", "Executor deactivated: %s"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			exec, err := client.UpdateExecutor(args[0], UpdateExecutorRequest{IsActive: &activate})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf(done, exec.ID))
			out.Print(executorHeaders, [][]string{executorRow(*exec)}, exec)
			return nil
		},
	}
}

// parseParams turns KEY=VALUE pairs into a map.
func parseParams(pairs []string) (map[string]string, error) {
	kv := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid param format %q, expected KEY=VALUE", pair)
		}
		kv[parts[0]] = parts[1]
	}
	return kv, nil
}

// formatParams renders a capability map as sorted k=v pairs for table output.
func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	return strings.Join(pairs, ",")
}
