package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Seed palette. Executors and requests draw from the same pool so a seeded
// server exercises both capability-matched and fallback assignment.
var (
	seedRegions = []string{"eu-west", "us-east", "ap-south"}
	seedTiers   = []string{"gold", "silver", "bronze"}
)

// NewSeedCmd populates a running server with sample executors and requests.
func NewSeedCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var executors int
	var requests int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample executors and requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if executors < 0 || requests < 0 {
				return fmt.Errorf("--executors and --requests must be non-negative")
			}

			// Names carry a per-invocation nonce so repeated seeds do not
			// collide on the unique name constraint.
			nonce := uuid.NewString()[:8]

			for i := 0; i < executors; i++ {
				req := CreateExecutorRequest{
					Name: fmt.Sprintf("executor-%s-%02d", nonce, i+1),
				}
				// Every third executor declares nothing and acts as a catch-all.
				if i%3 != 2 {
					req.Params = map[string]string{
						"region": seedRegions[i%len(seedRegions)],
						"tier":   seedTiers[i%len(seedTiers)],
					}
				}
				if _, err := client.CreateExecutor(req); err != nil {
					return fmt.Errorf("seeding executor %s: %w", req.Name, err)
				}
			}

			created := 0
			if requests > 0 {
				batch := make([]map[string]any, requests)
				for i := range batch {
					batch[i] = map[string]any{
						"source":   "seed",
						"sequence": i + 1,
						"parameters": map[string]any{
							"region": seedRegions[i%len(seedRegions)],
							"tier":   seedTiers[(i/2)%len(seedTiers)],
						},
					}
				}
				bulk, err := client.BulkCreateRequests(batch, "seed-"+nonce)
				if err != nil {
					return fmt.Errorf("seeding requests: %w", err)
				}
				created = bulk.Created
			}

			out.Success(fmt.Sprintf("Seeded %d executors and %d requests", executors, created))
			return nil
		},
	}

	cmd.Flags().IntVar(&executors, "executors", 3, "Number of executors to create")
	cmd.Flags().IntVar(&requests, "requests", 10, "Number of requests to create")

	return cmd
}
