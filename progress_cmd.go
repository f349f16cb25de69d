package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	pushProgress bool
	cliToken     string
	cliCookie    string
)

var progressCmd = &cobra.Command{
	Use:   "progress <projectID>",
	Short: "Recompute one project's progress against the collaborator",
	Long: `Computes the project's completion percentage from its tasks and subtasks
and prints the report as JSON. With --push the value is also written back
and the attempt recorded in the progress activity log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || projectID <= 0 {
			return fmt.Errorf("invalid project id %q", args[0])
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		result, err := a.progress(withCredentials(ctx, cliToken, cliCookie), projectID, pushProgress)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	progressCmd.Flags().BoolVar(&pushProgress, "push", false, "write the computed value back to the collaborator")
	progressCmd.Flags().StringVar(&cliToken, "token", "", "bearer token for the collaborator")
	progressCmd.Flags().StringVar(&cliCookie, "cookie", "", "session cookie for the collaborator, e.g. JSESSIONID=...")
}
