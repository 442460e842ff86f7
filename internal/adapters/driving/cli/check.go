package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkLive bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and, optionally, Google credentials",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkLive, "live", false, "perform a live token refresh against Google")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if err := appConfig.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "config ok: %s\n", appConfig.Path)
	fmt.Fprintf(out, "timezone: %s\n", appConfig.Timezone)
	fmt.Fprintf(out, "calendar: %s\n", appConfig.CalendarID)

	if !checkLive {
		return nil
	}

	if _, err := tokenProvider.AccessToken(cmd.Context()); err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}
	fmt.Fprintln(out, "token refresh ok")
	return nil
}
