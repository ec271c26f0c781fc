package cli

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"graphmail.evalgo.org/auth"
	"graphmail.evalgo.org/common"
)

func init() {
	RootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().Bool("clear", false, "remove the cached token")
	tokensCmd.Flags().Bool("check", false, "verify the token by authenticating against Graph")
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "inspect the token cache",
	Long: `Show the state of the on-disk token cache: whether a token is present,
when it expires, and whether the server can run long-term without
re-authentication.

With --check the token is exercised with a real Graph call, which triggers
the device-code prompt when no valid cached token exists. With --clear the
cached token is removed, forcing re-authentication on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cache := auth.NewTokenCache(cfg.Token.CachePath)

		if clear, _ := cmd.Flags().GetBool("clear"); clear {
			if err := cache.Clear(); err != nil {
				return err
			}
			common.Logger.WithField("path", cache.Path()).Info("Token cache cleared")
			return nil
		}

		printCacheStatus(cache.Status())

		if check, _ := cmd.Flags().GetBool("check"); check {
			mailbox, err := newMailbox(cfg)
			if err != nil {
				return err
			}
			user, err := mailbox.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("\nAuthenticated as: %s\n", displayName(user))
			// The probe may have refreshed the cache; show the result
			printCacheStatus(cache.Status())
		}

		return nil
	},
}

// printCacheStatus renders a token cache status report.
func printCacheStatus(status auth.CacheStatus) {
	fmt.Printf("Token cache: %s\n", status.Path)

	if !status.Exists {
		fmt.Println("  Not found - the cache is created after the first authentication")
		return
	}

	fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(status.Size)))

	if status.ExpiresOn.IsZero() {
		fmt.Println("  Invalid token format")
		return
	}

	fmt.Printf("  Expires: %s (%s)\n", status.ExpiresOn.Format("2006-01-02 15:04:05"), humanize.Time(status.ExpiresOn))
	if status.Valid {
		fmt.Println("  Token persistence: working, no authentication prompt needed")
	} else {
		fmt.Println("  Token expired: next run will prompt for device-code authentication")
	}
}
