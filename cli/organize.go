package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphmail.evalgo.org/cloud"
	"graphmail.evalgo.org/common"
)

func init() {
	RootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().String("term", "", "subject search term (default from config)")
	organizeCmd.Flags().String("folder", "", "target folder display name (default from config)")
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "move messages matching a subject term into a folder",
	Long: `Run a single organize pass: find inbox messages whose subject contains
the search term and move them into the target folder. The folder is created
when it does not exist yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		term := cfg.Organize.Term
		if v, _ := cmd.Flags().GetString("term"); v != "" {
			term = v
		}
		folder := cfg.Organize.Folder
		if v, _ := cmd.Flags().GetString("folder"); v != "" {
			folder = v
		}
		if term == "" || folder == "" {
			return fmt.Errorf("both a search term and a target folder are required")
		}

		mailbox, err := newMailbox(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		user, err := mailbox.Me(ctx)
		if err != nil {
			return err
		}
		common.Logger.WithField("user", displayName(user)).Info("Authenticated")

		var result cloud.OrganizeResult
		err = common.LogOperation(common.ServiceLogger("graphmail"), "organize", func() error {
			result, err = mailbox.OrganizeBySubject(ctx, term, folder, nil)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("Moved %d of %d matching messages into %q\n",
			result.Moved, result.Matched, result.Folder)
		return nil
	},
}
