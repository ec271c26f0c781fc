package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphmail.evalgo.org/common"
)

func init() {
	RootCmd.AddCommand(foldersCmd)
	foldersCmd.Flags().String("create", "", "create a folder with the given display name")
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "list or create mail folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
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

		if name, _ := cmd.Flags().GetString("create"); name != "" {
			folder, err := mailbox.EnsureFolder(ctx, name)
			if err != nil {
				return err
			}
			id := ""
			if folder.GetId() != nil {
				id = *folder.GetId()
			}
			fmt.Printf("Folder %q ready (ID: %s)\n", name, id)
			return nil
		}

		folders, err := mailbox.Folders(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Found %d mail folders:\n", len(folders))
		for _, folder := range folders {
			name := "(unnamed)"
			if folder.GetDisplayName() != nil {
				name = *folder.GetDisplayName()
			}
			total, unread := int32(0), int32(0)
			if folder.GetTotalItemCount() != nil {
				total = *folder.GetTotalItemCount()
			}
			if folder.GetUnreadItemCount() != nil {
				unread = *folder.GetUnreadItemCount()
			}
			fmt.Printf("  %-30s %5d items, %4d unread\n", name, total, unread)
		}
		return nil
	},
}
