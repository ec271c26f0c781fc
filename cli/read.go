package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphmail.evalgo.org/cloud"
	"graphmail.evalgo.org/common"
)

func init() {
	RootCmd.AddCommand(readCmd)
	readCmd.Flags().Bool("unread", false, "only list unread messages")
	readCmd.Flags().Int32("top", cloud.DefaultMessageLimit, "number of messages to retrieve")
	readCmd.Flags().String("detail", "", "show a single message by ID instead of listing")
	readCmd.Flags().Bool("mark-read", false, "mark the detailed message as read (requires --detail)")
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "list inbox messages",
	Long: `List the newest messages from the signed-in user's inbox.

With --unread only unread messages are listed. With --detail <message-id>
a single message is shown in full, with HTML bodies converted to readable
plain text; --mark-read additionally marks that message as read.`,
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

		if messageID, _ := cmd.Flags().GetString("detail"); messageID != "" {
			message, err := mailbox.Message(ctx, messageID)
			if err != nil {
				return err
			}
			fmt.Print(cloud.FormatMessage(message))

			if markRead, _ := cmd.Flags().GetBool("mark-read"); markRead {
				if err := mailbox.MarkRead(ctx, messageID); err != nil {
					return err
				}
				common.Logger.WithField("message_id", messageID).Info("Marked as read")
			}
			return nil
		}

		unread, _ := cmd.Flags().GetBool("unread")
		top, _ := cmd.Flags().GetInt32("top")

		messages, err := mailbox.InboxMessages(ctx, cloud.ListOptions{
			UnreadOnly: unread,
			Top:        top,
		})
		if err != nil {
			return err
		}

		fmt.Print(cloud.FormatMessageList(messages))
		return nil
	},
}
