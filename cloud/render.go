package cloud

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
)

// previewLength is the maximum body preview length in message listings.
const previewLength = 100

// listSeparator divides entries in a rendered message list.
var listSeparator = strings.Repeat("-", 80)

// SenderAddress extracts the sender's email address from a message,
// returning "Unknown" when the nested model fields are absent.
func SenderAddress(message models.Messageable) string {
	from := message.GetFrom()
	if from == nil || from.GetEmailAddress() == nil || from.GetEmailAddress().GetAddress() == nil {
		return "Unknown"
	}
	return *from.GetEmailAddress().GetAddress()
}

// RecipientAddresses extracts the To recipients of a message.
func RecipientAddresses(message models.Messageable) []string {
	var addresses []string
	for _, recipient := range message.GetToRecipients() {
		if recipient.GetEmailAddress() != nil && recipient.GetEmailAddress().GetAddress() != nil {
			addresses = append(addresses, *recipient.GetEmailAddress().GetAddress())
		}
	}
	return addresses
}

// Subject returns the message subject or a placeholder when unset.
func Subject(message models.Messageable) string {
	if message.GetSubject() == nil {
		return "No Subject"
	}
	return *message.GetSubject()
}

// truncatePreview shortens a body preview to previewLength characters,
// truncating on a rune boundary so multibyte text stays valid UTF-8.
func truncatePreview(preview string) string {
	runes := []rune(preview)
	if len(runes) <= previewLength {
		return preview
	}
	return string(runes[:previewLength]) + "..."
}

// FormatMessageList renders a numbered plain-text listing of messages with
// read status, sender, subject, received time, and a short body preview.
func FormatMessageList(messages []models.Messageable) string {
	if len(messages) == 0 {
		return "No messages found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d messages:\n%s\n", len(messages), listSeparator)

	for i, message := range messages {
		status := "UNREAD"
		if message.GetIsRead() != nil && *message.GetIsRead() {
			status = "READ"
		}

		received := "Unknown"
		if message.GetReceivedDateTime() != nil {
			received = message.GetReceivedDateTime().Format(time.RFC1123)
		}

		preview := ""
		if message.GetBodyPreview() != nil {
			preview = truncatePreview(*message.GetBodyPreview())
		}

		id := "Unknown"
		if message.GetId() != nil {
			id = *message.GetId()
		}

		fmt.Fprintf(&b, "%d. [%s]\n", i+1, status)
		fmt.Fprintf(&b, "   From: %s\n", SenderAddress(message))
		fmt.Fprintf(&b, "   Subject: %s\n", Subject(message))
		fmt.Fprintf(&b, "   Received: %s\n", received)
		if preview != "" {
			fmt.Fprintf(&b, "   Preview: %s\n", preview)
		}
		fmt.Fprintf(&b, "   Message ID: %s\n%s\n", id, listSeparator)
	}

	return b.String()
}

// FormatMessage renders a single message in detail, converting an HTML body
// to readable plain text.
func FormatMessage(message models.Messageable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\n", SenderAddress(message))
	if recipients := RecipientAddresses(message); len(recipients) > 0 {
		fmt.Fprintf(&b, "To: %s\n", strings.Join(recipients, "; "))
	}
	fmt.Fprintf(&b, "Subject: %s\n", Subject(message))
	if message.GetReceivedDateTime() != nil {
		fmt.Fprintf(&b, "Received: %s\n", message.GetReceivedDateTime().Format(time.RFC1123))
	}
	if message.GetHasAttachments() != nil && *message.GetHasAttachments() {
		b.WriteString("Attachments: yes\n")
	}

	body := message.GetBody()
	if body != nil && body.GetContent() != nil {
		content := *body.GetContent()
		if body.GetContentType() != nil && *body.GetContentType() == models.HTML_BODYTYPE {
			content = HTMLToText(content)
		}
		fmt.Fprintf(&b, "%s\n%s\n", listSeparator, strings.TrimSpace(content))
	}

	return b.String()
}

var (
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reLineBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)
	reBlock      = regexp.MustCompile(`(?i)</?(p|div)[^>]*>`)
	reRule       = regexp.MustCompile(`(?i)<hr[^>]*>`)
	reBold       = regexp.MustCompile(`(?i)</?(b|strong)[^>]*>`)
	reItalic     = regexp.MustCompile(`(?i)</?(i|em)[^>]*>`)
	reAnchor     = regexp.MustCompile(`(?is)<a[^>]*href=["']([^"']*)["'][^>]*>(.*?)</a>`)
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts an HTML message body into readable plain text.
// Script and style blocks are dropped, basic block and emphasis markup is
// replaced with text equivalents, anchors keep their target URL, and all
// remaining tags are stripped before HTML entities are decoded.
func HTMLToText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	text := reScript.ReplaceAllString(htmlContent, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reLineBreak.ReplaceAllString(text, "\n")
	text = reBlock.ReplaceAllString(text, "\n")
	text = reRule.ReplaceAllString(text, "\n"+strings.Repeat("-", 50)+"\n")
	text = reBold.ReplaceAllString(text, "**")
	text = reItalic.ReplaceAllString(text, "*")
	text = reAnchor.ReplaceAllString(text, "$2 ($1)")
	text = reTag.ReplaceAllString(text, "")

	text = html.UnescapeString(text)
	text = reBlankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
