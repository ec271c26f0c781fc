package cloud

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Test Fixtures =====

// staticCredential is a mock azcore.TokenCredential returning a fixed token
type staticCredential struct{}

func (staticCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "test-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func testMessage(id, subject, sender string, read bool) models.Messageable {
	message := models.NewMessage()
	message.SetId(&id)
	message.SetSubject(&subject)
	message.SetIsRead(&read)

	address := models.NewEmailAddress()
	address.SetAddress(&sender)
	recipient := models.NewRecipient()
	recipient.SetEmailAddress(address)
	message.SetFrom(recipient)

	received := time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)
	message.SetReceivedDateTime(&received)

	return message
}

func testFolder(id, displayName string) models.MailFolderable {
	folder := models.NewMailFolder()
	folder.SetId(&id)
	folder.SetDisplayName(&displayName)
	return folder
}

// ===== Client Construction =====

func TestNewMailbox(t *testing.T) {
	mailbox, err := NewMailbox(staticCredential{}, []string{"https://graph.microsoft.com/Mail.Read"})
	require.NoError(t, err)
	assert.NotNil(t, mailbox)
	assert.NotNil(t, mailbox.graph)
	assert.NotNil(t, mailbox.limiter)
}

func TestPtrInt32(t *testing.T) {
	p := ptrInt32(25)
	require.NotNil(t, p)
	assert.Equal(t, int32(25), *p)

	q := ptrInt32(25)
	assert.NotSame(t, p, q)
}

// ===== Subject Matching =====

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		term    string
		matches bool
	}{
		{"ExactMatch", "daily stand up", "daily stand up", true},
		{"CaseInsensitive", "Daily Stand Up - Team A", "daily stand up", true},
		{"Substring", "RE: Daily stand up notes", "daily stand up", true},
		{"NoMatch", "Quarterly review", "daily stand up", false},
		{"EmptySubject", "", "daily stand up", false},
		{"EmptyTerm", "daily stand up", "", false},
		{"TermUppercase", "reminder: daily stand up", "DAILY STAND UP", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, SubjectMatches(tt.subject, tt.term))
		})
	}
}

// ===== Folder Lookup =====

func TestFolderNamed(t *testing.T) {
	folders := []models.MailFolderable{
		testFolder("id-1", "Inbox"),
		testFolder("id-2", "Daily Meetings"),
		testFolder("id-3", "Archive"),
	}

	found := FolderNamed(folders, "daily meetings")
	require.NotNil(t, found)
	assert.Equal(t, "id-2", *found.GetId())

	assert.Nil(t, FolderNamed(folders, "does not exist"))
	assert.Nil(t, FolderNamed(nil, "Inbox"))
}

func TestFolderNamed_NilDisplayName(t *testing.T) {
	folder := models.NewMailFolder()
	id := "id-x"
	folder.SetId(&id)

	assert.Nil(t, FolderNamed([]models.MailFolderable{folder}, "anything"))
}

// ===== Message Accessors =====

func TestSenderAddress(t *testing.T) {
	message := testMessage("id-1", "hello", "alice@example.com", false)
	assert.Equal(t, "alice@example.com", SenderAddress(message))

	assert.Equal(t, "Unknown", SenderAddress(models.NewMessage()))
}

func TestSubject_Placeholder(t *testing.T) {
	assert.Equal(t, "No Subject", Subject(models.NewMessage()))
}

func TestRecipientAddresses(t *testing.T) {
	message := models.NewMessage()
	var recipients []models.Recipientable
	for _, addr := range []string{"bob@example.com", "carol@example.com"} {
		a := addr
		email := models.NewEmailAddress()
		email.SetAddress(&a)
		recipient := models.NewRecipient()
		recipient.SetEmailAddress(email)
		recipients = append(recipients, recipient)
	}
	message.SetToRecipients(recipients)

	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, RecipientAddresses(message))
	assert.Empty(t, RecipientAddresses(models.NewMessage()))
}

// ===== Rendering =====

func TestFormatMessageList(t *testing.T) {
	messages := []models.Messageable{
		testMessage("id-1", "daily stand up", "alice@example.com", false),
		testMessage("id-2", "lunch plans", "bob@example.com", true),
	}

	out := FormatMessageList(messages)
	assert.Contains(t, out, "Found 2 messages")
	assert.Contains(t, out, "[UNREAD]")
	assert.Contains(t, out, "[READ]")
	assert.Contains(t, out, "From: alice@example.com")
	assert.Contains(t, out, "Subject: daily stand up")
	assert.Contains(t, out, "Message ID: id-2")
}

func TestFormatMessageList_Empty(t *testing.T) {
	assert.Equal(t, "No messages found.\n", FormatMessageList(nil))
}

func TestFormatMessageList_LongPreview(t *testing.T) {
	message := testMessage("id-1", "subject", "alice@example.com", true)
	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}
	message.SetBodyPreview(&long)

	out := FormatMessageList([]models.Messageable{message})
	assert.Contains(t, out, long[:previewLength]+"...")
	assert.NotContains(t, out, long)
}

func TestTruncatePreview_MultibyteBoundary(t *testing.T) {
	long := strings.Repeat("ü", previewLength+50)

	got := truncatePreview(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", previewLength)+"...", got)

	short := "naïve café"
	assert.Equal(t, short, truncatePreview(short))
}

func TestFormatMessage_HTMLBody(t *testing.T) {
	message := testMessage("id-1", "welcome", "alice@example.com", true)

	content := "<p>Hello <b>world</b></p>"
	contentType := models.HTML_BODYTYPE
	body := models.NewItemBody()
	body.SetContent(&content)
	body.SetContentType(&contentType)
	message.SetBody(body)

	out := FormatMessage(message)
	assert.Contains(t, out, "Subject: welcome")
	assert.Contains(t, out, "Hello **world**")
	assert.NotContains(t, out, "<p>")
}

// ===== HTML Conversion =====

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Empty",
			html:     "",
			expected: "",
		},
		{
			name:     "PlainText",
			html:     "just text",
			expected: "just text",
		},
		{
			name:     "StripsTags",
			html:     "<div><p>Hello</p></div>",
			expected: "Hello",
		},
		{
			name:     "LineBreaks",
			html:     "first<br>second<br/>third",
			expected: "first\nsecond\nthird",
		},
		{
			name:     "Emphasis",
			html:     "<strong>bold</strong> and <em>italic</em>",
			expected: "**bold** and *italic*",
		},
		{
			name:     "AnchorKeepsURL",
			html:     `<a href="https://example.com">example</a>`,
			expected: "example (https://example.com)",
		},
		{
			name:     "DropsScript",
			html:     `before<script>alert("x")</script>after`,
			expected: "beforeafter",
		},
		{
			name:     "DropsStyle",
			html:     "before<style>p { color: red; }</style>after",
			expected: "beforeafter",
		},
		{
			name:     "Entities",
			html:     "fish &amp; chips &lt;now&gt;",
			expected: "fish & chips <now>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTMLToText(tt.html))
		})
	}
}

func TestHTMLToText_HorizontalRule(t *testing.T) {
	out := HTMLToText("above<hr>below")
	assert.Contains(t, out, "above")
	assert.Contains(t, out, "below")
	assert.Contains(t, out, "----------")
}

// ===== Error Wrapping =====

func TestGraphError_PlainError(t *testing.T) {
	base := errors.New("connection refused")
	err := graphError("fetching inbox messages", base)

	require.Error(t, err)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "fetching inbox messages")
}
