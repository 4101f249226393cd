package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL  = "https://api.telegram.org"
	longPollTimeout = 30
	httpTimeout     = 35 * time.Second
)

// Update represents a Telegram update. Only fields we need.
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Member statuses returned by getChatMember.
const (
	MemberCreator       = "creator"
	MemberAdministrator = "administrator"
)

type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// ChatPermissions lists what ordinary members may send.
type ChatPermissions struct {
	CanSendMessages       bool `json:"can_send_messages"`
	CanSendAudios         bool `json:"can_send_audios"`
	CanSendDocuments      bool `json:"can_send_documents"`
	CanSendPhotos         bool `json:"can_send_photos"`
	CanSendVideos         bool `json:"can_send_videos"`
	CanSendVideoNotes     bool `json:"can_send_video_notes"`
	CanSendVoiceNotes     bool `json:"can_send_voice_notes"`
	CanSendPolls          bool `json:"can_send_polls"`
	CanSendOtherMessages  bool `json:"can_send_other_messages"`
	CanAddWebPagePreviews bool `json:"can_add_web_page_previews"`
}

// SendPermissions enables or disables every kind of message at once.
func SendPermissions(allow bool) ChatPermissions {
	return ChatPermissions{
		CanSendMessages:       allow,
		CanSendAudios:         allow,
		CanSendDocuments:      allow,
		CanSendPhotos:         allow,
		CanSendVideos:         allow,
		CanSendVideoNotes:     allow,
		CanSendVoiceNotes:     allow,
		CanSendPolls:          allow,
		CanSendOtherMessages:  allow,
		CanAddWebPagePreviews: allow,
	}
}

// BotCommand describes a bot command for the Telegram menu.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// ParseMarkdown selects Telegram's legacy Markdown formatting.
const ParseMarkdown = "Markdown"

// SendOptions are optional sendMessage parameters.
type SendOptions struct {
	ParseMode        string
	ReplyToMessageID int
}

// APIError is returned when Telegram answers with ok=false.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %d %s", e.Code, e.Description)
}

// Client is a minimal Telegram Bot API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// WithBaseURL overrides the Bot API base URL.
func (c *Client) WithBaseURL(url string) *Client {
	if url != "" {
		c.baseURL = url
	}
	return c
}

func (c *Client) url(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

// call posts body as JSON and decodes the result field into out.
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(method), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var wrapper struct {
		OK          bool            `json:"ok"`
		ErrorCode   int             `json:"error_code"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		if resp.StatusCode != http.StatusOK {
			return errors.New("telegram: unexpected status " + resp.Status)
		}
		return err
	}
	if !wrapper.OK {
		code := wrapper.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Code: code, Description: wrapper.Description}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(wrapper.Result, out)
}

// SendMessage sends text to chatID and returns the id of the sent message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (int, error) {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if opts != nil {
		if opts.ParseMode != "" {
			body["parse_mode"] = opts.ParseMode
		}
		if opts.ReplyToMessageID != 0 {
			body["reply_to_message_id"] = opts.ReplyToMessageID
		}
	}
	var sent Message
	if err := c.call(ctx, "sendMessage", body, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// GetUpdates long-polls for updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	body := map[string]any{
		"timeout":         longPollTimeout,
		"allowed_updates": []string{"message"},
	}
	if offset != 0 {
		body["offset"] = offset
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", body, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SetCommands registers the bot commands shown in the Telegram UI.
func (c *Client) SetCommands(ctx context.Context, commands []BotCommand) error {
	return c.call(ctx, "setMyCommands", map[string]any{"commands": commands}, nil)
}

// GetChatMember returns the membership of userID in chatID.
func (c *Client) GetChatMember(ctx context.Context, chatID, userID int64) (*ChatMember, error) {
	var m ChatMember
	if err := c.call(ctx, "getChatMember", map[string]any{"chat_id": chatID, "user_id": userID}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetChatPermissions sets the default member permissions of a group chat.
func (c *Client) SetChatPermissions(ctx context.Context, chatID int64, perms ChatPermissions) error {
	return c.call(ctx, "setChatPermissions", map[string]any{"chat_id": chatID, "permissions": perms}, nil)
}
