package model

// Status describes how the bot handled an incoming message.
type Status string

const (
	StatusReceived        Status = "received"
	StatusReplied         Status = "replied"
	StatusRejectedTime    Status = "rejected_time"
	StatusBlockedTime     Status = "blocked_time"
	StatusManuallyReplied Status = "manually_replied"
)

// Chat types reported by Telegram.
const (
	ChatPrivate    = "private"
	ChatGroup      = "group"
	ChatSupergroup = "supergroup"
)

// IsGroupChat reports whether the chat type is a group or a supergroup.
func IsGroupChat(chatType string) bool {
	return chatType == ChatGroup || chatType == ChatSupergroup
}

// MessageRecord is a single entry of the message history.
type MessageRecord struct {
	ID             int     `json:"id"`
	UserName       string  `json:"user_name"`
	UserID         int64   `json:"user_id"`
	ChatID         int64   `json:"chat_id"`
	ChatType       string  `json:"chat_type"`
	MessageText    string  `json:"message_text"`
	Timestamp      string  `json:"timestamp"`
	Status         Status  `json:"status"`
	RepliedBy      *int64  `json:"replied_by"`
	ReplyTimestamp *string `json:"reply_timestamp"`
}

// MarkManuallyReplied moves the record to manually_replied and stamps the admin.
// Calling it again overwrites the admin and the timestamp.
func (m *MessageRecord) MarkManuallyReplied(adminID int64, ts string) {
	m.Status = StatusManuallyReplied
	m.RepliedBy = &adminID
	m.ReplyTimestamp = &ts
}

// Stats holds aggregate counters over the message history.
type Stats struct {
	Total           int
	RepliedCount    int
	RejectedCount   int
	UniqueUserCount int
	TodayCount      int
}
