package cmdHandlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/model"
	"github.com/ilinovom/working-hours-bot/internal/repository"
	"github.com/ilinovom/working-hours-bot/internal/service"
	"github.com/ilinovom/working-hours-bot/pkg/telegram"
)

type apiCall struct {
	method string
	body   map[string]any
}

// fakeBotAPI records every Bot API call and answers with canned results.
type fakeBotAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	status string
}

func (f *fakeBotAPI) handler(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	method := parts[len(parts)-1]
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, body: body})
	status := f.status
	f.mu.Unlock()

	switch method {
	case "getChatMember":
		w.Write([]byte(`{"ok":true,"result":{"status":"` + status + `","user":{"id":1}}}`))
	case "sendMessage":
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"chat":{"id":1,"type":"private"}}}`))
	default:
		w.Write([]byte(`{"ok":true,"result":true}`))
	}
}

func (f *fakeBotAPI) setStatus(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *fakeBotAPI) sent() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []apiCall{}
	for _, c := range f.calls {
		if c.method == "sendMessage" {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBotAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

// tgChatAPI adapts the client to the synchronizer.
type tgChatAPI struct{ c *telegram.Client }

func (a tgChatAPI) SetChatPermissions(ctx context.Context, chatID int64, allow bool) error {
	return a.c.SetChatPermissions(ctx, chatID, telegram.SendPermissions(allow))
}

func (a tgChatAPI) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := a.c.SendMessage(ctx, chatID, text, nil)
	return err
}

type fixture struct {
	h   *CmdHandler
	api *fakeBotAPI
	svc *service.MessageService
}

func newFixture(t *testing.T, hour int) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Fatal(err)
	}
	w, err := service.NewWindow(model.DefaultWindow, loc)
	if err != nil {
		t.Fatal(err)
	}
	w.WithClock(func() time.Time { return time.Date(2024, 3, 1, hour, 30, 0, 0, loc) })

	repo := repository.NewFileMessageRepository(filepath.Join(t.TempDir(), "messages.json"), repository.DefaultCapacity)
	api := &fakeBotAPI{status: "member"}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	tg := telegram.NewClient("TOKEN").WithBaseURL(srv.URL)
	cfg := &config.Config{Messages: config.DefaultMessages}
	svc := service.NewMessageService(repo, w)
	perms := service.NewPermissionSync(w, svc, tgChatAPI{tg}, nil, StatusNotice(cfg.Messages))
	return &fixture{h: NewCmdHandler(cfg, svc, w, perms, tg), api: api, svc: svc}
}

func groupMsg(text string) *telegram.Message {
	return &telegram.Message{
		MessageID: 10,
		From:      &telegram.User{ID: 42, FirstName: "Ann"},
		Chat:      telegram.Chat{ID: -100, Type: model.ChatSupergroup},
		Text:      text,
	}
}

func privateMsg(text string) *telegram.Message {
	return &telegram.Message{
		MessageID: 11,
		From:      &telegram.User{ID: 42, FirstName: "Ann"},
		Chat:      telegram.Chat{ID: 42, Type: model.ChatPrivate},
		Text:      text,
	}
}

func TestParseCommand(t *testing.T) {
	cmd, args, ok := parseCommand("/Set_Hours@hours_bot 9 22")
	if !ok || cmd != "/set_hours" || len(args) != 2 || args[0] != "9" {
		t.Fatalf("got %q %v %v", cmd, args, ok)
	}
	if _, _, ok := parseCommand("hello /start"); ok {
		t.Fatal("plain text parsed as command")
	}
}

func TestEscapeAndTruncate(t *testing.T) {
	if got := escapeMarkdown("a_b*[c]"); got != `a\_b\*\[c\]` {
		t.Fatalf("escape = %q", got)
	}
	if got := truncate("привіт", 3); got != "при..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("hi", 3); got != "hi" {
		t.Fatalf("truncate = %q", got)
	}
	parts := splitRunes(strings.Repeat("я", 9), 4)
	if len(parts) != 3 || parts[2] != "я" {
		t.Fatalf("split = %v", parts)
	}
}

func TestHandleText_PrivateInsideAndOutsideWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.h.HandleMessages(ctx, privateMsg("hello"))
	closed := newFixture(t, 23)
	closed.h.HandleMessages(ctx, privateMsg("late"))

	recs, _ := f.svc.Recent(ctx, 10)
	if len(recs) != 1 || recs[0].Status != model.StatusReplied || recs[0].Timestamp != "10:30" {
		t.Fatalf("open record: %+v", recs)
	}
	if s := f.api.sent(); len(s) != 1 || !strings.Contains(s[0].body["text"].(string), "Дякую") {
		t.Fatalf("open reply: %+v", s)
	}

	recs, _ = closed.svc.Recent(ctx, 10)
	if len(recs) != 1 || recs[0].Status != model.StatusRejectedTime {
		t.Fatalf("closed record: %+v", recs)
	}
	if s := closed.api.sent(); len(s) != 1 || !strings.Contains(s[0].body["text"].(string), "08:00 до 23:00") {
		t.Fatalf("closed reply: %+v", s)
	}
}

func TestHandleText_GroupIsSilent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	msg := groupMsg("night")
	msg.From = nil
	f.h.HandleMessages(ctx, msg)

	recs, _ := f.svc.Recent(ctx, 10)
	if len(recs) != 1 || recs[0].Status != model.StatusBlockedTime || recs[0].UserName != "друже" {
		t.Fatalf("record: %+v", recs)
	}
	if n := len(f.api.sent()); n != 0 {
		t.Fatalf("group message got %d replies", n)
	}
}

func TestHistory_NonAdminInGroupIsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.h.HandleMessages(ctx, groupMsg("hi"))
	f.h.HandleMessages(ctx, groupMsg("/history"))

	sent := f.api.sent()
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	if sent[0].body["chat_id"].(float64) != -100 || sent[0].body["text"] != config.DefaultMessages["admin_only"] {
		t.Fatalf("unexpected reply: %+v", sent[0].body)
	}
}

func TestHistory_AdminGetsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.api.setStatus(telegram.MemberAdministrator)
	f.h.HandleMessages(ctx, groupMsg("use *bold* and snake_case"))
	f.h.HandleMessages(ctx, groupMsg("/history@hours_bot"))

	sent := f.api.sent()
	if len(sent) != 2 {
		t.Fatalf("expected two messages, got %d", len(sent))
	}
	private := sent[0].body
	if private["chat_id"].(float64) != 42 || private["parse_mode"] != telegram.ParseMarkdown {
		t.Fatalf("private copy: %+v", private)
	}
	text := private["text"].(string)
	if !strings.Contains(text, `\*bold\*`) || !strings.Contains(text, `snake\_case`) || !strings.Contains(text, "[ID: 1]") {
		t.Fatalf("history text: %s", text)
	}
	if sent[1].body["text"] != config.DefaultMessages["history_sent"] || sent[1].body["reply_to_message_id"].(float64) != 10 {
		t.Fatalf("group confirmation: %+v", sent[1].body)
	}
}

func TestStats_PrivateChat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.h.HandleMessages(ctx, privateMsg("/stats"))
	if s := f.api.sent(); len(s) != 1 || s[0].body["text"] != config.DefaultMessages["stats_empty"] {
		t.Fatalf("empty stats: %+v", s)
	}

	f.h.HandleMessages(ctx, privateMsg("one"))
	f.h.HandleMessages(ctx, privateMsg("/stats"))
	s := f.api.sent()
	text := s[len(s)-1].body["text"].(string)
	if !strings.Contains(text, "08:00 - 23:00") || !strings.Contains(text, "*Загальна кількість:* 1") {
		t.Fatalf("stats text: %s", text)
	}
}

func TestReplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.h.HandleMessages(ctx, privateMsg("question"))

	f.h.HandleMessages(ctx, privateMsg("/replied"))
	f.h.HandleMessages(ctx, privateMsg("/replied x"))
	f.h.HandleMessages(ctx, privateMsg("/replied 7"))
	f.h.HandleMessages(ctx, privateMsg("/replied 1"))

	sent := f.api.sent()[1:]
	want := []string{
		config.DefaultMessages["replied_usage"],
		config.DefaultMessages["replied_not_int"],
		"❌ Повідомлення з ID 7 не знайдено.",
	}
	for i, w := range want {
		if sent[i].body["text"] != w {
			t.Fatalf("reply %d = %v, want %q", i, sent[i].body["text"], w)
		}
	}
	rec, err := f.svc.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != model.StatusManuallyReplied || rec.RepliedBy == nil || *rec.RepliedBy != 42 {
		t.Fatalf("record: %+v", rec)
	}
}

func TestClearHistory_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.api.setStatus(telegram.MemberAdministrator)
	f.h.HandleMessages(ctx, groupMsg("hi"))
	f.h.HandleMessages(ctx, groupMsg("/clear_history"))
	if recs, _ := f.svc.Recent(ctx, 10); len(recs) != 1 {
		t.Fatal("administrator cleared the history")
	}

	f.api.setStatus(telegram.MemberCreator)
	f.h.HandleMessages(ctx, groupMsg("/clear_history"))
	f.h.HandleMessages(ctx, groupMsg("/clear_history"))
	sent := f.api.sent()
	if sent[1].body["text"] != config.DefaultMessages["clear_done"] || sent[2].body["text"] != config.DefaultMessages["clear_already_empty"] {
		t.Fatalf("replies: %v / %v", sent[1].body["text"], sent[2].body["text"])
	}
}

func TestSetHours_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	cases := map[string]string{
		"/set_hours 9":       config.DefaultMessages["set_hours_usage"],
		"/set_hours a 22":    config.DefaultMessages["set_hours_not_int"],
		"/set_hours 9 24":    config.DefaultMessages["set_hours_range"],
		"/set_hours 22 9":    config.DefaultMessages["set_hours_order"],
		"/set_hours 9 22 23": config.DefaultMessages["set_hours_usage"],
	}
	for cmd, want := range cases {
		f.h.HandleMessages(ctx, privateMsg(cmd))
		s := f.api.sent()
		if got := s[len(s)-1].body["text"]; got != want {
			t.Errorf("%s: got %v", cmd, got)
		}
	}
	if h := f.h.window.Hours(); h != model.DefaultWindow {
		t.Fatalf("hours changed to %v", h)
	}

	f.h.permissions.Statuses().Set(-100, model.ChatAllowed)
	f.h.HandleMessages(ctx, privateMsg("/set_hours 9 22"))
	if h := f.h.window.Hours(); h.StartHour != 9 || h.EndHour != 22 {
		t.Fatalf("hours = %v", h)
	}
	if f.h.permissions.Statuses().Len() != 0 {
		t.Fatal("status table not reset")
	}
	s := f.api.sent()
	if !strings.Contains(s[len(s)-1].body["text"].(string), "Було: 08:00 - 23:00") {
		t.Fatalf("confirmation: %v", s[len(s)-1].body["text"])
	}
}

func TestUpdatePermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	f.api.setStatus(telegram.MemberCreator)
	f.h.HandleMessages(ctx, groupMsg("/update_permissions"))

	if f.api.count("setChatPermissions") != 1 {
		t.Fatal("permissions not applied")
	}
	sent := f.api.sent()
	if len(sent) != 2 || !strings.Contains(sent[0].body["text"].(string), "Доброго ранку") || sent[1].body["text"] != config.DefaultMessages["permissions_updated"] {
		t.Fatalf("sent: %+v", sent)
	}
}

func TestShowHoursAndStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 23)
	f.h.HandleMessages(ctx, privateMsg("/show_hours"))
	f.h.HandleMessages(ctx, groupMsg("/start"))
	sent := f.api.sent()
	if !strings.Contains(sent[0].body["text"].(string), config.DefaultMessages["status_inactive"]) {
		t.Fatalf("show_hours: %v", sent[0].body["text"])
	}
	start := sent[1].body["text"].(string)
	if !strings.Contains(start, "Привіт, Ann!") || !strings.Contains(start, "Робота в групі") || !strings.Contains(start, "23:30") {
		t.Fatalf("start: %s", start)
	}
}
