package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/adapters/memory"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
	"missioncontrol/internal/services/dashboard"
)

type sent struct {
	channel string
	payload discord.MessagePayload
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (s *recordingSender) SendMessage(_ context.Context, channelID string, payload discord.MessagePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{channel: channelID, payload: payload})
	return s.err
}

func message(author, content string) discord.Message {
	return discord.Message{
		ID:        "1",
		ChannelID: "chan-1",
		Author:    discord.User{ID: author, Username: "tester"},
		Content:   content,
	}
}

var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func dataSource() ports.Dashboard {
	clock := func() time.Time { return now }
	return dashboard.New(memory.New(memory.WithClock(clock)), dashboard.WithClock(clock))
}

func TestHandleMessage_IgnoresOwnMessages(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(testBotID, sender)

	d.HandleMessage(context.Background(), message(testBotID, "!help"))
	assert.Empty(t, sender.sent)
}

func TestHandleMessage_IgnoresNonCommands(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(testBotID, sender)

	d.HandleMessage(context.Background(), message("u1", "good morning"))
	assert.Empty(t, sender.sent)
}

func TestHandleMessage_Help(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(testBotID, sender)

	d.HandleMessage(context.Background(), message("u1", "<@"+testBotID+"> help"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "chan-1", sender.sent[0].channel)
	assert.Equal(t, helpText(), sender.sent[0].payload.Content)
}

func TestHandleMessage_Unknown(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(testBotID, sender)

	d.HandleMessage(context.Background(), message("u1", "!Deploy now"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].payload.Content, "❓ Unknown command: `deploy`")
	assert.Contains(t, sender.sent[0].payload.Content, "**Available Commands:**")
}

func TestHandleMessage_SendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("discord down")}
	d := NewDispatcher(testBotID, sender)

	assert.NotPanics(t, func() {
		d.HandleMessage(context.Background(), message("u1", "!help"))
	})
	assert.Len(t, sender.sent, 1)
}

type failingData struct{ ports.Dashboard }

func (failingData) LatestAudit(context.Context, domain.Site) (*domain.Audit, error) {
	return nil, errors.New("database unavailable")
}

func TestHandleMessage_ErrorReply(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(testBotID, sender, WithDataSource(failingData{}))

	d.HandleMessage(context.Background(), message("u1", "!audit"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t,
		"❌ Error: database unavailable\n\nTry `@Open Claw help` for available commands.",
		sender.sent[0].payload.Content)
}

func TestExecute_Placeholders(t *testing.T) {
	d := NewDispatcher(testBotID, &recordingSender{})
	ctx := context.Background()

	audit, err := d.Execute(ctx, Command{Name: "audit", Args: []string{}})
	require.NoError(t, err)
	assert.Contains(t, audit, "📊 **Bruce A/C - Latest Audit**")
	assert.Contains(t, audit, "**Expected Next Audit:** Monday 6 AM PST")

	status, err := d.Execute(ctx, Command{Name: "status", Args: []string{"meraki"}})
	require.NoError(t, err)
	assert.Contains(t, status, "🟢 **Meraki Restoration - Status**")
	assert.Contains(t, status, "Last audit: Pending (first run Monday)")
	assert.Contains(t, status, "`@Open Claw audit meraki`")

	recs, err := d.Execute(ctx, Command{Name: "recommendations", Args: []string{"anything"}})
	require.NoError(t, err)
	assert.Contains(t, recs, "💡 **Meraki Restoration - Top Recommendations**")
}

func TestExecute_WithData(t *testing.T) {
	d := NewDispatcher(testBotID, &recordingSender{}, WithDataSource(dataSource()))
	ctx := context.Background()

	audit, err := d.Execute(ctx, Command{Name: "audit", Args: []string{"bruceac"}})
	require.NoError(t, err)
	assert.Contains(t, audit, "Lighthouse Score: **74/100** (-3.9%)")
	assert.Contains(t, audit, "Audited: 2026-03-04 12:00 UTC")

	status, err := d.Execute(ctx, Command{Name: "status", Args: []string{}})
	require.NoError(t, err)
	assert.Contains(t, status, "🔴 **Bruce A/C - Status**")
	assert.Contains(t, status, "Open critical findings: 1")

	recs, err := d.Execute(ctx, Command{Name: "recommendations", Args: []string{"meraki"}})
	require.NoError(t, err)
	assert.Contains(t, recs, "1. **Repair quote form email validation edge cases**")
	assert.Contains(t, recs, "2. **Add location pages for top ZIPs**")
}

func TestExecute_UnknownSiteWithData(t *testing.T) {
	d := NewDispatcher(testBotID, &recordingSender{}, WithDataSource(dataSource()))

	audit, err := d.Execute(context.Background(), Command{Name: "audit", Args: []string{"acme"}})
	require.NoError(t, err)
	assert.Contains(t, audit, "No audit data yet for `acme`")
}
