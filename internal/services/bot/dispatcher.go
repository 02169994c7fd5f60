// Package bot turns chat messages into commands and answers them.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
	"missioncontrol/internal/services/dashboard"
)

const (
	topRecommendations = 3
	historyDays        = 30
)

// Sender posts a reply to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, payload discord.MessagePayload) error
}

type Dispatcher struct {
	botID  string
	parser *Parser
	sender Sender
	data   ports.Dashboard
}

type Option func(*Dispatcher)

// WithDataSource makes audit, status and recommendations answer from real
// data instead of placeholder texts.
func WithDataSource(data ports.Dashboard) Option {
	return func(d *Dispatcher) { d.data = data }
}

func NewDispatcher(botID string, sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{botID: botID, parser: NewParser(botID), sender: sender}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleMessage answers one message if it is a command for this bot. Reply
// failures are logged, never returned.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg discord.Message) {
	if msg.Author.ID == d.botID {
		return
	}
	cmd, ok := d.parser.Parse(msg.Content)
	if !ok {
		return
	}

	logger := log.With().Str("channel", msg.ChannelID).Str("command", cmd.Name).Strs("args", cmd.Args).Logger()
	logger.Info().Str("author", msg.Author.Username).Msg("command received")

	start := time.Now()
	reply, err := d.Execute(ctx, cmd)
	if err != nil {
		logger.Error().Err(err).Msg("command failed")
		reply = errorText(err)
	}

	if err := d.sender.SendMessage(ctx, msg.ChannelID, discord.MessagePayload{Content: reply}); err != nil {
		logger.Error().Err(err).Msg("failed to send reply")
		return
	}
	logger.Info().Dur("took", time.Since(start)).Msg("reply sent")
}

// Execute runs a parsed command and returns the reply text.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (string, error) {
	site := cmd.Site(string(domain.DefaultSite))
	switch cmd.Name {
	case "audit":
		return d.audit(ctx, site)
	case "status":
		return d.status(ctx, site)
	case "recommendations":
		return d.recommendations(ctx, site)
	case "help":
		return helpText(), nil
	default:
		return unknownCommandText(cmd.Name), nil
	}
}

func (d *Dispatcher) audit(ctx context.Context, site string) (string, error) {
	if d.data == nil {
		return auditPlaceholder(site), nil
	}
	latest, err := d.data.LatestAudit(ctx, domain.Site(site))
	if err != nil {
		return "", err
	}
	if latest == nil {
		return auditText(site, nil, nil), nil
	}
	history, err := d.data.AuditHistory(ctx, domain.Site(site), historyDays)
	if err != nil {
		return "", err
	}
	var prev *domain.Audit
	if n := len(history); n >= 2 {
		prev = &history[n-2]
	}
	return auditText(site, latest, dashboard.AuditTrends(*latest, prev)), nil
}

func (d *Dispatcher) status(ctx context.Context, site string) (string, error) {
	if d.data == nil {
		return statusPlaceholder(site), nil
	}
	latest, err := d.data.LatestAudit(ctx, domain.Site(site))
	if err != nil {
		return "", err
	}
	critical, err := d.data.Findings(ctx, domain.FindingFilter{Site: domain.Site(site), Severity: domain.SeverityCritical})
	if err != nil {
		return "", err
	}
	return statusText(site, latest, len(critical)), nil
}

func (d *Dispatcher) recommendations(ctx context.Context, site string) (string, error) {
	if d.data == nil {
		return recommendationsPlaceholder(site), nil
	}
	recs, err := d.data.Recommendations(ctx, domain.Site(site))
	if err != nil {
		return "", err
	}
	open := lo.Filter(recs, func(r domain.Recommendation, _ int) bool { return r.Status != domain.StatusCompleted })
	return recommendationsText(site, lo.Slice(open, 0, topRecommendations)), nil
}
