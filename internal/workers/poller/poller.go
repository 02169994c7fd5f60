// Package poller watches chat channels for new messages and hands them to a
// handler, remembering the last message seen per channel.
package poller

import (
	"context"
	"maps"
	"math/big"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"missioncontrol/internal/adapters/discord"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultLimit    = 5
)

// Source lists the most recent messages of a channel. Discord returns them
// newest first; the poller does not rely on the order.
type Source interface {
	Messages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
}

// Handler processes one new message.
type Handler interface {
	HandleMessage(ctx context.Context, msg discord.Message)
}

// Channel is a polled channel and the name it is logged under.
type Channel struct {
	Name string
	ID   string
}

type Poller struct {
	source   Source
	handler  Handler
	channels []Channel
	file     *StateFile
	state    State
	interval time.Duration
	limit    int
	now      func() time.Time
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLimit(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

func New(source Source, handler Handler, channels []Channel, file *StateFile, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		handler:  handler,
		channels: channels,
		file:     file,
		state:    emptyState(),
		interval: DefaultInterval,
		limit:    DefaultLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a copy of the in-memory state.
func (p *Poller) State() State {
	return State{LastMessageIDs: maps.Clone(p.state.LastMessageIDs), LastCheck: p.state.LastCheck}
}

// Run loads the state once, then ticks until ctx is cancelled. The next tick
// is scheduled only after the previous one, including the state save, has
// finished. The state is saved once more on the way out.
func (p *Poller) Run(ctx context.Context) error {
	p.state = p.file.Load()
	log.Info().
		Dur("interval", p.interval).
		Int("channels", len(p.channels)).
		Str("state", p.file.Path()).
		Msg("poller started")

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("poller stopping, flushing state")
			if err := p.file.Save(p.state); err != nil {
				log.Error().Err(err).Msg("failed to save poller state")
				return err
			}
			return nil
		case <-timer.C:
			p.Tick(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Tick polls every channel once and saves the state. A failing channel is
// logged and the others are still polled.
func (p *Poller) Tick(ctx context.Context) {
	log.Debug().Time("at", p.now()).Msg("polling")

	for _, ch := range p.channels {
		if err := p.pollChannel(ctx, ch); err != nil {
			log.Error().Err(err).Str("channel", ch.Name).Msg("error polling channel")
		}
	}

	p.state.LastCheck = p.now().UnixMilli()
	if err := p.file.Save(p.state); err != nil {
		log.Error().Err(err).Msg("failed to save poller state")
	}
}

func (p *Poller) pollChannel(ctx context.Context, ch Channel) error {
	msgs, err := p.source.Messages(ctx, ch.ID, p.limit)
	if err != nil {
		return err
	}
	slices.SortFunc(msgs, func(a, b discord.Message) int { return compareIDs(a.ID, b.ID) })

	for _, msg := range msgs {
		if !isNewer(msg.ID, p.state.LastMessageIDs[ch.ID]) {
			continue
		}
		p.state.LastMessageIDs[ch.ID] = msg.ID

		log.Info().Str("channel", ch.Name).Str("author", msg.Author.Username).Msg("new message")
		p.handler.HandleMessage(ctx, msg)
	}
	return nil
}

// compareIDs orders snowflake ids numerically. Ids that do not parse sort
// before every valid id.
func compareIDs(a, b string) int {
	x, okA := new(big.Int).SetString(a, 10)
	y, okB := new(big.Int).SetString(b, 10)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return x.Cmp(y)
}

// isNewer compares snowflake ids numerically. Anything is newer than no id;
// an id that does not parse is never newer.
func isNewer(id, last string) bool {
	cur, ok := new(big.Int).SetString(id, 10)
	if !ok {
		log.Warn().Str("id", id).Msg("skipping message with non-numeric id")
		return false
	}
	if last == "" {
		return true
	}
	prev, ok := new(big.Int).SetString(last, 10)
	if !ok {
		return true
	}
	return cur.Cmp(prev) > 0
}
