package bot

import (
	"regexp"
	"strings"
)

// CommandPrefix marks a message as a command without mentioning the bot.
const CommandPrefix = "!"

// Command is a parsed chat command. Name is lowercased; Args keep their case.
type Command struct {
	Name string
	Args []string
}

// Site returns the first argument, or fallback when there is none.
func (c Command) Site(fallback string) string {
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	return fallback
}

// Parser recognises messages addressed to one bot.
type Parser struct {
	mention *regexp.Regexp
}

func NewParser(botID string) *Parser {
	return &Parser{mention: regexp.MustCompile(`<@!?` + regexp.QuoteMeta(botID) + `>`)}
}

// Parse extracts a command from content addressed with a mention of the bot
// (first occurrence stripped) or a leading "!". It reports false for anything
// else.
func (p *Parser) Parse(content string) (Command, bool) {
	var rest string
	switch {
	case p.mention.MatchString(content):
		loc := p.mention.FindStringIndex(content)
		rest = content[:loc[0]] + content[loc[1]:]
	case strings.HasPrefix(content, CommandPrefix):
		rest = strings.TrimPrefix(content, CommandPrefix)
	default:
		return Command{}, false
	}

	parts := strings.Fields(rest)
	cmd := Command{Args: []string{}}
	if len(parts) > 0 {
		cmd.Name = strings.ToLower(parts[0])
		cmd.Args = parts[1:]
	}
	return cmd, true
}
