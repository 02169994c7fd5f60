package discord

// User is the subset of a Discord user object the bot reads.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot,omitempty"`
}

// Message is the subset of a Discord channel message the bot reads.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Author    User   `json:"author"`
	Content   string `json:"content"`
	Mentions  []User `json:"mentions"`
}

// MessagePayload is the body of a create-message request.
type MessagePayload struct {
	// Content is the plain message text
	Content string `json:"content,omitempty"`
	// Embeds holds rich embeds rendered below the content
	Embeds []Embed `json:"embeds,omitempty"`
}

// Embed is a Discord rich embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	// Timestamp is an ISO8601 timestamp shown in the embed footer
	Timestamp string `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}
