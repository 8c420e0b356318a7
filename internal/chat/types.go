package chat

// Message is the engine's view of a hosted chat message.
type Message struct {
	// ID is the platform identifier of the message
	ID string

	// ChannelID is the channel or thread the message lives in
	ChannelID string

	// AuthorID is the user that posted the message
	AuthorID string

	// Content is the plain-text body
	Content string
}

// Thread is the engine's view of a thread-like container.
type Thread struct {
	// ID is the platform identifier of the thread
	ID string

	// ParentID is the channel the thread was created in
	ParentID string

	// Name is the visible thread title
	Name string

	// Archived reports whether the thread has been closed
	Archived bool
}

// EmbedField is one name/value pair inside an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich formatted block attached to a message.
type Embed struct {
	Title       string
	Description string
	URL         string
	AuthorName  string
	AuthorIcon  string
	Fields      []EmbedField
}

// ControlStyle selects the visual style of a Control.
type ControlStyle int

const (
	ControlStylePrimary ControlStyle = iota
	ControlStyleSuccess
	ControlStyleDanger
	ControlStyleSecondary
)

// Control is one interactive button bound to a callback identifier.
type Control struct {
	// Label is the visible button text
	Label string

	// Style selects the button colour
	Style ControlStyle

	// ID is the callback identifier routed back to the engine on click
	ID string
}
