// Package dialogue implements the conversational booking state machine: the
// per-session capture steps, the Redis-backed session store, and the two
// interchangeable strategies for obtaining a structured appointment time.
package dialogue

// Inbound is one user message as delivered by the messaging webhook.
type Inbound struct {
	From string // sender identifier (phone number)
	Body string
}

// Button is a quick-reply option.
type Button struct {
	ID   string `json:"id,omitempty"`
	Body string `json:"body"`
}

// ListRow is one selectable row of a list menu. ID is what the channel
// echoes back as the user's message body when the row is picked.
type ListRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListSection groups rows under a heading.
type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

// ListMenu is a structured list-with-sections menu, used for the date and
// time pickers.
type ListMenu struct {
	Header     string        `json:"header,omitempty"`
	Body       string        `json:"body"`
	Footer     string        `json:"footer,omitempty"`
	ButtonText string        `json:"buttonText"`
	Sections   []ListSection `json:"sections"`
}

// Reply is one outbound message: plain text, quick-reply buttons, or a list
// menu. Exactly one of the three shapes is populated.
type Reply struct {
	Text    string    `json:"text,omitempty"`
	Buttons []Button  `json:"buttons,omitempty"`
	List    *ListMenu `json:"list,omitempty"`
}

// TextReply builds a plain-text reply.
func TextReply(text string) Reply {
	return Reply{Text: text}
}
