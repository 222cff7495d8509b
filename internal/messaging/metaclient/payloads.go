package metaclient

// Button is one reply button on an interactive message.
type Button struct {
	ID    string
	Title string
}

// ListRow is one selectable row of a list message.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a title.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// List describes an interactive list message.
type List struct {
	Header     string
	Body       string
	Footer     string
	ButtonText string
	Sections   []ListSection
}

// MessageResponse is the Cloud API acknowledgement for an outbound send.
type MessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// ID returns the id of the first accepted message, or "".
func (r *MessageResponse) ID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// Wire shapes for the /messages endpoint.

type outboundMessage struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textPayload        `json:"text,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

type textPayload struct {
	Body string `json:"body,omitempty"`
	Text string `json:"text,omitempty"`
}

type headerPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type interactivePayload struct {
	Type   string         `json:"type"`
	Header *headerPayload `json:"header,omitempty"`
	Body   *textPayload   `json:"body,omitempty"`
	Footer *textPayload   `json:"footer,omitempty"`
	Action *actionPayload `json:"action,omitempty"`
}

type actionPayload struct {
	Button   string           `json:"button,omitempty"`
	Buttons  []buttonPayload  `json:"buttons,omitempty"`
	Sections []sectionPayload `json:"sections,omitempty"`
}

type buttonPayload struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type sectionPayload struct {
	Title string       `json:"title,omitempty"`
	Rows  []rowPayload `json:"rows"`
}

type rowPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
