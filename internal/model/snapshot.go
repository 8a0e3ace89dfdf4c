package model

// Snapshot is the canonical application state held by the hub store. The hub
// holds messages for the currently active conversation only, never a global
// message cache.
type Snapshot struct {
	Spaces             []Space        `json:"spaces"`
	ActiveSpace        *Space         `json:"active_space"`
	Conversations      []Conversation `json:"conversations"`
	ActiveConversation *Conversation  `json:"active_conversation"`
	Messages           []Message      `json:"messages"`
	InitialDataLoaded  bool           `json:"initial_data_loaded"`
}

// Clone returns a deep copy of the snapshot so callers can never alias the
// store's internal state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{InitialDataLoaded: s.InitialDataLoaded}
	if s.Spaces != nil {
		out.Spaces = make([]Space, len(s.Spaces))
		for i, sp := range s.Spaces {
			out.Spaces[i] = sp
			out.Spaces[i].ChatModeConfig = cloneConfig(sp.ChatModeConfig)
		}
	}
	if s.ActiveSpace != nil {
		sp := *s.ActiveSpace
		sp.ChatModeConfig = cloneConfig(sp.ChatModeConfig)
		out.ActiveSpace = &sp
	}
	if s.Conversations != nil {
		out.Conversations = make([]Conversation, len(s.Conversations))
		copy(out.Conversations, s.Conversations)
	}
	if s.ActiveConversation != nil {
		c := *s.ActiveConversation
		out.ActiveConversation = &c
	}
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		for i, m := range s.Messages {
			out.Messages[i] = m
			if m.Annotations != nil {
				out.Messages[i].Annotations = append([]string(nil), m.Annotations...)
			}
		}
	}
	return out
}

func cloneConfig(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneConfig(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return tv
	}
}

// SpacePayload is the wire form of a space with normalized timestamps.
type SpacePayload struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Model          string         `json:"model"`
	Provider       string         `json:"provider"`
	ChatMode       string         `json:"chat_mode,omitempty"`
	ChatModeConfig map[string]any `json:"chat_mode_config,omitempty"`
	Color          string         `json:"color,omitempty"`
	UserID         string         `json:"user_id"`
	IsDeleted      bool           `json:"is_deleted,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

// ConversationPayload is the wire form of a conversation.
type ConversationPayload struct {
	ID        string `json:"id"`
	SpaceID   string `json:"space_id"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"is_deleted,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MessagePayload is the wire form of a message.
type MessagePayload struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id"`
	UserID         string   `json:"user_id"`
	Role           string   `json:"role"`
	Content        string   `json:"content"`
	Annotations    []string `json:"annotations"`
	ModelUsed      string   `json:"model_used,omitempty"`
	Provider       string   `json:"provider,omitempty"`
	IsDeleted      bool     `json:"is_deleted,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// SnapshotPayload is the sanitized, broadcast-safe form of a snapshot. All
// slices are non-nil and all timestamps are RFC3339 UTC strings so every
// window observes a byte-identical encoding of the same state.
type SnapshotPayload struct {
	Spaces             []SpacePayload        `json:"spaces"`
	ActiveSpace        *SpacePayload         `json:"active_space"`
	Conversations      []ConversationPayload `json:"conversations"`
	ActiveConversation *ConversationPayload  `json:"active_conversation"`
	Messages           []MessagePayload      `json:"messages"`
	InitialDataLoaded  bool                  `json:"initial_data_loaded"`
}
