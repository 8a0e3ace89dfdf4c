package state

import (
	"time"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// Sanitize converts a snapshot into its broadcast-safe wire form. It is pure
// and deterministic: the same snapshot always produces a deep-equal payload,
// so every attached window observes an identical view after a commit.
// Timestamps become RFC3339 UTC strings and all slices are non-nil.
func Sanitize(snap model.Snapshot) model.SnapshotPayload {
	out := model.SnapshotPayload{
		Spaces:            make([]model.SpacePayload, 0, len(snap.Spaces)),
		Conversations:     make([]model.ConversationPayload, 0, len(snap.Conversations)),
		Messages:          make([]model.MessagePayload, 0, len(snap.Messages)),
		InitialDataLoaded: snap.InitialDataLoaded,
	}

	for _, sp := range snap.Spaces {
		out.Spaces = append(out.Spaces, sanitizeSpace(sp))
	}
	if snap.ActiveSpace != nil {
		sp := sanitizeSpace(*snap.ActiveSpace)
		out.ActiveSpace = &sp
	}
	for _, c := range snap.Conversations {
		out.Conversations = append(out.Conversations, sanitizeConversation(c))
	}
	if snap.ActiveConversation != nil {
		c := sanitizeConversation(*snap.ActiveConversation)
		out.ActiveConversation = &c
	}
	for _, m := range snap.Messages {
		out.Messages = append(out.Messages, sanitizeMessage(m))
	}

	return out
}

func sanitizeSpace(sp model.Space) model.SpacePayload {
	return model.SpacePayload{
		ID:             sp.ID,
		Name:           sp.Name,
		Description:    sp.Description,
		Model:          sp.Model,
		Provider:       sp.Provider,
		ChatMode:       sp.ChatMode,
		ChatModeConfig: sanitizeConfig(sp.ChatModeConfig),
		Color:          sp.Color,
		UserID:         sp.UserID,
		IsDeleted:      sp.IsDeleted,
		CreatedAt:      sanitizeTime(sp.CreatedAt),
		UpdatedAt:      sanitizeTime(sp.UpdatedAt),
	}
}

func sanitizeConversation(c model.Conversation) model.ConversationPayload {
	return model.ConversationPayload{
		ID:        c.ID,
		SpaceID:   c.SpaceID,
		Title:     c.Title,
		IsDeleted: c.IsDeleted,
		CreatedAt: sanitizeTime(c.CreatedAt),
		UpdatedAt: sanitizeTime(c.UpdatedAt),
	}
}

func sanitizeMessage(m model.Message) model.MessagePayload {
	annotations := m.Annotations
	if annotations == nil {
		annotations = []string{}
	} else {
		annotations = append([]string{}, annotations...)
	}
	return model.MessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		Content:        m.Content,
		Annotations:    annotations,
		ModelUsed:      m.ModelUsed,
		Provider:       m.Provider,
		IsDeleted:      m.IsDeleted,
		CreatedAt:      sanitizeTime(m.CreatedAt),
		UpdatedAt:      sanitizeTime(m.UpdatedAt),
	}
}

func sanitizeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// sanitizeConfig keeps only plain JSON-representable values. Anything else
// (functions, channels, handles smuggled in through the any type) is dropped.
func sanitizeConfig(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if sv, ok := sanitizeValue(v); ok {
			out[k] = sv
		}
	}
	return out
}

func sanitizeValue(v any) (any, bool) {
	switch tv := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return tv, true
	case time.Time:
		return sanitizeTime(tv), true
	case []any:
		out := make([]any, 0, len(tv))
		for _, item := range tv {
			if sv, ok := sanitizeValue(item); ok {
				out = append(out, sv)
			}
		}
		return out, true
	case map[string]any:
		return sanitizeConfig(tv), true
	default:
		return nil, false
	}
}
