package service

import (
	"context"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
)

// SpaceService implements the space sync operations.
type SpaceService struct {
	gw     Gateway
	store  *state.Store
	logger *logger.Logger
}

// NewSpaceService creates a new space service.
func NewSpaceService(gw Gateway, store *state.Store, log *logger.Logger) *SpaceService {
	return &SpaceService{gw: gw, store: store, logger: log}
}

// Create creates a space remotely and replaces the store's space view with
// the backend's post-create view, which includes the default conversation.
func (s *SpaceService) Create(ctx context.Context, req *model.CreateSpaceRequest) (*model.Space, error) {
	if req == nil || req.Name == "" {
		return nil, validationf("space name is required")
	}

	view, err := s.gw.CreateSpace(ctx, req)
	if err != nil {
		return nil, err
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		next.Spaces = view.Spaces
		next.ActiveSpace = view.ActiveSpace
		next.Conversations = view.Conversations
		next.Messages = view.Messages
		if len(view.Conversations) > 0 {
			first := view.Conversations[0]
			next.ActiveConversation = &first
		} else {
			next.ActiveConversation = nil
		}
		if next.Messages == nil {
			next.Messages = []model.Message{}
		}
		return next
	})

	created := view.ActiveSpace
	if created == nil && len(view.Spaces) > 0 {
		created = &view.Spaces[0]
	}
	s.logger.Infow("space created", "space_id", spaceID(created))
	return created, nil
}

// Update applies a partial update to a space's name/description/chat mode.
func (s *SpaceService) Update(ctx context.Context, id string, req *model.UpdateSpaceRequest) (*model.Space, error) {
	if id == "" {
		return nil, validationf("space id is required")
	}
	if req == nil || (req.Name == "" && req.Description == "" && req.ChatMode == "") {
		return nil, validationf("no space fields to update")
	}

	updated, err := s.gw.UpdateSpace(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.applySpacePatch(*updated)
	return updated, nil
}

// UpdateModel changes the provider/model selection for a space. A space
// missing from the store is treated as a stale caller view: the operation
// logs a warning and reports success without touching anything, since the
// next broadcast corrects the caller regardless.
func (s *SpaceService) UpdateModel(ctx context.Context, id, modelID, provider string) error {
	if id == "" || modelID == "" || provider == "" {
		return validationf("space id, model and provider are required")
	}

	snap := s.store.Snapshot()
	if findSpace(snap.Spaces, id) < 0 {
		s.logger.Warnw("model update for space not in store, skipping", "space_id", id)
		return nil
	}

	updated, err := s.gw.UpdateSpaceModel(ctx, id, modelID, provider)
	if err != nil {
		return err
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		idx := findSpace(next.Spaces, id)
		if idx < 0 {
			s.logger.Warnw("space disappeared before model update commit", "space_id", id)
			return prev
		}
		next.Spaces[idx].Model = updated.Model
		next.Spaces[idx].Provider = updated.Provider
		next.Spaces[idx].UpdatedAt = updated.UpdatedAt
		if next.ActiveSpace != nil && next.ActiveSpace.ID == id {
			sp := next.Spaces[idx]
			next.ActiveSpace = &sp
		}
		return next
	})
	return nil
}

// SetActive activates a space remotely, re-fetches it to confirm it is live,
// and loads its conversations plus the first conversation's messages. A
// failed confirmation resets the active slice entirely so the store never
// points at a space that could not be verified.
func (s *SpaceService) SetActive(ctx context.Context, id string) (*model.Space, error) {
	if id == "" {
		return nil, validationf("space id is required")
	}

	if err := s.gw.SetActiveSpace(ctx, id); err != nil {
		return nil, err
	}

	space, err := s.gw.FetchSpace(ctx, id)
	if err == nil {
		var convs []model.Conversation
		convs, err = s.gw.FetchConversations(ctx, id)
		if err == nil {
			var msgs []model.Message
			if len(convs) > 0 {
				msgs, err = s.gw.FetchMessages(ctx, convs[0].ID)
			}
			if err == nil {
				s.store.Apply(func(prev model.Snapshot) model.Snapshot {
					next := prev
					if idx := findSpace(next.Spaces, id); idx >= 0 {
						next.Spaces[idx] = *space
					}
					next.ActiveSpace = space
					next.Conversations = convs
					if len(convs) > 0 {
						first := convs[0]
						next.ActiveConversation = &first
						next.Messages = msgs
					} else {
						next.ActiveConversation = nil
						next.Messages = []model.Message{}
					}
					if next.Messages == nil {
						next.Messages = []model.Message{}
					}
					return next
				})
				return space, nil
			}
		}
	}

	// The activated space could not be confirmed live. Reset the active
	// slice and refresh the space list so callers converge on reality.
	s.logger.Errorw("failed to confirm activated space, resetting", "space_id", id, "error", err)
	spaces, listErr := s.gw.FetchSpaces(ctx)
	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		if listErr == nil {
			next.Spaces = spaces
		}
		next.ActiveSpace = nil
		next.Conversations = []model.Conversation{}
		next.ActiveConversation = nil
		next.Messages = []model.Message{}
		return next
	})
	return nil, err
}

// Delete removes a space. When the deleted space was active, the most
// recently updated surviving space is promoted and its conversations and
// messages are loaded.
func (s *SpaceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationf("space id is required")
	}

	if err := s.gw.DeleteSpace(ctx, id); err != nil {
		return err
	}

	// Pick the replacement from the post-delete view and prefetch its data
	// before committing, so the commit itself stays synchronous.
	snap := s.store.Snapshot()
	wasActive := snap.ActiveSpace != nil && snap.ActiveSpace.ID == id

	var replacement *model.Space
	var convs []model.Conversation
	var msgs []model.Message
	if wasActive {
		replacement = pickReplacement(snap.Spaces, id)
		if replacement != nil {
			if err := s.gw.SetActiveSpace(ctx, replacement.ID); err != nil {
				s.logger.Warnw("failed to persist replacement active space", "space_id", replacement.ID, "error", err)
			}
			var err error
			convs, err = s.gw.FetchConversations(ctx, replacement.ID)
			if err != nil {
				s.logger.Warnw("failed to load replacement conversations", "space_id", replacement.ID, "error", err)
				convs = nil
			} else if len(convs) > 0 {
				msgs, err = s.gw.FetchMessages(ctx, convs[0].ID)
				if err != nil {
					s.logger.Warnw("failed to load replacement messages", "conversation_id", convs[0].ID, "error", err)
					msgs = nil
				}
			}
		}
	}

	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		next.Spaces = removeSpace(next.Spaces, id)

		stillActive := next.ActiveSpace != nil && next.ActiveSpace.ID == id
		if !stillActive {
			return next
		}

		next.ActiveSpace = replacement
		next.Conversations = convs
		if next.Conversations == nil {
			next.Conversations = []model.Conversation{}
		}
		if len(next.Conversations) > 0 {
			first := next.Conversations[0]
			next.ActiveConversation = &first
			next.Messages = msgs
		} else {
			next.ActiveConversation = nil
			next.Messages = nil
		}
		if next.Messages == nil {
			next.Messages = []model.Message{}
		}
		return next
	})
	return nil
}

// applySpacePatch replaces one space entry and mirrors it into ActiveSpace
// when ids match. An absent space is logged and skipped.
func (s *SpaceService) applySpacePatch(updated model.Space) {
	s.store.Apply(func(prev model.Snapshot) model.Snapshot {
		next := prev
		idx := findSpace(next.Spaces, updated.ID)
		if idx < 0 {
			s.logger.Warnw("update for space not in store, skipping", "space_id", updated.ID)
			return prev
		}
		next.Spaces[idx] = updated
		if next.ActiveSpace != nil && next.ActiveSpace.ID == updated.ID {
			sp := updated
			next.ActiveSpace = &sp
		}
		return next
	})
}

func findSpace(spaces []model.Space, id string) int {
	for i, sp := range spaces {
		if sp.ID == id {
			return i
		}
	}
	return -1
}

func removeSpace(spaces []model.Space, id string) []model.Space {
	out := make([]model.Space, 0, len(spaces))
	for _, sp := range spaces {
		if sp.ID != id {
			out = append(out, sp)
		}
	}
	return out
}

// pickReplacement returns the most recently updated non-deleted space other
// than excluded, or nil when none remain.
func pickReplacement(spaces []model.Space, excluded string) *model.Space {
	var best *model.Space
	for i := range spaces {
		sp := spaces[i]
		if sp.ID == excluded || sp.IsDeleted {
			continue
		}
		if best == nil || sp.UpdatedAt.After(best.UpdatedAt) {
			best = &spaces[i]
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

func spaceID(sp *model.Space) string {
	if sp == nil {
		return ""
	}
	return sp.ID
}
