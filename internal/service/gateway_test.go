package service

import (
	"context"
	"sync"

	"github.com/thevinciapp/vinci-hub/internal/model"
)

// fakeGateway records calls and returns canned responses. Individual methods
// can be overridden per test via the corresponding func fields.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	token string

	spaces      []model.Space
	activeSpace *model.Space
	spaceView   *model.SpaceView
	convs       []model.Conversation
	msgs        map[string][]model.Message
	results     []model.SearchResult

	fetchSpaceFn       func(spaceID string) (*model.Space, error)
	fetchConvsFn       func(spaceID string) ([]model.Conversation, error)
	fetchMsgsFn        func(conversationID string) ([]model.Message, error)
	createConvFn       func(spaceID, title string) (*model.Conversation, error)
	updateSpaceFn      func(spaceID string, req *model.UpdateSpaceRequest) (*model.Space, error)
	updateSpaceModelFn func(spaceID, modelID, provider string) (*model.Space, error)
	setActiveConvErr   error
	sendChatFn         func(conversationID, content string) (*model.Message, error)
	deleteErr          error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{msgs: make(map[string][]model.Message)}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGateway) callsMade() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) SetSession(accessToken string) { f.token = accessToken }
func (f *fakeGateway) ClearSession()                 { f.token = "" }
func (f *fakeGateway) HasSession() bool              { return f.token != "" }

func (f *fakeGateway) FetchSpaces(ctx context.Context) ([]model.Space, error) {
	f.record("FetchSpaces")
	return f.spaces, nil
}

func (f *fakeGateway) FetchSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	f.record("FetchSpace:" + spaceID)
	if f.fetchSpaceFn != nil {
		return f.fetchSpaceFn(spaceID)
	}
	for i := range f.spaces {
		if f.spaces[i].ID == spaceID {
			sp := f.spaces[i]
			return &sp, nil
		}
	}
	return &model.Space{ID: spaceID}, nil
}

func (f *fakeGateway) FetchActiveSpace(ctx context.Context) (*model.Space, error) {
	f.record("FetchActiveSpace")
	return f.activeSpace, nil
}

func (f *fakeGateway) CreateSpace(ctx context.Context, req *model.CreateSpaceRequest) (*model.SpaceView, error) {
	f.record("CreateSpace:" + req.Name)
	return f.spaceView, nil
}

func (f *fakeGateway) UpdateSpace(ctx context.Context, spaceID string, req *model.UpdateSpaceRequest) (*model.Space, error) {
	f.record("UpdateSpace:" + spaceID)
	if f.updateSpaceFn != nil {
		return f.updateSpaceFn(spaceID, req)
	}
	return &model.Space{ID: spaceID, Name: req.Name}, nil
}

func (f *fakeGateway) UpdateSpaceModel(ctx context.Context, spaceID, modelID, provider string) (*model.Space, error) {
	f.record("UpdateSpaceModel:" + spaceID)
	if f.updateSpaceModelFn != nil {
		return f.updateSpaceModelFn(spaceID, modelID, provider)
	}
	return &model.Space{ID: spaceID, Model: modelID, Provider: provider}, nil
}

func (f *fakeGateway) DeleteSpace(ctx context.Context, spaceID string) error {
	f.record("DeleteSpace:" + spaceID)
	return f.deleteErr
}

func (f *fakeGateway) SetActiveSpace(ctx context.Context, spaceID string) error {
	f.record("SetActiveSpace:" + spaceID)
	return nil
}

func (f *fakeGateway) FetchConversations(ctx context.Context, spaceID string) ([]model.Conversation, error) {
	f.record("FetchConversations:" + spaceID)
	if f.fetchConvsFn != nil {
		return f.fetchConvsFn(spaceID)
	}
	return f.convs, nil
}

func (f *fakeGateway) CreateConversation(ctx context.Context, spaceID, title string) (*model.Conversation, error) {
	f.record("CreateConversation:" + spaceID)
	if f.createConvFn != nil {
		return f.createConvFn(spaceID, title)
	}
	return &model.Conversation{ID: "new-conv", SpaceID: spaceID, Title: title}, nil
}

func (f *fakeGateway) UpdateConversation(ctx context.Context, spaceID, conversationID, title string) (*model.Conversation, error) {
	f.record("UpdateConversation:" + conversationID)
	return &model.Conversation{ID: conversationID, SpaceID: spaceID, Title: title}, nil
}

func (f *fakeGateway) DeleteConversation(ctx context.Context, spaceID, conversationID string) error {
	f.record("DeleteConversation:" + conversationID)
	return f.deleteErr
}

func (f *fakeGateway) SetActiveConversation(ctx context.Context, conversationID, spaceID string) error {
	f.record("SetActiveConversation:" + conversationID)
	return f.setActiveConvErr
}

func (f *fakeGateway) FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	f.record("FetchMessages:" + conversationID)
	if f.fetchMsgsFn != nil {
		return f.fetchMsgsFn(conversationID)
	}
	return f.msgs[conversationID], nil
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, conversationID, content string) (*model.Message, error) {
	f.record("SendChatMessage:" + conversationID)
	if f.sendChatFn != nil {
		return f.sendChatFn(conversationID, content)
	}
	return &model.Message{ID: "sent", ConversationID: conversationID, Role: model.RoleUser, Content: content}, nil
}

func (f *fakeGateway) CreateMessage(ctx context.Context, conversationID string, msg *model.Message) (*model.Message, error) {
	f.record("CreateMessage:" + conversationID)
	return msg, nil
}

func (f *fakeGateway) UpdateMessage(ctx context.Context, conversationID, messageID, content string) (*model.Message, error) {
	f.record("UpdateMessage:" + messageID)
	return &model.Message{ID: messageID, ConversationID: conversationID, Content: content}, nil
}

func (f *fakeGateway) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	f.record("DeleteMessage:" + messageID)
	return f.deleteErr
}

func (f *fakeGateway) Search(ctx context.Context, req *model.SearchRequest) ([]model.SearchResult, error) {
	f.record("Search:" + req.Query)
	return f.results, nil
}

var _ Gateway = (*fakeGateway)(nil)
