package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chat-core/internal/cache"
	"chat-core/internal/db"
	"chat-core/internal/mocks"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

func strPtr(s string) *string { return &s }

// world wires every service over a throwaway sqlite database.
type world struct {
	users         *repositories.UserRepo
	servers       *repositories.ServerRepo
	roles         *repositories.RoleRepo
	messages      *repositories.MessageRepo
	permissions   *PermissionService
	conversations *ConversationService
	messageSvc    *MessageService
	reactionSvc   *ReactionService
	serverSvc     *ServerService
	roleSvc       *RoleService
	friendSvc     *FriendService
	userSvc       *UserService
	assembler     *Assembler
	events        *mocks.RecordingPublisher
	clock         time.Time
}

func newWorld(t *testing.T) *world {
	t.Helper()
	database, err := db.Connect(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "chat.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	w := &world{
		users:    repositories.NewUserRepo(database),
		servers:  repositories.NewServerRepo(database),
		roles:    repositories.NewRoleRepo(database),
		messages: repositories.NewMessageRepo(database),
		clock:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		events:   &mocks.RecordingPublisher{},
	}
	conversations := repositories.NewConversationRepo(database)
	reactions := repositories.NewReactionRepo(database)
	friends := repositories.NewFriendRepo(database)

	media, err := NewMediaResolver("https://cdn.example.com")
	require.NoError(t, err)
	authors := NewAuthorResolver(w.users, w.servers, media)
	threads := NewCachedSummarizer(NewReplySummarizer(w.messages, authors), cache.NewLocalSummaryCache(1000, time.Minute), zap.NewNop())

	w.permissions = NewPermissionService(w.servers, w.roles)
	w.conversations = NewConversationService(conversations, w.servers, w.users, friends, w.events, zap.NewNop())
	w.messageSvc = NewMessageService(w.messages, conversations, w.servers, friends, threads, w.events, zap.NewNop())
	w.messageSvc.now = w.tick
	w.reactionSvc = NewReactionService(w.messages, reactions, conversations, w.servers, friends, w.events, zap.NewNop())
	w.serverSvc = NewServerService(w.servers, w.roles, w.permissions, w.events, zap.NewNop())
	w.roleSvc = NewRoleService(w.roles, w.servers, w.permissions)
	w.friendSvc = NewFriendService(friends, w.users)
	w.userSvc = NewUserService(w.users)
	w.assembler = NewAssembler(w.messages, reactions, conversations, w.servers, authors, threads, media, zap.NewNop())
	return w
}

// tick hands out strictly increasing timestamps so page order is deterministic.
func (w *world) tick() time.Time {
	w.clock = w.clock.Add(time.Second)
	return w.clock
}

func (w *world) user(t *testing.T, name string) models.User {
	t.Helper()
	u, err := w.userSvc.Register(context.Background(), RegisterUserInput{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

// guild creates a server owned by owner with one channel.
func (w *world) guild(t *testing.T, owner models.User) (models.Server, models.Channel) {
	t.Helper()
	ctx := context.Background()
	server, err := w.serverSvc.CreateServer(ctx, owner.ID, "guild", nil)
	require.NoError(t, err)
	channel, err := w.serverSvc.CreateChannel(ctx, server.ID, owner.ID, "general")
	require.NoError(t, err)
	return server, channel
}

func (w *world) post(t *testing.T, in CreateMessageInput) uuid.UUID {
	t.Helper()
	id, err := w.messageSvc.CreateMessage(context.Background(), in)
	require.NoError(t, err)
	return id
}
