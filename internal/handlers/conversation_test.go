package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
)

func setupConversationRouter(conversations *ConversationServiceMock, permissions *PermissionServiceMock) *gin.Engine {
	handler := NewConversationHandler(conversations, permissions, nil, nil)
	r := newTestRouter()
	r.POST("/conversations/direct", handler.StartDirect)
	r.POST("/servers/:server_id/conversations", handler.StartServer)
	r.GET("/members/:member_id/permissions/:permission", handler.HasPermission)
	return r
}

func TestStartDirectSuccess(t *testing.T) {
	conversations := new(ConversationServiceMock)
	router := setupConversationRouter(conversations, nil)
	other, convID := uuid.New(), uuid.New()

	conversations.On("GetOrCreateDirect", mock.Anything, callerUserID, other).
		Return(models.DirectConversation{ID: convID, UserLow: callerUserID, UserHigh: other}, nil).Once()

	rec := serve(router, http.MethodPost, "/conversations/direct", `{"user_id":"`+other.String()+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), convID.String())
	conversations.AssertExpectations(t)
}

func TestStartDirectWithSelf(t *testing.T) {
	conversations := new(ConversationServiceMock)
	router := setupConversationRouter(conversations, nil)

	conversations.On("GetOrCreateDirect", mock.Anything, callerUserID, callerUserID).
		Return(nil, apperrors.Validation("cannot start a conversation with yourself")).Once()

	rec := serve(router, http.MethodPost, "/conversations/direct", `{"user_id":"`+callerUserID.String()+`"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	conversations.AssertExpectations(t)
}

func TestStartDirectMissingUser(t *testing.T) {
	conversations := new(ConversationServiceMock)
	router := setupConversationRouter(conversations, nil)

	rec := serve(router, http.MethodPost, "/conversations/direct", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	conversations.AssertNotCalled(t, "GetOrCreateDirect", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartServerConversationNotMember(t *testing.T) {
	conversations := new(ConversationServiceMock)
	router := setupConversationRouter(conversations, nil)
	serverID, memberID := uuid.New(), uuid.New()

	conversations.On("GetOrCreateServer", mock.Anything, serverID, callerUserID, memberID).
		Return(nil, apperrors.Permission("not a member of this server")).Once()

	rec := serve(router, http.MethodPost, "/servers/"+serverID.String()+"/conversations", `{"member_id":"`+memberID.String()+`"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	conversations.AssertExpectations(t)
}

func TestHasPermission(t *testing.T) {
	permissions := new(PermissionServiceMock)
	router := setupConversationRouter(nil, permissions)
	memberID := uuid.New()

	permissions.On("MemberPermission", mock.Anything, callerUserID, memberID, models.PermissionManageChannels).Return(true, nil).Once()

	rec := serve(router, http.MethodGet, "/members/"+memberID.String()+"/permissions/MANAGE_CHANNELS", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"member_id":"`+memberID.String()+`","permission":"MANAGE_CHANNELS","granted":true}`, rec.Body.String())
	permissions.AssertExpectations(t)
}

func TestHasPermissionUnknownName(t *testing.T) {
	permissions := new(PermissionServiceMock)
	router := setupConversationRouter(nil, permissions)

	rec := serve(router, http.MethodGet, "/members/"+uuid.NewString()+"/permissions/FLY", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	permissions.AssertNotCalled(t, "MemberPermission", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
