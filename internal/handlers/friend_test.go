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

func setupFriendRouter(friends *FriendServiceMock) *gin.Engine {
	r := newTestRouter()
	Routes{Friends: NewFriendHandler(friends, nil, nil)}.registerFriends(r)
	return r
}

func TestCreateFriendRequest(t *testing.T) {
	friends := new(FriendServiceMock)
	router := setupFriendRouter(friends)
	other := uuid.New()

	friends.On("CreateRequest", mock.Anything, callerUserID, other).
		Return(models.FriendRequest{ID: uuid.New(), InitiatedBy: callerUserID, Status: models.FriendPending}, nil).Once()

	rec := serve(router, http.MethodPost, "/friends/requests", `{"user_id":"`+other.String()+`"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	friends.AssertExpectations(t)
}

func TestFriendRequestTransitions(t *testing.T) {
	friends := new(FriendServiceMock)
	router := setupFriendRouter(friends)
	requestID := uuid.New()
	base := "/friends/requests/" + requestID.String()

	friends.On("Accept", mock.Anything, requestID, callerUserID).Return(models.FriendRequest{ID: requestID, Status: models.FriendAccepted}, nil).Once()
	friends.On("Block", mock.Anything, requestID, callerUserID).Return(nil, apperrors.Conflict("relation is already blocked")).Once()
	friends.On("Reject", mock.Anything, requestID, callerUserID).Return(apperrors.NotFound("friend request not found")).Once()
	friends.On("Unblock", mock.Anything, requestID, callerUserID).Return(nil).Once()

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, base+"/accept", "").Code)
	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, base+"/block", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, base+"/reject", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, base+"/unblock", "").Code)
	friends.AssertExpectations(t)
}

func TestListFriendsStoreFailure(t *testing.T) {
	friends := new(FriendServiceMock)
	router := setupFriendRouter(friends)

	friends.On("List", mock.Anything, callerUserID).Return(nil, assert.AnError).Once()

	rec := serve(router, http.MethodGet, "/friends", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
