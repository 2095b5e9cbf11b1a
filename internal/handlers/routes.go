package handlers

import (
	"github.com/gin-gonic/gin"
)

// Routes groups the handlers served over HTTP.
type Routes struct {
	Users         *UserHandler
	Messages      *MessageHandler
	Conversations *ConversationHandler
	Servers       *ServerHandler
	Friends       *FriendHandler
}

// Register mounts every route. All routes but user registration run behind auth.
func (r Routes) Register(router gin.IRouter, auth gin.HandlerFunc) {
	router.POST("/users", r.Users.Register)

	authed := router.Group("/", auth)
	r.registerUsers(authed)
	r.registerMessages(authed)
	r.registerConversations(authed)
	r.registerServers(authed)
	r.registerFriends(authed)
}

func (r Routes) registerUsers(router gin.IRoutes) {
	router.GET("/users/me", r.Users.Me)
	router.PATCH("/users/me/status", r.Users.UpdateStatus)
}

func (r Routes) registerMessages(router gin.IRoutes) {
	router.POST("/messages", r.Messages.CreateMessage)
	router.GET("/messages", r.Messages.ListMessages)
	router.GET("/messages/:message_id", r.Messages.GetMessage)
	router.PATCH("/messages/:message_id", r.Messages.UpdateMessage)
	router.DELETE("/messages/:message_id", r.Messages.DeleteMessage)
	router.POST("/messages/:message_id/reactions", r.Messages.ToggleReaction)
}

func (r Routes) registerConversations(router gin.IRoutes) {
	router.POST("/conversations/direct", r.Conversations.StartDirect)
	router.POST("/servers/:server_id/conversations", r.Conversations.StartServer)
	router.GET("/members/:member_id/permissions/:permission", r.Conversations.HasPermission)
}

func (r Routes) registerServers(router gin.IRoutes) {
	router.POST("/servers", r.Servers.CreateServer)
	router.GET("/servers/:server_id", r.Servers.GetServer)
	router.PATCH("/servers/:server_id", r.Servers.RenameServer)
	router.POST("/servers/:server_id/channels", r.Servers.CreateChannel)
	router.POST("/servers/:server_id/join", r.Servers.Join)
	router.DELETE("/servers/:server_id/members/me", r.Servers.Leave)
	router.GET("/servers/:server_id/roles", r.Servers.ListRoles)
	router.POST("/servers/:server_id/roles", r.Servers.CreateRole)
	router.PATCH("/servers/:server_id/roles/:role_id", r.Servers.UpdateRole)
	router.DELETE("/servers/:server_id/roles/:role_id", r.Servers.DeleteRole)
	router.PUT("/servers/:server_id/roles/:role_id/members/:member_id", r.Servers.AssignRole)
	router.DELETE("/servers/:server_id/roles/:role_id/members/:member_id", r.Servers.UnassignRole)
	router.PUT("/members/:member_id/mute", r.Servers.SetMuted)
}

func (r Routes) registerFriends(router gin.IRoutes) {
	router.GET("/friends", r.Friends.ListFriends)
	router.POST("/friends/requests", r.Friends.CreateRequest)
	router.POST("/friends/requests/:request_id/accept", r.Friends.Accept)
	router.POST("/friends/requests/:request_id/reject", r.Friends.Reject)
	router.POST("/friends/requests/:request_id/block", r.Friends.Block)
	router.POST("/friends/requests/:request_id/unblock", r.Friends.Unblock)
}
