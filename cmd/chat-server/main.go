package main

import (
	"dice-chat-backend/internal/api"
	"dice-chat-backend/internal/api/router"
	"dice-chat-backend/internal/chat"
	"dice-chat-backend/internal/env"
	"dice-chat-backend/internal/queue"
)

func main() {
	queueManager := queue.NewRequestQueueManager(10, 10)

	directory := chat.NewDirectory()
	go directory.Run()

	handler := chat.NewHandler(directory)
	handler.HeartbeatInterval = env.GetDuration(env.HeartbeatInterval, handler.HeartbeatInterval)
	handler.ClientTimeout = env.GetDuration(env.HeartbeatTimeout, handler.ClientTimeout)

	server := api.NewAPIServer(
		env.GetOrDefault(env.ListenAddr, ":8080"),
		queueManager,
		handler,
		router.ChatRoutes("/api/chat/v1"),
		router.UtilsRoutes("/api/chat/v1"),
		router.StaticRoutes(env.GetOrDefault(env.StaticDir, "static")),
	)

	server.Run()
}
