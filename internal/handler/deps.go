package handler

import (
	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/app/storage"
	"rtchat/internal/app/store"
	"rtchat/internal/configs"
)

// AppDeps carries everything the HTTP layer needs.
type AppDeps struct {
	Hub      *chat.Hub
	Config   *configs.AppConfig
	Stores   store.Stores
	Verifier auth.Verifier

	// Storage is nil when S3 is not configured; upload and file routes then answer 503.
	Storage storage.StorageService
}
