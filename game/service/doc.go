// Package service provides the business logic layer for Rustark.
//
// The service package implements:
//   - Multi-session game management
//   - Layout loading through a ConfigManager
//   - Move processing, interaction and crate looting per session
//   - Move history paging
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages layout loading and validation.
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// game engine. Each session owns its own engine instance; every mutating call
// saves the session through the SessionManager and logs a warning if that fails.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "up-right", false)
//	reply, err := gameService.Interact(ctx, info.ID, "h")
//
// Sessions are identified by 4-character IDs. Lookups wrap ErrSessionNotFound
// and layout lookups wrap ErrConfigNotFound so callers can use errors.Is.
package service
