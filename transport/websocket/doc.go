// Package websocket pushes Rustark game state to browsers and other watchers.
//
// A single Hub goroutine owns client registration and fan-out. Clients
// subscribe to one session with /ws?session=<id>; session IDs are matched
// case-insensitively. Every change made through the REST API is sent to the
// session's clients as
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// The first message after connecting is the current state. Incoming
// frames are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	server := api.NewServer(gameService, hub)
package websocket
