// Package mcp exposes Rustark to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API and the JSON answer is formatted as plain text for the agent. The game
// itself never runs inside this package, so several agents can share one
// server and watchers on the WebSocket see every change.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: position, inventory, last message, 3x3 view and what is within reach
//   - display_map: the rendered map with row and column indexes
//   - move: one step by direction or onto a neighbouring x,y
//   - bulk_move: several steps, stopping at the first blocked one
//   - interact: describe a neighbouring hint, crate or generator by letter
//   - take_from_crate: move a neighbouring crate's items into the inventory
//   - reset_game: restore the layout, history is kept
//   - move_history: paginated history plus the moves since the last reset
//   - list_configs: available layouts
//   - describe_cell: what occupies any x,y
//   - game_instructions: rules and map legend
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
