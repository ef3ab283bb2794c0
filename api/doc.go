// Package api provides the HTTP REST API for Rustark.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "outage"}, empty for the default layout)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions grouped for a multi-session view
//   - GET /api/sessions/{id} - Session info with its game state
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game:
//   - GET /api/sessions/{id}/state - Full game state
//   - GET /api/sessions/{id}/map - Rendered map as text (?format=json to wrap it)
//   - POST /api/sessions/{id}/move - {"direction": "up-left"} or {"x": 1, "y": 8}, optional "reset"
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "right"]}, stops at the first blocked move
//   - POST /api/sessions/{id}/interact - {"letter": "h"}
//   - POST /api/sessions/{id}/take - Empty a neighbouring crate into the inventory
//   - POST /api/sessions/{id}/reset - Restore the layout, keeping cumulative history
//   - GET /api/sessions/{id}/history - Paginated moves (?page=1&limit=20&order=desc)
//
// Layouts:
//   - GET /api/configs - List layouts
//   - POST /api/configs - Save a layout (?id= names the file)
//   - GET /api/configs/{name} - Fetch one layout
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket state_update stream
//
// Errors are returned as {"error": "..."}. Unknown sessions and layouts map
// to 404, invalid layouts to 400.
//
// Move responses carry step (dir, from, to), attempted_to when blocked
// (x, y, letter, kind, passable) and within_reach, the non-empty neighbours
// the player can interact with. Bulk move responses add requested_moves,
// moves_executed, stop_reason_code (blocked_boundary, blocked_occupied or
// invalid_direction), stopped_on_move, truncated, steps, possible_moves and
// local_view_3x3.
package api
