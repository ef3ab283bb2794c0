// Package session stores Rustark game sessions.
//
// Manager keeps sessions in memory under case-insensitive IDs. Generated IDs
// are four lowercase hex characters cut from a random UUID. With a
// SessionPersistence attached (FilePersistence writes one JSON file per
// session) new sessions are saved on creation, unknown IDs are looked up on
// disk, and LoadPersistedSessions restores everything at startup.
//
//	persistence, _ := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", layout)
//
// A stored session keeps its layout by config ID; loading rebuilds the engine
// from that layout and then restores the saved grid, player and history.
package session
