// Package session stores Quoridor game sessions.
//
// Manager keeps sessions in memory keyed by a case-insensitive ID and can be backed
// by a SessionPersistence. FilePersistence writes one JSON file per session with the
// rule set embedded, so a saved game reloads with the rules it was started under even
// if the config file changed since.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Caller-chosen IDs are limited
// to letters, digits, '-' and '_' so they are always safe file names.
//
// Concurrency:
//
// Each service.Session carries its own mutex that serializes actions on its game. The
// manager's map lock is never held while waiting on a session lock. Save expects the
// caller to hold the session lock; SaveAllSessions and CleanupExpiredSessions take it
// themselves.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Warn(err)
//	}
//
//	sess, err := manager.Create("", configMgr.GetDefault())
package session
