// Package cache stores catalog responses keyed by request fingerprint.
//
// A Cache holds exactly one active Engine. Engines are chosen by name through
// Configure and can be swapped at runtime; the previous engine stays active
// when a replacement fails to build.
//
// Three engines are registered by default:
//
//	none, null     accepts writes and never returns anything
//	file           SQLite database on local disk, honours expiry
//	remote, redis  Redis server, entries live until deleted
//
// Values are stored as JSON text so that every engine holds the same bytes
// for the same response.
package cache
