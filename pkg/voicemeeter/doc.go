// Package voicemeeter wraps the Voicemeeter Remote API behind a small
// Gateway interface and a Session that owns the client link.
//
// The Gateway is the foreign-call boundary: on Windows it binds the vendor
// DLL (VoicemeeterRemote64.dll or VoicemeeterRemote.dll), and FakeGateway
// simulates the mixer everywhere else. Vendor failures surface as
// *StatusError carrying the raw status code.
//
// Session layers policy on top: one mutex serializing all calls, parameter
// reference validation (Strip[i].Name / Bus[i].Name), translation of vendor
// statuses onto the shared MCP error taxonomy, and lazy detection of a mixer
// that exited mid-session. Callers never see raw status codes.
package voicemeeter
