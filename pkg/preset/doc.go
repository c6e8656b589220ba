// Package preset manages saved Voicemeeter configurations.
//
// A preset carries metadata, per-strip and per-bus parameter lists and named
// scenarios. Two file formats exist: the vendor XML document
// (<voicemeeter_preset>) that the mixer tooling exchanges, and a JSON form
// with structural validation for programmatic use. Content identity is an
// MD5 checksum over the canonical JSON rendering.
//
// Manager handles the on-disk lifecycle (listing, timestamped backups with
// pruning, per-edition templates), Diff compares two presets section by
// section, Apply writes a preset to a live session, and Library keeps a
// directory catalog current via filesystem notifications.
package preset
