// Package config reads and writes the unifs configuration file.
//
// The file is TOML with a single [unifs] section naming the current file
// system and one table per configured file system:
//
//	[unifs]
//	current = "local"
//
//	[unifs.fs.local]
//	protocol = "file"
//	auto_mkdir = false
//
//	[unifs.fs.archive]
//	protocol = "zip"
//	path = "/tmp/backup.zip"
//
// Every table must name a protocol; the remaining keys are passed to the
// backend as parameters and must be strings, numbers or booleans. The file
// lives at $UNIFS_CONFIG_PATH when set, or at unifs/config.toml under the
// user configuration directory.
package config
