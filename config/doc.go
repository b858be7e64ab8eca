// Package config provides the layered configuration store for tomato.
//
// A Store loads configuration files from several places, merges them and
// answers lookups by key path.
//
// # Configuration Precedence
//
// Files are loaded in this order (later files override earlier ones):
//
//  1. ./var/etc/defaults.toml, relative to the working directory
//  2. ~/.tomato.toml
//  3. every file in TOMATO_ETC_FILE, separated by ";"
//
// TOMATO_ETC_FILE may also come from a .tomato.env file in the working
// directory or one of its parents. Values already in the environment are
// never overridden by that file.
//
// Tables are merged key by key, recursively. Any other value, including
// arrays, is replaced as a whole.
//
// # Usage
//
//	store, err := config.New(config.DefaultOptions("tomato"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.Init(false); err != nil {
//	    log.Fatal(err)
//	}
//
//	level, err := store.GetString("logging.level")
//	port, err := store.GetOr(tomato.Scalar(8080), "server", "port")
//	first, err := store.Get("servers.0.name")
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, store)
//
// # Lookups
//
// A single key containing "." is split into segments; with several keys each
// is used as is. Strings of digits index sequences. Get fails with
// tomato.ErrMissingKey for absent keys, GetOr returns its fallback instead.
// Both fail with tomato.ErrTypeMismatch when a segment does not fit the
// value it is applied to and with tomato.ErrInvalidArgument for an empty or
// malformed path.
//
// # Settings
//
// Settings decodes the keys the command line tool uses for itself (the
// logging table) with viper, so they can also be set through TOMATO_
// environment variables and flags, and validates them.
package config
