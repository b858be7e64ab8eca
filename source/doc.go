// Package source decides which configuration files are loaded and in what
// order.
//
// A Resolver produces, lowest priority first:
//
//  1. the defaults file, ./var/etc/defaults.toml
//  2. the user file, ~/.tomato.toml
//  3. every file listed in TOMATO_ETC_FILE, separated by ";"
//
// TOMATO_ETC_FILE is read from the environment first. When it is not set,
// the nearest .tomato.env in the working directory or one of its parents is
// applied to the environment (without overriding anything already set) and
// the variable is read again. Paths are made absolute, duplicates keep their
// first position and files that do not exist are left out.
//
//	r := source.NewResolver("tomato", "toml", afero.NewOsFs(), source.OSEnvironment{})
//	sources, err := r.Resolve()
package source
