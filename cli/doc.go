// Package cli renders the results of the tomato command line tool.
//
// # Output Formats
//
// Human-readable output (default):
//
//	$ tomato etc get logging
//	logging.level = DEBUG
//	logging.format = auto
//
// JSON output (--json flag):
//
//	$ tomato etc get logging.level --json
//	{
//	  "key": "logging.level",
//	  "kind": "scalar",
//	  "value": "DEBUG"
//	}
//
// Query runs jq filters (github.com/itchyny/gojq) over the merged document:
//
//	$ tomato etc query '.logging | keys'
package cli
