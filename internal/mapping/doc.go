// Package mapping discovers, parses and validates custom mapping files.
//
// A mapping file is a YAML document with a top-level "entries" sequence:
//
//	entries:
//	  - title: "Example Show"
//	    seasons:
//	      - season: 1
//	        anilist-id: 1234
//
// Validation of one file runs in three stages and stops at the first stage
// that reports a problem:
//
//  1. The whole document is checked against the JSON schema.
//  2. Every entry's title must appear wrapped in double quotes somewhere in
//     the raw file text.
//  3. No two entries may share a title when compared case-insensitively.
//
// Stages 2 and 3 run per entry in document order and stop at the first
// offending entry.
package mapping
