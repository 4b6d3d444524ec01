// Package schema loads and compiles the custom mappings JSON schema.
//
// The schema is read from a local cache file. When the cache does not exist
// it is fetched once from a remote URL, written back to the cache
// pretty-printed with four-space indentation, and used for the rest of the
// run. A failed fetch is reported as a *FetchError so callers can stop before
// any mapping file is examined.
//
// Validation uses JSON Schema via github.com/santhosh-tekuri/jsonschema/v5.
// The draft is taken from the schema's $schema keyword; documents without one
// are treated as draft 2020-12. Violations are flattened to their leaf causes
// and reported with dotted instance paths such as entries[2].title.
package schema
