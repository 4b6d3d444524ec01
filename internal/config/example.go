package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# mappingcheck configuration file
# Values can be overridden by MAPPINGCHECK_* environment variables or CLI flags.

# Directory containing the mapping files (not searched recursively)
dir = "."

# Glob patterns selecting mapping files inside dir
patterns = ["*.yaml"]

# Local schema cache; written on first run when missing
schema_file = "custom_mappings_schema.json"

# Remote schema fetched when the cache is missing
schema_url = "` + DefaultSchemaURL + `"

# Never fetch the schema; a missing cache is fatal
offline = false

# Write a JSON report of every file's result
# report_file = "mappingcheck-report.json"

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
# log_prefix = "PlexAniSync"
`
}
