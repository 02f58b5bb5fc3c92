package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todopuzzle configuration file
# Values can be overridden by TODOPUZZLE_* environment variables or CLI flags

# Task file (relative to project root)
todo_file = "todo.json"

# Board state: layout, revealed pieces and reveal credits
state_file = ".todopuzzle/board.json"

# Optional JSON Schema for the task file (embedded schema when empty)
# schema_file = "todo.schema.json"

# Journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todopuzzle"

# City whose skyline is hidden behind the puzzle
city = "Paris"

# Image URL handed to clients; {city} is replaced with the escaped city name
image_url_template = "https://source.unsplash.com/1600x900/?{city},skyline"

# Address for "todopuzzle serve"
listen_addr = "127.0.0.1:8080"

# Command run when every piece is revealed:
#   <hook> puzzle_completed <city> <pieces> <state_file>
# hook_command = "/path/to/celebrate.sh"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
