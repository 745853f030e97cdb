package config

// DefaultTOML is the template written by "pathlang config init".
const DefaultTOML = `# pathlang configuration

[scan]
# Globs matched against slash-separated paths relative to the scan root.
# .git and the state dir are always skipped.
path_excludes = [
  "**/node_modules/**",
  "**/vendor/**",
  "**/__pycache__/**",
]
gitignore = true
follow_symlinks = false
max_file_mb = 20
include_unknown = true

[state]
dir = ".pathlang"

[output]
# text | json
format = "text"
`
