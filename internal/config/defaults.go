// Package config handles tada configuration.
package config

const (
	// ConfigFileName is the name of the config file.
	ConfigFileName = ".tada.yml"
	// GlobalDirName is the directory under the user config dir used when no
	// project config is found.
	GlobalDirName = "tada"

	// DefaultTodoFile is the default todo file, relative to the config dir.
	DefaultTodoFile = "todo.txt"
	// DefaultDoneFile is the default archive file, relative to the config dir.
	DefaultDoneFile = "done.txt"
	// ActivityLogName is the activity log file beside the config.
	ActivityLogName = "activity.jsonl"

	// DefaultSort is the default list ordering.
	DefaultSort = "line"
	// DefaultCompletePriority is the default priority policy on completion.
	DefaultCompletePriority = "keep"
	// DefaultLogLevel is the default console log level.
	DefaultLogLevel = "warn"
	// DefaultLogFormat is the default console log format.
	DefaultLogFormat = "text"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// Allowed values for enumerated settings (slices cannot be const).
var (
	SortKeys         = []string{"line", "priority", "created", "completed", "description", "due"}
	CompletePolicies = []string{"keep", "drop", "tag"}
	LogLevels        = []string{"debug", "info", "warn", "error"}
	LogFormats       = []string{"text", "json", "logfmt"}
)
