package common

const (
	// LogSystemToken describes system log entry.
	LogSystemToken = "system"
	// LogLockIDToken describes lock hardware ID log entry.
	LogLockIDToken = "lock_id"
	// LogLockNameToken describes lock name log entry.
	LogLockNameToken = "lock_name"
	// LogLockCommandToken describes lock command log entry.
	LogLockCommandToken = "lock_cmd"
	// LogLockStateToken describes lock state log entry.
	LogLockStateToken = "lock_state"
	// LogGarageToken describes garage ID log entry.
	LogGarageToken = "garage"
	// LogAppStateToken describes application state log entry.
	LogAppStateToken = "app_state"
	// LogAttemptToken describes retry attempt log entry.
	LogAttemptToken = "attempt"
	// LogCountToken describes items count log entry.
	LogCountToken = "count"
	// LogUserNameToken describes user name log entry.
	LogUserNameToken = "user"
	// LogURLToken describes URL log entry.
	LogURLToken = "url"
	// LogTopicToken describes bus topic log entry.
	LogTopicToken = "topic"
)

const (
	// LogNodeToken describes node log entry.
	LogNodeToken = "node"
	// LogErrorToken describes error log entry.
	LogErrorToken = "error"
	// LogFileToken describes file log entry.
	LogFileToken = "file"
	// LogProviderToken describes provider log entry.
	LogProviderToken = "provider"
	// LogFieldToken describes field log entry.
	LogFieldToken = "field"
	// LogNameToken describes name log entry.
	LogNameToken = "name"
)
