package constants

const (
	AppName            = "daylog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/daylog"
	Version            = "v0.3.0"

	// DateFormat is the day key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is the month key format (YYYY-MM)
	MonthFormat = "2006-01"

	// TimeFormat is the clock time format used for wake/sleep times (HH:MM)
	TimeFormat = "15:04"

	// SeriesLabelFormat labels chart points (M/D)
	SeriesLabelFormat = "1/2"

	// Slot names in the durable key-value store
	SlotDayLogs    = "day_logs"
	SlotMonthGoals = "month_goals"

	// Goal defaults applied when input is missing or invalid
	DefaultStepsGoal = 10000
	DefaultStudyGoal = 120

	DefaultSeriesLimit = 14
	MaxSeriesLimit     = 366

	// Default data locations inside the config directory
	DefaultStorageName = "data"
	DefaultPhotoDBName = "photos.db"

	// Photo limits
	MaxPhotoBytes = 10 << 20

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daylog-"
	BackupFileSuffix = ".json"

	// Lock constants
	LockfileName = "daylog.lock"

	// Environment variables
	EnvConfigDir    = "DAYLOG_CONFIG_DIR"
	EnvStorage      = "DAYLOG_STORAGE"
	EnvPhotos       = "DAYLOG_PHOTOS"
	EnvDebug        = "DAYLOG_DEBUG"
	EnvSeriesLimit  = "DAYLOG_SERIES_LIMIT"
	EnvDBConnection = "DAYLOG_DB_CONNECTION"
)
