package config

const (
	defalutLogFile           = "smartlib.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/smartlib"
	defaultDSN               = defaultData + "/smartlib.db"
	defaultWorkerPoolSize    = 4
	defaultDailyFineRate     = 0.5
	defaultMaxBorrowLimit    = 10
	defaultAnnouncement      = "Welcome to SmartLib. The loan period is 60 days and overdue fines are 0.5 per day."
	defaultOverdueSweepSpec  = "0 0 2 * * *"
	defaultMailFromAddress   = "no-reply@smartlib.local"
	defaultMailFromName      = "SmartLib"
	defaultAccessTokenHours  = 24 * 7
	defaultSeedDemoData      = true

	// MemoryDSN keeps every collection in process memory only.
	MemoryDSN = "memory"
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFilemaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is a sqlite file path, a postgres:// URL or "memory"
	DSN string `mapstructure:"dsn_uri"`
	// port is the port to listen on
	Port int `mapstructure:"port"`
	// host is the host to listen on
	Host string `mapstructure:"host"`
	// data is the directory to store data
	Data           string `mapstructure:"data"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`

	// Policy defaults, written to the policy setting on first start.
	DailyFineRate  float64 `mapstructure:"daily_fine_rate"`
	MaxBorrowLimit int     `mapstructure:"max_borrow_limit"`
	Announcement   string  `mapstructure:"announcement"`
	SeedDemoData   bool    `mapstructure:"seed_demo_data"`

	// OverdueSweepSpec is a cron expression with a seconds field.
	OverdueSweepSpec string `mapstructure:"overdue_sweep_spec"`

	// Mail delivery, log only when the API key is empty.
	SendGridAPIKey  string `mapstructure:"sendgrid_api_key"`
	MailFromAddress string `mapstructure:"mail_from_address"`
	MailFromName    string `mapstructure:"mail_from_name"`

	AccessTokenHours int `mapstructure:"access_token_hours"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defalutLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		WorkerPoolSize:    defaultWorkerPoolSize,
		DailyFineRate:     defaultDailyFineRate,
		MaxBorrowLimit:    defaultMaxBorrowLimit,
		Announcement:      defaultAnnouncement,
		SeedDemoData:      defaultSeedDemoData,
		OverdueSweepSpec:  defaultOverdueSweepSpec,
		MailFromAddress:   defaultMailFromAddress,
		MailFromName:      defaultMailFromName,
		AccessTokenHours:  defaultAccessTokenHours,
	}
	return Opts
}
