package common

// Environment variable keys
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvPort           = "PORT"
	EnvModelDir       = "MODEL_DIR"
	EnvModelFile      = "MODEL_FILE"
	EnvFeaturesFile   = "FEATURES_FILE"
	EnvDataFile       = "DATA_FILE"
	EnvTargetColumn   = "TARGET_COLUMN"
	EnvSampleSize     = "SAMPLE_SIZE"
	EnvSampleSeed     = "SAMPLE_SEED"
	EnvCacheSize      = "CACHE_SIZE"
	EnvReportPath     = "REPORT_PATH"
	EnvReadTimeout    = "READ_TIMEOUT"
	EnvWriteTimeout   = "WRITE_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvLogFile        = "LOG_FILE"
	EnvLogMaxSizeMB   = "LOG_MAX_SIZE_MB"
	EnvLogMaxBackups  = "LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays  = "LOG_MAX_AGE_DAYS"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvProbeBaseURL   = "RF_BASE_URL"
	EnvProbeTimeout   = "RF_TIMEOUT"
	EnvDotEnvFile     = "DOTENV_FILE"
	DefaultDotEnvFile = ".env"
)

// Configuration defaults
const (
	DefaultPort         = 5000
	DefaultModelDir     = "models"
	DefaultModelFile    = "rf_model.json"
	DefaultFeaturesFile = "rf_features.json"
	DefaultDataFile     = "turnover_data.csv"
	DefaultTargetColumn = "turnover_intention"
	DefaultSampleSize   = 200
	DefaultSampleSeed   = 42
	DefaultCacheSize    = 1024
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultLogMaxSizeMB = 100
	DefaultLogBackups   = 3
	DefaultLogMaxAge    = 28
	DefaultProbeBaseURL = "http://localhost:5000"
)

// HTTP timeouts in seconds
const (
	DefaultReadTimeoutSec  = 10
	DefaultWriteTimeoutSec = 10
	DefaultProbeTimeoutSec = 5
	ShutdownTimeoutSec     = 10
)

// Outcome labels as they appear in the dataset
const (
	LabelTurnoverYes = "有"
	LabelTurnoverNo  = "沒有"
)

// Default value substituted for an absent predict parameter
const DefaultFeatureValue = 1.0

// Report query bounds
const (
	DefaultReportLimit = 50
	MaxReportLimit     = 500
)

// Common error messages
const (
	ErrMsgModelNotLoaded     = "模型未載入"
	ErrMsgChartNotLoaded     = "圖表資料未載入"
	ErrMsgReportDisabled     = "report store disabled"
	ErrMsgInternal           = "internal server error"
	ErrMsgInvalidReportLimit = "limit must be a positive integer"
)

// Validation constants
const (
	MinPort       = 1
	MaxPort       = 65535
	MinSampleSize = 1
	MaxSampleSize = 100000
	MaxCacheSize  = 1 << 20
)
