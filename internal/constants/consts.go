package constants

// Environment variable constants
const (
	EnvToken           = "GO_LAB_STATUS_TOKEN"
	EnvDOB             = "GO_LAB_STATUS_DOB"
	EnvBaseURL         = "GO_LAB_STATUS_URL"
	EnvTimezone        = "GO_LAB_STATUS_TIMEZONE"
	EnvOutput          = "GO_LAB_STATUS_OUTPUT"
	EnvAlertTitle      = "GO_LAB_STATUS_ALERT_TITLE"
	EnvLogLevel        = "GO_LAB_STATUS_LOG_LEVEL"
	EnvLogFormat       = "GO_LAB_STATUS_LOG_FORMAT"
	EnvMetricsTextfile = "GO_LAB_STATUS_METRICS_TEXTFILE"
	EnvTracing         = "GO_LAB_STATUS_TRACING"
)

// Lab service defaults
const (
	DefaultBaseURL   = "https://labtools.curativeinc.com/api/appointments/get_by_access_token/{token}"
	DefaultTimezone  = "America/Los_Angeles"
	TokenPlaceholder = "{token}"
)

// Output sink constants
const (
	OutputAuto    = "auto"
	OutputConsole = "console"
	OutputAlert   = "alert"

	DefaultAlertTitle = "Lab test status"
)

// HTTP header constants
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderUserAgent   = "User-Agent"
)

// Content type constants
const (
	ContentTypeJSON = "application/json"
)

// ServiceName identifies this program in logs, traces and the User-Agent header.
const ServiceName = "go-lab-status"

// Version is overridden at build time with -ldflags.
var Version = "dev"
