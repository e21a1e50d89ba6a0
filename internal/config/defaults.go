package config

import "time"

const (
	// DefaultConfigFile is read when present and no --config is given
	DefaultConfigFile = "sitecheck.yaml"
	// DefaultEnvFile is the dotenv file merged under the process environment
	DefaultEnvFile = ".env"
	// DefaultBaseURL is the site the built-in flows run against
	DefaultBaseURL = "https://zoom.us/"
	// DefaultScenarioDir is the default directory scanned for scenario scripts
	DefaultScenarioDir = "scenarios"
	// DefaultReportPath is the default HTML report file; screenshots go next to it
	DefaultReportPath = "report.html"
	// DefaultReportTitle is the default HTML report title
	DefaultReportTitle = "sitecheck report"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultWait is the wait ceiling for element readiness
	DefaultWait = 4 * time.Second
	// DefaultNavigationTimeout bounds a page load
	DefaultNavigationTimeout = 30 * time.Second
)

// Environment variables read by Load
const (
	EnvBaseURL   = "SITECHECK_BASE_URL"
	EnvChromeBin = "SITECHECK_CHROME_BIN"
	EnvHeadless  = "SITECHECK_HEADLESS"
	EnvReport    = "SITECHECK_REPORT"
	EnvMySQLDSN  = "SITECHECK_MYSQL_DSN"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for scenarios
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
	"testdata",
}
