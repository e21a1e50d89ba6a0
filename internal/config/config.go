package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sitecheck/internal/browser"
	"sitecheck/internal/schema"
)

// Config holds all configuration for the application
type Config struct {
	// Site settings
	BaseURL string

	// Browser settings
	Browser browser.Options

	// Report settings
	ReportPath  string
	ReportTitle string

	// Scenario settings
	ScenarioDir string
	Builtin     bool
	Vars        map[string]string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	MySQLDSN       string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	EnvFile      string
	NameFilter   string
	ScenarioDir  string
	FailFast     bool
	OnlyFailed   bool
	BaseURL      string
	Headless     *bool // nil when the flag was not given
	ChromeBin    string
	ReportPath   string
	Vars         map[string]string
	OpenFailures bool
	NoBuiltin    bool
}

// fileConfig mirrors sitecheck.yaml; pointers tell unset from zero
type fileConfig struct {
	Site struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"site"`
	Browser struct {
		Bin               string `yaml:"bin"`
		Headless          *bool  `yaml:"headless"`
		NoSandbox         *bool  `yaml:"no_sandbox"`
		Wait              string `yaml:"wait"`
		NavigationTimeout string `yaml:"navigation_timeout"`
	} `yaml:"browser"`
	Report struct {
		Path  string `yaml:"path"`
		Title string `yaml:"title"`
	} `yaml:"report"`
	Scenarios string            `yaml:"scenarios"`
	Builtin   *bool             `yaml:"builtin"`
	Vars      map[string]string `yaml:"vars"`
	Storage   struct {
		Dir      string `yaml:"dir"`
		File     string `yaml:"file"`
		MySQLDSN string `yaml:"mysql_dsn"`
	} `yaml:"storage"`
	PathsToIgnore []string `yaml:"paths_to_ignore"`
}

// New creates a new Config with defaults
func New() *Config {
	opts := browser.DefaultOptions()
	opts.Wait = DefaultWait
	opts.NavigationTimeout = DefaultNavigationTimeout

	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		Browser:        opts,
		ReportPath:     DefaultReportPath,
		ReportTitle:    DefaultReportTitle,
		ScenarioDir:    DefaultScenarioDir,
		Builtin:        true,
		Vars:           map[string]string{},
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load builds the configuration: defaults, then the config file, then the
// environment (with the dotenv file underneath it), then flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()

	path := flags.ConfigFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", envFile, err)
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config %s: %w", path, err)
	}
	if err := schema.ValidateConfig(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error parsing config %s: %w", path, err)
	}

	if fc.Site.BaseURL != "" {
		c.BaseURL = fc.Site.BaseURL
	}
	if fc.Browser.Bin != "" {
		c.Browser.Bin = fc.Browser.Bin
	}
	if fc.Browser.Headless != nil {
		c.Browser.Headless = *fc.Browser.Headless
	}
	if fc.Browser.NoSandbox != nil {
		c.Browser.NoSandbox = *fc.Browser.NoSandbox
	}
	if err := parseDuration(fc.Browser.Wait, &c.Browser.Wait); err != nil {
		return fmt.Errorf("%s: browser.wait: %w", path, err)
	}
	if err := parseDuration(fc.Browser.NavigationTimeout, &c.Browser.NavigationTimeout); err != nil {
		return fmt.Errorf("%s: browser.navigation_timeout: %w", path, err)
	}
	if fc.Report.Path != "" {
		c.ReportPath = fc.Report.Path
	}
	if fc.Report.Title != "" {
		c.ReportTitle = fc.Report.Title
	}
	if fc.Scenarios != "" {
		c.ScenarioDir = fc.Scenarios
	}
	if fc.Builtin != nil {
		c.Builtin = *fc.Builtin
	}
	for k, v := range fc.Vars {
		c.Vars[k] = v
	}
	if fc.Storage.Dir != "" {
		c.OutputJSONDir = fc.Storage.Dir
	}
	if fc.Storage.File != "" {
		c.OutputJSONFile = fc.Storage.File
	}
	if fc.Storage.MySQLDSN != "" {
		c.MySQLDSN = fc.Storage.MySQLDSN
	}
	if fc.PathsToIgnore != nil {
		c.PathsToIgnore = fc.PathsToIgnore
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvChromeBin); ok && v != "" {
		c.Browser.Bin = v
	}
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		c.Browser.Headless = headless
	}
	if v, ok := lookup(EnvReport); ok && v != "" {
		c.ReportPath = v
	}
	if v, ok := lookup(EnvMySQLDSN); ok && v != "" {
		c.MySQLDSN = v
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) {
	c.Flags = flags
	if flags.BaseURL != "" {
		c.BaseURL = flags.BaseURL
	}
	if flags.Headless != nil {
		c.Browser.Headless = *flags.Headless
	}
	if flags.ChromeBin != "" {
		c.Browser.Bin = flags.ChromeBin
	}
	if flags.ReportPath != "" {
		c.ReportPath = flags.ReportPath
	}
	if flags.ScenarioDir != "" {
		c.ScenarioDir = flags.ScenarioDir
	}
	if flags.NoBuiltin {
		c.Builtin = false
	}
	for k, v := range flags.Vars {
		c.Vars[k] = v
	}
}

func parseDuration(s string, into *time.Duration) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", s)
	}
	*into = d
	return nil
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetReportDir returns the directory holding the report and its screenshots
func (c *Config) GetReportDir() string {
	dir := filepath.Dir(c.ReportPath)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
