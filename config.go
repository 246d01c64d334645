// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
	"github.com/vbits/vbitsd/chaincfg"
	"github.com/vbits/vbitsd/internal/version"
	"github.com/vbits/vbitsd/internal/versionbits"
	"github.com/vbits/vbitsd/sampleconfig"
)

const (
	defaultConfigFilename = "vbitsd.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "vbitsd.log"
)

var (
	defaultHomeDir    = dcrutil.AppDataDir("vbitsd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for vbitsd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	HomeDir     string `short:"A" long:"appdata" description:"Path to application home directory" env:"VBITSD_APPDATA"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir      string `long:"logdir" description:"Directory to log output"`

	// Logging.
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	// Network selection.
	TestNet bool `long:"testnet" description:"Use the test network"`
	RegNet  bool `long:"regnet" description:"Use the regression test network"`
	SimNet  bool `long:"simnet" description:"Use the simulation test network"`

	// Deployments.
	DeploymentsFile string `long:"deploymentsfile" description:"Path to a YAML file that replaces the deployments of the selected network"`
	CacheSize       uint32 `long:"cachesize" description:"Maximum number of window boundary states retained per deployment"`

	// Header generation.
	Generate      int           `long:"generate" description:"Number of headers to generate on top of the active chain"`
	BlockVersion  uint32        `long:"blockversion" description:"Version of the generated headers (0 uses the expected version of each block)"`
	BlockInterval time.Duration `long:"blockinterval" description:"Time between the timestamps of generated headers (0 uses the network target)"`
	ForkHeight    int64         `long:"forkheight" description:"Height of the active chain block to build the generated headers on (-1 uses the tip)"`

	// Block template.
	Signal []string `long:"signal" description:"Deployment to signal for in the block template; may be specified multiple times"`
	Rules  []string `long:"rules" description:"Deployment rule supported by the block template client; may be specified multiple times"`

	// The following fields are set by loadConfig.
	params *chaincfg.Params
	netDir string
}

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not caused
// by the user.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Nothing to do when no path is given.
	if path == "" {
		return path
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser to
	// otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if filepath.Separator == '/' {
		pathSeparators = "/"
	} else {
		pathSeparators = "/\\"
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	if userName == "" {
		homeDir, _ = os.UserHomeDir()
	}
	if homeDir == "" {
		// Fall back to the application home directory when the user home
		// directory can not be determined.
		homeDir = defaultHomeDir
	}

	return filepath.Join(homeDir, path)
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := slog.LevelFromString(logLevel)
	return ok
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	// Convert the subsystemLoggers map keys to a slice.
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		setLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// createDefaultConfigFile creates a default config file at the provided path
// from the commented sample config.
func createDefaultConfigFile(destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(sampleconfig.Vbitsd()), 0600)
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *config, options flags.Options) *flags.Parser {
	return flags.NewParser(cfg, options)
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in vbitsd functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.
func loadConfig(appName string) (*config, []string, error) {
	// Default config.
	cfg := config{
		HomeDir:    defaultHomeDir,
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		CacheSize:  versionbits.DefaultCacheSize,
		ForkHeight: -1,
	}

	// Pre-parse the command line options to see if an alternative config
	// file, the version flag, or an alternative application home directory
	// was specified.  Any errors aside from the help message error can be
	// ignored here since they will be caught by the final parse below.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, version.String())
		os.Exit(0)
	}

	// Update the home directory if specified.  Since the home directory is
	// updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != "" {
		cfg.HomeDir = cleanAndExpandPath(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			preCfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		}
		if preCfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
	}

	// Create a default config file when one does not exist and the user did
	// not specify an override.
	preCfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.ConfigFile == filepath.Join(cfg.HomeDir, defaultConfigFilename) &&
		!fileExists(preCfg.ConfigFile) {

		if err := createDefaultConfigFile(preCfg.ConfigFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config "+
				"file: %v\n", err)
		}
	}

	// Load additional config from file.
	parser := newConfigParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			err = fmt.Errorf("error parsing config file: %w", err)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	cfg.params = chaincfg.MainNetParams()
	if cfg.TestNet {
		numNets++
		cfg.params = chaincfg.TestNetParams()
	}
	if cfg.RegNet {
		numNets++
		cfg.params = chaincfg.RegNetParams()
	}
	if cfg.SimNet {
		numNets++
		cfg.params = chaincfg.SimNetParams()
	}
	if numNets > 1 {
		str := "%s: the testnet, regnet, and simnet params can't be " +
			"used together -- choose one of the three"
		return nil, nil, fmt.Errorf(str, "loadConfig")
	}

	// Append the network type to the data and log directories so they are
	// "namespaced" per network.
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.netDir = filepath.Join(cfg.DataDir, cfg.params.Name)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	logDir := filepath.Join(cfg.LogDir, cfg.params.Name)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	if !cfg.NoFileLogging {
		initLogRotator(filepath.Join(logDir, defaultLogFilename))
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, fmt.Errorf("loadConfig: %w", err)
	}

	if cfg.CacheSize == 0 {
		str := "%s: the cache size must be positive -- parsed [%d]"
		return nil, nil, fmt.Errorf(str, "loadConfig", cfg.CacheSize)
	}
	if cfg.Generate < 0 {
		str := "%s: the number of headers to generate can't be negative " +
			"-- parsed [%d]"
		return nil, nil, fmt.Errorf(str, "loadConfig", cfg.Generate)
	}
	if cfg.ForkHeight < -1 {
		str := "%s: the fork height can't be below -1 -- parsed [%d]"
		return nil, nil, fmt.Errorf(str, "loadConfig", cfg.ForkHeight)
	}
	if cfg.BlockInterval < 0 {
		str := "%s: the block interval can't be negative -- parsed [%v]"
		return nil, nil, fmt.Errorf(str, "loadConfig", cfg.BlockInterval)
	}
	if cfg.DeploymentsFile != "" {
		cfg.DeploymentsFile = cleanAndExpandPath(cfg.DeploymentsFile)
	}

	return &cfg, remainingArgs, nil
}
