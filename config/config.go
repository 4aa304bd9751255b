package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/polyrabbit/tokenmap/http"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

//go:embed tokenmap.example.yml
var exampleConfig string

const envURL = "TOKENMAP_CONNECTION_URL"

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	flags := pflag.CommandLine
	showVersion := flags.BoolP("version", "v", false, "Show version number")
	showHelp := flags.BoolP("help", "h", false, "Show usage message")
	flags.MarkHidden("help")
	var exampleConfigFile string
	flags.StringVar(&exampleConfigFile, "example-config-file", "",
		"Generate example config file to the specified file path, by default it outputs to stdout")
	flags.Lookup("example-config-file").NoOptDefVal = "-"
	flags.BoolP("list-commands", "l", false, "List supported commands")
	flags.Usage = showUsageAndExit

	cfg, err := parse(flags, viper.GetViper(), os.Args[1:])
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	if *showHelp {
		showUsageAndExit()
	}
	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}
	if exampleConfigFile != "" {
		writeExampleConfig(exampleConfigFile)
		os.Exit(0)
	}
	if cfg.Command == "" && !viper.GetBool("list-commands") {
		showUsageAndExit()
	}

	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", viper.ConfigFileUsed())
	return cfg
}

// parse registers the shared flags on flags, reads the config file and the
// environment into v, and decodes the result
func parse(flags *pflag.FlagSet, v *viper.Viper, args []string) (*Config, error) {
	flags.BoolP("debug", "d", false, "Enable debug mode")
	flags.IntP("refresh", "r", 0, "Auto refresh on every specified seconds")
	var configFile string
	flags.StringVarP(&configFile, "config-file", "c", "", `Config file path, use "--example-config-file <path>" `+
		"to generate an example config file,\n"+
		"by default tokenmap uses \"tokenmap.yml\" in current directory or $HOME as config file")
	flags.StringSliceP("show", "s", supportedColumns(), "Only show comma-separated columns")
	flags.StringP("url", "u", http.DefaultBaseURL, "Tokenmap service URL, also read from $"+envURL)
	flags.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	flags.IntP("timeout", "t", 20, "HTTP request timeout in seconds")
	flags.String("chain", "bitcoin", "Chain used by the quote command")
	flags.String("fiat", "USD", "Fiat currency for rate and value commands")
	flags.String("reference-asset", "BTC", "Asset that fiat prices are quoted against")
	flags.StringSlice("fallback-sources", []string{"bitcoinAverage", "bitstamp"}, "Ordered quote sources consulted for fiat rates")
	flags.Int("stale", 3600, "Seconds after which a quote is considered stale")
	flags.BoolP("force", "f", false, "Skip the cache when loading a quote")
	flags.String("cache-backend", "memory", `Cache backend, "memory" or "redis"`)
	flags.String("redis-addr", "127.0.0.1:6379", "Redis address used by the redis cache backend")
	flags.SortFlags = false

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v.BindPFlags(flags)
	v.BindPFlag("reference_asset", flags.Lookup("reference-asset"))
	v.BindPFlag("fallback_sources", flags.Lookup("fallback-sources"))
	v.BindPFlag("stale_seconds", flags.Lookup("stale"))
	v.BindPFlag("cache.backend", flags.Lookup("cache-backend"))
	v.BindPFlag("cache.redis_addr", flags.Lookup("redis-addr"))
	v.SetDefault("cache.prefix", "tokenmap:")
	v.BindEnv("url", envURL)
	v.SetEnvPrefix("tokenmap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Set configure file
	v.SetConfigName("tokenmap") // name of config file (without extension)
	v.AddConfigPath(".")        // path to look for the config file in
	v.AddConfigPath("$HOME")    // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")     // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
		default:
			if configFile != "" {
				return nil, errors.Wrapf(err, "read config file %s", configFile)
			}
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", v.ConfigFileUsed())
	}
	if positional := flags.Args(); len(positional) != 0 {
		cfg.Command = positional[0]
		cfg.Args = positional[1:]
	}
	return &cfg, nil
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options] <command> [arguments...]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nLook up token metadata and price quotes from a tokenmap service")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  Use -l to list them, eg. \"quote USD:BTC\", \"token bitcoin BTC\", \"value poloniex MYTOKEN\".")
	fmt.Fprintln(os.Stderr, "\nFind help/updates from here - https://github.com/polyrabbit/tokenmap")
	os.Exit(0)
}

func writeExampleConfig(fpath string) {
	fout, err := os.Stdout, error(nil)
	if fpath != "-" {
		if _, err := os.Stat(fpath); err == nil {
			logrus.Warnf("%s already exists, skipping", fpath)
			return
		}
		if fout, err = os.Create(fpath); err != nil {
			logrus.Errorf("Failed to create config file %s, error: %v", fpath, err)
			return
		}
		defer fout.Close()
	}
	if _, err := fout.WriteString(exampleConfig); err != nil {
		logrus.Errorf("Failed to write config file %s, error: %v", fpath, err)
	} else if fout != os.Stdout {
		logrus.Infof("Write example config file to %s", fpath)
	}
}

func ListCommandsAndExit(commands []string) {
	fmt.Fprintln(os.Stderr, "Supported commands:")
	for _, name := range commands {
		fmt.Fprintf(os.Stderr, " %s\n", name)
	}
	os.Exit(0)
}
