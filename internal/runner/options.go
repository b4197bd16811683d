package runner

import (
	"os"
	"strconv"
	"time"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/version"
	envutil "github.com/projectdiscovery/utils/env"
)

var (
	SubnetEnv     = envutil.GetEnvOrDefault("NETVIS_SUBNET", "")
	ListenEnv     = envutil.GetEnvOrDefault("NETVIS_LISTEN", "")
	ProbeEnv      = envutil.GetEnvOrDefault("NETVIS_PROBE", "")
	ArpSourceEnv  = envutil.GetEnvOrDefault("NETVIS_ARP_SOURCE", "")
	ResolverEnv   = envutil.GetEnvOrDefault("NETVIS_RESOLVER", "")
	ConfigFileEnv = envutil.GetEnvOrDefault("NETVIS_CONFIG", "")
	VerboseEnv    = envutil.GetEnvOrDefault("NETVIS_VERBOSE", "")
)

// Options contains the configuration options for tuning the discovery process.
type Options struct {
	ConfigFile string

	Subnet             string
	DefaultSubnet      string
	ProbeMethod        string
	ProbeTimeout       time.Duration
	ProbeConcurrency   int
	TableSource        string
	DNSServer          string
	ResolveTimeout     time.Duration
	ResolveConcurrency int
	ExcludeIPs         goflags.StringSlice
	ScanTimeout        time.Duration

	Serve         bool
	ListenAddress string

	Table   bool
	NoColor bool
	Verbose bool
	Silent  bool
	Debug   bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	defaults := config.Default()

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`netvis discovers the devices on the local IPv4 network`)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", ConfigFileEnv, "yaml configuration file (overrides flags)"),
	)

	flagSet.CreateGroup("discovery", "Discovery",
		flagSet.StringVarP(&options.Subnet, "subnet", "s", SubnetEnv, "subnet to scan instead of the local interface network (cidr)"),
		flagSet.StringVarP(&options.DefaultSubnet, "default-subnet", "ds", defaults.DefaultSubnet, "subnet to scan when no local network is detected"),
		flagSet.StringVarP(&options.ProbeMethod, "probe", "p", valueOr(ProbeEnv, defaults.ProbeMethod), "probe method to use (icmp, ping)"),
		flagSet.DurationVarP(&options.ProbeTimeout, "probe-timeout", "pt", defaults.ProbeTimeout, "timeout for a single echo probe"),
		flagSet.IntVarP(&options.ProbeConcurrency, "probe-concurrency", "pc", defaults.ProbeConcurrency, "number of concurrent probes"),
		flagSet.StringVarP(&options.TableSource, "arp-source", "as", valueOr(ArpSourceEnv, defaults.TableSource), "resolution cache source (auto, proc, netlink, iproute2, arp)"),
		flagSet.StringVarP(&options.DNSServer, "resolver", "r", ResolverEnv, "dns server for reverse lookups (host[:port])"),
		flagSet.DurationVarP(&options.ResolveTimeout, "resolve-timeout", "rt", defaults.ResolveTimeout, "timeout for a single reverse lookup"),
		flagSet.IntVarP(&options.ResolveConcurrency, "resolve-concurrency", "rc", defaults.ResolveConcurrency, "number of concurrent reverse lookups"),
		flagSet.StringSliceVarP(&options.ExcludeIPs, "exclude-ip", "ei", nil, "additional addresses to exclude (comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.DurationVarP(&options.ScanTimeout, "scan-timeout", "st", defaults.ScanTimeout, "maximum duration of a whole scan"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVar(&options.Serve, "serve", false, "serve scans over http instead of running a single scan"),
		flagSet.StringVarP(&options.ListenAddress, "listen", "l", valueOr(ListenEnv, defaults.ListenAddress), "address to serve http on"),
		flagSet.BoolVarP(&options.Table, "table", "t", false, "print a table instead of json"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if verbose, _ := strconv.ParseBool(VerboseEnv); verbose && !options.Verbose {
		options.Verbose = true
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	return options
}

// Config builds the validated scan configuration. Keys present in the
// configuration file take precedence over flag values.
func (options *Options) Config() (config.Config, error) {
	cfg := config.Default()
	cfg.Subnet = options.Subnet
	cfg.DefaultSubnet = valueOr(options.DefaultSubnet, cfg.DefaultSubnet)
	cfg.ProbeMethod = valueOr(options.ProbeMethod, cfg.ProbeMethod)
	cfg.TableSource = valueOr(options.TableSource, cfg.TableSource)
	cfg.DNSServer = options.DNSServer
	cfg.ListenAddress = valueOr(options.ListenAddress, cfg.ListenAddress)
	if options.ProbeTimeout > 0 {
		cfg.ProbeTimeout = options.ProbeTimeout
	}
	if options.ProbeConcurrency > 0 {
		cfg.ProbeConcurrency = options.ProbeConcurrency
	}
	if options.ResolveTimeout > 0 {
		cfg.ResolveTimeout = options.ResolveTimeout
	}
	if options.ResolveConcurrency > 0 {
		cfg.ResolveConcurrency = options.ResolveConcurrency
	}
	if options.ScanTimeout > 0 {
		cfg.ScanTimeout = options.ScanTimeout
	}
	cfg.ExcludedIPs = append(cfg.ExcludedIPs, options.ExcludeIPs...)

	if options.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadFile(options.ConfigFile, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg.Validate()
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
