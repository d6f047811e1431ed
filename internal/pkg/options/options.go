package options

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cassandra-tools/range-repair/internal/pkg/retry"
)

const envPrefix = "RANGE_REPAIR"

// Options contains parsed flags and ENV variables.
type Options struct {
	Verbose        bool     `flag:"verbose"`       // verbose mode, print details to console
	Debug          bool     `flag:"debug"`         // debug mode, even more details
	LogFilePath    string   `flag:"log-file"`      // path to the log file
	Host           string   `flag:"host"`          // target Cassandra node
	Port           int      `flag:"port"`          // JMX port
	Username       string   `flag:"username"`      // JMX username
	Password       string   `flag:"password"`      // JMX password
	Nodetool       string   `flag:"nodetool"`      // nodetool binary path
	Keyspace       string   `flag:"keyspace"`      // keyspace to repair, empty means all
	ColumnFamilies []string `flag:"columnfamily"`  // column families to repair, requires keyspace
	Steps          int      `flag:"steps"`         // sub-ranges per owned token range
	Workers        int      `flag:"workers"`       // concurrent repair tasks
	Datacenter     string   `flag:"datacenter"`    // restrict the ring to one datacenter
	Local          bool     `flag:"local"`         // repair only within the local datacenter
	Incremental    bool     `flag:"inc"`           // incremental repair instead of full
	Snapshot       bool     `flag:"snapshot"`      // sequential repair using snapshots
	DryRun         bool     `flag:"dry-run"`       // print commands instead of running them
	OffsetSpec     string   `flag:"offset"`        // "node[,step]" starting position
	ExcludeSpec    string   `flag:"exclude-step"`  // "[keyspace[,columnFamily,]]node,step"
	OutputStatus   string   `flag:"output-status"` // path of the status document
	MaxTries       int      `flag:"max-tries"`     // attempts per repair command
	InitialSleep   float64  `flag:"initial-sleep"` // seconds before the first retry
	SleepFactor    float64  `flag:"sleep-factor"`  // retry interval multiplier
	MaxSleep       float64  `flag:"max-sleep"`     // retry interval cap in seconds, 0 = unbounded

	// Filled by Validate from OffsetSpec / ExcludeSpec.
	Offset  Offset
	Exclude *ExcludeStep
}

// BindPersistentFlags for all commands.
func (o *Options) BindPersistentFlags(flags *pflag.FlagSet) {
	flags.SortFlags = true
	flags.BoolP("help", "h", false, "print help for command")
	flags.StringP("log-file", "l", "", "path to a log file for details")
	flags.StringP("host", "H", defaultHostname(), "hostname or IP of the target node")
	flags.IntP("port", "P", 7199, "JMX port of the target node")
	flags.StringP("username", "U", "", "JMX username")
	flags.StringP("password", "W", "", "JMX password")
	flags.StringP("nodetool", "n", "nodetool", "path to the nodetool binary")
	flags.BoolP("verbose", "v", false, "print details")
	flags.Bool("debug", false, "print debugging details")
}

// BindRunFlags for the run command.
func (o *Options) BindRunFlags(flags *pflag.FlagSet) {
	flags.SortFlags = true
	flags.StringP("keyspace", "k", "", "keyspace to repair, all keyspaces when omitted")
	flags.StringSliceP("columnfamily", "c", nil, "column family to repair, can be repeated, requires --keyspace")
	flags.IntP("steps", "s", 100, "number of sub-ranges per owned token range")
	flags.IntP("workers", "w", 1, "number of concurrent repair tasks")
	flags.StringP("datacenter", "D", "", "only consider tokens of ring members in this datacenter")
	flags.Bool("local", false, "repair only within the local datacenter")
	flags.Bool("inc", false, "incremental repair instead of a full one")
	flags.Bool("snapshot", false, "sequential repair using snapshots")
	flags.BoolP("dry-run", "d", false, "print the repair commands instead of running them")
	flags.StringP("offset", "o", "", "start at \"node[,step]\", skipping everything before it")
	flags.StringP("exclude-step", "x", "", "skip \"[keyspace[,columnFamily,]]node,step\"")
	flags.String("output-status", "", "path of the JSON repair status document")
	flags.Int("max-tries", 1, "attempts per repair command before giving up")
	flags.Float64("initial-sleep", 1, "seconds to sleep before the first retry")
	flags.Float64("sleep-factor", 2, "multiplier applied to the retry interval after each failure")
	flags.Float64("max-sleep", 1800, "cap on the retry interval in seconds, 0 removes the cap")
}

// Load all sources of Options - flags, envs. ENV variables use the
// RANGE_REPAIR_ prefix with dashes replaced by underscores, flags win.
func (o *Options) Load(flags *pflag.FlagSet) error {
	parser := viper.NewWithOptions(viper.EnvKeyReplacer(strings.NewReplacer("-", "_")))
	if err := parser.BindPFlags(flags); err != nil {
		return err
	}
	parser.SetEnvPrefix(envPrefix)
	parser.AutomaticEnv()

	o.Verbose = parser.GetBool("verbose")
	o.Debug = parser.GetBool("debug")
	o.LogFilePath = parser.GetString("log-file")
	o.Host = parser.GetString("host")
	o.Port = parser.GetInt("port")
	o.Username = parser.GetString("username")
	o.Password = parser.GetString("password")
	o.Nodetool = parser.GetString("nodetool")
	o.Keyspace = parser.GetString("keyspace")
	o.ColumnFamilies = parser.GetStringSlice("columnfamily")
	o.Steps = parser.GetInt("steps")
	o.Workers = parser.GetInt("workers")
	o.Datacenter = parser.GetString("datacenter")
	o.Local = parser.GetBool("local")
	o.Incremental = parser.GetBool("inc")
	o.Snapshot = parser.GetBool("snapshot")
	o.DryRun = parser.GetBool("dry-run")
	o.OffsetSpec = parser.GetString("offset")
	o.ExcludeSpec = parser.GetString("exclude-step")
	o.OutputStatus = parser.GetString("output-status")
	o.MaxTries = parser.GetInt("max-tries")
	o.InitialSleep = parser.GetFloat64("initial-sleep")
	o.SleepFactor = parser.GetFloat64("sleep-factor")
	o.MaxSleep = parser.GetFloat64("max-sleep")
	return nil
}

// Validate the loaded values and parse the offset/exclude specs.
func (o *Options) Validate() error {
	if len(o.ColumnFamilies) > 0 && o.Keyspace == "" {
		return fmt.Errorf(`"--columnfamily" requires "--keyspace"`)
	}
	if o.Steps < 1 {
		return fmt.Errorf(`"--steps" must be at least 1, given %d`, o.Steps)
	}
	if o.Workers < 1 {
		return fmt.Errorf(`"--workers" must be at least 1, given %d`, o.Workers)
	}
	if o.MaxTries < 1 {
		return fmt.Errorf(`"--max-tries" must be at least 1, given %d`, o.MaxTries)
	}

	offset, err := ParseOffset(o.OffsetSpec)
	if err != nil {
		return err
	}
	o.Offset = offset

	exclude, err := ParseExcludeStep(o.ExcludeSpec)
	if err != nil {
		return err
	}
	o.Exclude = exclude
	return nil
}

// RetryConfig converts the retry flags to a retry.Config.
func (o *Options) RetryConfig() retry.Config {
	return retry.Config{
		MaxTries:     o.MaxTries,
		InitialSleep: secondsToDuration(o.InitialSleep),
		SleepFactor:  o.SleepFactor,
		MaxSleep:     secondsToDuration(o.MaxSleep),
	}
}

// Dump Options for debugging, hide the password.
func (o *Options) Dump() string {
	re := regexp.MustCompile(`(Password:")[^"]*(")`)
	str := fmt.Sprintf("Parsed options: %#v", o)
	str = re.ReplaceAllString(str, `$1*****$2`)
	return str
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func defaultHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return hostname
}
