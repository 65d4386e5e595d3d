package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ACCTDB"

// LoadConfig fills config from, in increasing order of precedence, the defaults in
// defaultPath (if the file exists), the optional user config file, ACCTDB_* environment
// variables and the command-line flags bound to v.
func LoadConfig(v *viper.Viper, config interface{}, defaultPath string, userSpecifiedConfig string) error {
	v.SetConfigType("yaml")
	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			v.SetConfigFile(defaultPath)
			if err := v.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading default config %s", defaultPath)
			}
		}
	}
	if userSpecifiedConfig != "" {
		v.SetConfigFile(userSpecifiedConfig)
		if err := v.MergeInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", userSpecifiedConfig)
		}
		log.Debugf("merged config from %s", userSpecifiedConfig)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	err := v.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	return errors.WithStack(err)
}

// BindCommandlineArguments binds every flag of fs to the viper key of the same name.
func BindCommandlineArguments(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(f.Name, f)
	})
	return errors.WithStack(bindErr)
}

// ConfigureLogging sets up logrus for diagnostic output: every line carries a timestamp
// and its level.
func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)
}

// ConfigureCommandLineLogging sets up logrus for interactive use: informational lines are
// printed as-is, anything else is prefixed with its level.
func ConfigureCommandLineLogging() {
	log.SetFormatter(new(commandLineFormatter))
	log.SetOutput(os.Stdout)
}

type commandLineFormatter struct{}

func (f *commandLineFormatter) Format(entry *log.Entry) ([]byte, error) {
	var sb strings.Builder
	if entry.Level != log.InfoLevel {
		sb.WriteString(strings.ToUpper(entry.Level.String()))
		sb.WriteString(": ")
	}
	sb.WriteString(entry.Message)
	if err, ok := entry.Data[log.ErrorKey]; ok {
		sb.WriteString(fmt.Sprintf(" (%v)", err))
	}
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

// LevelFromVerbosity starts at Info and moves one level per -v towards Trace or per -q
// towards Fatal.
func LevelFromVerbosity(verbose, quiet int) log.Level {
	level := int(log.InfoLevel) + verbose - quiet
	if level > int(log.TraceLevel) {
		level = int(log.TraceLevel)
	}
	if level < int(log.FatalLevel) {
		level = int(log.FatalLevel)
	}
	return log.Level(level)
}
