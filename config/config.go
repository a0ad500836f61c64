// Package config loads the settings of a local match.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	AliceFunds uint64 `mapstructure:"alice_funds"`
	BobFunds   uint64 `mapstructure:"bob_funds"`
	BigBlind   uint64 `mapstructure:"big_blind"`
	// Dealer is "kyber" for the commutative encryption deck or "trusted"
	// for the trusted shuffle seeded with Seed.
	Dealer   string `mapstructure:"dealer"`
	Seed     uint64 `mapstructure:"seed"`
	Compress bool   `mapstructure:"compress"`
	// Auto plays both seats with a check/call bot.
	Auto         bool   `mapstructure:"auto"`
	AlwaysReveal bool   `mapstructure:"always_reveal"`
	LogLevel     string `mapstructure:"log_level"`
	Transcript   bool   `mapstructure:"transcript"`
}

const envPrefix = "POKER"

func defaults(v *viper.Viper) {
	v.SetDefault("alice_funds", 100)
	v.SetDefault("bob_funds", 300)
	v.SetDefault("big_blind", 10)
	v.SetDefault("dealer", "kyber")
	v.SetDefault("seed", 1)
	v.SetDefault("compress", true)
	v.SetDefault("auto", false)
	v.SetDefault("always_reveal", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("transcript", false)
}

// Flags declares the command line flags Load understands.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path of a YAML configuration file")
	fs.Uint64("alice-funds", 100, "funds of alice")
	fs.Uint64("bob-funds", 300, "funds of bob")
	fs.Uint64("big-blind", 10, "big blind")
	fs.String("dealer", "kyber", "dealing scheme: kyber or trusted")
	fs.Uint64("seed", 1, "seed of the trusted dealer")
	fs.Bool("compress", true, "compress frames with zstd")
	fs.Bool("auto", false, "let a check/call bot play both seats")
	fs.Bool("always-reveal", false, "show hole cards at showdown even when losing")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.Bool("transcript", false, "print the message transcript at the end")
}

// Load reads defaults, then the file at path when not empty, then POKER_*
// environment variables, then the flags of fs that were set explicitly.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || !f.Changed {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.BigBlind == 0 {
		return fmt.Errorf("big blind must be positive")
	}
	switch c.Dealer {
	case "kyber", "trusted":
	default:
		return fmt.Errorf("unknown dealer %q", c.Dealer)
	}
	return nil
}
