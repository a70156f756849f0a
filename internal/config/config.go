// Package config merges defaults, an optional config file, VOZC_* env vars
// and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vozc/internal/codegen"
	"vozc/internal/nlu"
)

type Config struct {
	Output   string
	Language string
	Log      string
	Speak    bool
	View     bool
	Socket   string
	Listen   ListenConfig
	Wake     WakeConfig
	Notify   NotifyConfig
	NLU      NLUConfig `mapstructure:"nlu"`
	STT      STTConfig `mapstructure:"stt"`
	Audio    AudioConfig
	Bus      BusConfig
}

type ListenConfig struct {
	Wake          time.Duration
	Command       time.Duration
	Pause         time.Duration
	StopOnSilence bool `mapstructure:"stop_on_silence"`
}

type WakeConfig struct {
	Phrases []string
}

type NotifyConfig struct {
	Beep bool
	Cue  string
}

type NLUConfig struct {
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
	MatchThreshold float64 `mapstructure:"match_threshold"`
}

type STTConfig struct {
	Backend     string
	Model       string
	Threads     int
	CLI         string `mapstructure:"cli"`
	OpenAIModel string `mapstructure:"openai_model"`
	APIKey      string `mapstructure:"api_key"`
	Proxy       string
	MinRMS      float64 `mapstructure:"min_rms"`
}

type AudioConfig struct {
	Replay  []string
	Denoise bool
	Duck    bool
}

type BusConfig struct {
	URL string `mapstructure:"url"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", codegen.DefaultOutput)
	v.SetDefault("language", "es")
	v.SetDefault("log", "info")
	v.SetDefault("speak", false)
	v.SetDefault("view", true)
	v.SetDefault("socket", "")

	v.SetDefault("listen.wake", 3*time.Second)
	v.SetDefault("listen.command", 8*time.Second)
	v.SetDefault("listen.pause", 500*time.Millisecond)
	v.SetDefault("listen.stop_on_silence", false)

	v.SetDefault("wake.phrases", []string{"oye compilador", "oye compiler", "hey compilador"})

	v.SetDefault("notify.beep", true)
	v.SetDefault("notify.cue", "beep.mp3")

	v.SetDefault("nlu.fuzzy_threshold", nlu.DefaultFuzzyThreshold)
	v.SetDefault("nlu.match_threshold", nlu.DefaultMatchThreshold)

	v.SetDefault("stt.backend", "whisper")
	v.SetDefault("stt.model", "third_party/whisper.cpp/models/ggml-base.bin")
	v.SetDefault("stt.threads", 0)
	v.SetDefault("stt.cli", "whisper-cli")
	v.SetDefault("stt.openai_model", "whisper-1")
	v.SetDefault("stt.proxy", "")
	v.SetDefault("stt.min_rms", 0.002)

	v.SetDefault("audio.replay", []string{})
	v.SetDefault("audio.denoise", true)
	v.SetDefault("audio.duck", false)

	v.SetDefault("bus.url", "")
}

// Load parses args (without the program name) and resolves the configuration.
// It returns cli.ErrHelp when -h was given.
func Load(args []string) (Config, error) {
	flags := cli.NewFlagSet("vozc", cli.ContinueOnError)
	envFile := flags.StringP("env", "e", ".env", "Env file path")
	cfgFile := flags.StringP("config", "c", "", "Config file (toml, yaml or json)")
	flags.StringP("log", "l", "info", "Log level: "+strings.Join(logLevels, ", "))
	flags.StringP("output", "o", codegen.DefaultOutput, "File generated code is appended to")
	flags.String("backend", "whisper", "Speech-to-text backend: whisper, whisper-cli, openai, stdin")
	flags.StringP("model", "m", "", "Whisper model path")
	flags.StringP("proxy", "p", "", "SOCKS5 proxy address for the openai backend")
	flags.StringSlice("replay", nil, "Audio files to use instead of the microphone")
	flags.Bool("stdin", false, "Read transcripts from stdin instead of listening")
	flags.Bool("speak", false, "Read outcomes aloud")
	flags.Bool("no-view", false, "Do not open the output file after writing")
	flags.Bool("duck", false, "Lower other audio while capturing a command")
	flags.String("bus", "", "Websocket hub to publish outcomes to")
	flags.String("socket", "", "Control socket path")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VOZC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("stt.api_key", "VOZC_STT_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, err
	}

	if err := readConfigFile(v, *cfgFile); err != nil {
		return Config{}, err
	}

	for key, flag := range map[string]string{
		"log":          "log",
		"output":       "output",
		"stt.backend":  "backend",
		"stt.model":    "model",
		"stt.proxy":    "proxy",
		"audio.replay": "replay",
		"speak":        "speak",
		"audio.duck":   "duck",
		"bus.url":      "bus",
		"socket":       "socket",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if on, _ := flags.GetBool("stdin"); on {
		c.STT.Backend = "stdin"
	}
	if off, _ := flags.GetBool("no-view"); off {
		c.View = false
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("vozc")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "vozc"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Output == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Listen.Wake <= 0 || c.Listen.Command <= 0 {
		errs = append(errs, fmt.Errorf("listen windows must be positive (wake=%s, command=%s)", c.Listen.Wake, c.Listen.Command))
	}
	if c.Listen.Pause < 0 {
		errs = append(errs, fmt.Errorf("negative pause %s", c.Listen.Pause))
	}
	if len(c.Wake.Phrases) == 0 {
		errs = append(errs, errors.New("no activation phrases"))
	}
	for name, th := range map[string]float64{
		"nlu.fuzzy_threshold": c.NLU.FuzzyThreshold,
		"nlu.match_threshold": c.NLU.MatchThreshold,
	} {
		if th < 0 || th > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", name, th))
		}
	}
	if !validLevel(c.Log) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log))
	}

	return errors.Join(errs...)
}

func validLevel(l string) bool {
	for _, x := range logLevels {
		if l == x {
			return true
		}
	}
	return false
}
