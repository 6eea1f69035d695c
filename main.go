// Package main provides the sd-viavoice speech-dispatcher output
// module: a stdio protocol server in front of the IBM ViaVoice engine.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/openspeechd/sd-viavoice/cache"
	"github.com/openspeechd/sd-viavoice/config"
	"github.com/openspeechd/sd-viavoice/engine"
	"github.com/openspeechd/sd-viavoice/engine/viavoice"
	"github.com/openspeechd/sd-viavoice/host"
	"github.com/openspeechd/sd-viavoice/synth"
)

// defaultEngineConfig is where the dispatcher installs module configs.
const defaultEngineConfig = "/etc/speech-dispatcher/modules/viavoice.conf"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "sd-viavoice",
		Short: "Speech Dispatcher output module for IBM ViaVoice",
		Long: "\nSpeech Dispatcher output module for the IBM ViaVoice (ECI) engine.\n" +
			"Run by speech-dispatcher over a stdio pipe; use the speak subcommand\n" +
			"for one-shot synthesis from a shell.",
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          runModule,
	}
)

// runModule runs the protocol loop until the dispatcher disconnects.
func runModule(*cobra.Command, []string) error {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is a terminal; this command is meant to be started " +
			"by speech-dispatcher (try `sd-viavoice speak` instead)")
	}

	eng, cfg, rate, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	srv := host.NewServer(os.Stdin, os.Stdout, nil, engine.PresetVoices[cfg.DefaultVoice], log.Default())
	session := synth.NewSession(synth.SessionConfig{
		Engine:     eng,
		Reporter:   srv,
		Output:     host.NewServerOutput(srv),
		Cache:      openCache(),
		Logger:     log.Default(),
		SampleRate: rate,
		Voice:      cfg.DefaultVoice,
	})
	srv.SetSpeaker(session)

	done := make(chan struct{})
	defer close(done)
	if viper.GetBool("watch") {
		err := config.Watch(engineConfigPath(), done, func(cfg config.Config) {
			host.ApplyVoiceConfig(eng, cfg)
		})
		if err != nil {
			log.Warn("config watching unavailable", "err", err)
		}
	}

	log.Info("module ready", "rate", rate, "voice", engine.PresetVoices[cfg.DefaultVoice])
	return srv.Run()
}

// openEngine loads the engine config, opens the native library and
// applies the configured setup. Shared by the module loop and speak.
func openEngine() (engine.Engine, config.Config, int, error) {
	cfg, err := config.Load(engineConfigPath())
	if err != nil {
		return nil, cfg, 0, err
	}

	eng, err := viavoice.Open(viper.GetString("library"))
	if err != nil {
		return nil, cfg, 0, fmt.Errorf("opening engine: %w", err)
	}

	rate := host.ConfigureEngine(eng, cfg)
	return eng, cfg, rate, nil
}

func engineConfigPath() string {
	if p := viper.GetString("engine_config"); p != "" {
		return p
	}
	return defaultEngineConfig
}

// openCache returns the utterance cache, or nil when disabled or
// unavailable. Synthesis works identically without it.
func openCache() synth.AudioCache {
	if !viper.GetBool("cache.enabled") {
		return nil
	}

	dir := viper.GetString("cache.dir")
	if dir == "" {
		scope := gap.NewScope(gap.User, "sd-viavoice")
		d, err := scope.CacheDir()
		if err != nil {
			log.Warn("no cache directory available", "err", err)
			return nil
		}
		dir = filepath.Join(d, "utterances")
	}
	if expanded, err := homedir.Expand(dir); err == nil {
		dir = expanded
	}

	capacity := int64(viper.GetInt("cache.max_size")) * 1024 * 1024
	c, err := cache.New(dir, capacity)
	if err != nil {
		log.Warn("utterance cache disabled", "err", err)
		return nil
	}
	log.Debug("utterance cache open", "dir", dir, "entries", c.Len())
	return c
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().String("library", "", "path to libibmeci.so (default: system search path)")
	rootCmd.PersistentFlags().String("engine-config", "", fmt.Sprintf("engine config file (default %s)", defaultEngineConfig))
	rootCmd.Flags().Bool("watch", false, "reload voice parameters when the engine config changes")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))
	_ = viper.BindPFlag("engine_config", rootCmd.PersistentFlags().Lookup("engine-config"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))

	viper.SetDefault("debug", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("library", "")
	viper.SetDefault("engine_config", "")
	viper.SetDefault("watch", false)
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.max_size", 100)

	rootCmd.AddCommand(speakCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "sd-viavoice")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "sd-viavoice")}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("sd-viavoice")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("sd_viavoice")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}
	configFile = filepath.Join(dirs[0], "sd-viavoice.yml")
}
