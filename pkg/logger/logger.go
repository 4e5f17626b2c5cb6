package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`

	// Output receives log lines. Nil means stdout.
	Output io.Writer `ignored:"true"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)

	zerolog.DurationFieldUnit = time.Millisecond

	var out io.Writer = os.Stdout
	if conf.Output != nil {
		out = conf.Output
	}

	if conf.PrettyFormat {
		dst := out
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = dst })
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if conf.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	log.Logger = log.Logger.With().Caller().Stack().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
