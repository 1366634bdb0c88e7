package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Port                 int           `env:"PORT,required=true"`
	AdminPort            int           `env:"ADMIN_PORT,required=true"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true"`
	MediaDir             string        `env:"MEDIA_DIR,required=true"`
	MediaBaseURL         string        `env:"MEDIA_BASE_URL,default=/media"`
	MaxAttachmentBytes   int           `env:"MAX_ATTACHMENT_BYTES,default=5242880"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	EventRate            float64       `env:"EVENT_RATE,default=20"`
	EventBurst           int           `env:"EVENT_BURST,default=40"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
