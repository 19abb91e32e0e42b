package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Flash  FlashConfig  `mapstructure:"flash" validate:"required"`
	Quiz   QuizConfig   `mapstructure:"quiz" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// FlashConfig controls the lifetime and animation timings of flash notifications.
type FlashConfig struct {
	// Duration is how long a notification counts down before it fades out.
	Duration time.Duration `mapstructure:"duration" validate:"gt=0"`

	// Stagger is the delay between pre-rendered notifications becoming visible.
	Stagger time.Duration `mapstructure:"stagger" validate:"gte=0"`

	// FadeDuration is the length of the fade-out transition.
	FadeDuration time.Duration `mapstructure:"fade_duration" validate:"gte=0"`

	// FrameInterval is the period of the countdown tick.
	FrameInterval time.Duration `mapstructure:"frame_interval" validate:"gt=0"`

	// ResumePolicy selects what happens to the countdown when the pointer leaves.
	ResumePolicy string `mapstructure:"resume_policy" validate:"required,oneof=resume replenish"`

	// Replenish is added back on pointer-leave under the replenish policy.
	Replenish time.Duration `mapstructure:"replenish" validate:"gte=0"`
}

// QuizConfig contains settings for loading and running quizzes.
type QuizConfig struct {
	APIBaseURL   string        `mapstructure:"api_base_url" validate:"required,url"`
	LockDelay    time.Duration `mapstructure:"lock_delay" validate:"gte=0"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
}
