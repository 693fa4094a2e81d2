// Package config handles game configuration loading and management.
package config

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	World    WorldConfig    `yaml:"world"`
	Game     GameConfig     `yaml:"game"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// WorldConfig holds terrain generation and chunk streaming settings.
type WorldConfig struct {
	Seed            int64 `yaml:"seed"`
	RenderDistance  int   `yaml:"render_distance"`
	Workers         int   `yaml:"workers"`           // 0 means NumCPU-1
	MaxPendingJobs  int   `yaml:"max_pending_jobs"`  // in-flight generation cap
	UploadsPerFrame int   `yaml:"uploads_per_frame"` // mesh uploads drained per frame
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	MoveSpeed        float64 `yaml:"move_speed"`
	ShowFPS          bool    `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		World: WorldConfig{
			Seed:            12345,
			RenderDistance:  8,
			Workers:         0,
			MaxPendingJobs:  100,
			UploadsPerFrame: 3,
		},
		Game: GameConfig{
			MouseSensitivity: 0.1,
			MoveSpeed:        10,
			ShowFPS:          false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
