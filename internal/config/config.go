// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Portal   PortalConfig   `yaml:"portal"`
	Content  ContentConfig  `yaml:"content"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// PortalConfig holds portal opening and compositing settings.
type PortalConfig struct {
	// OpeningWidth and OpeningHeight are the design opening size in meters.
	OpeningWidth  float32 `yaml:"opening_width"`
	OpeningHeight float32 `yaml:"opening_height"`

	// OpeningScale uniformly scales the opening. Clamped to [0.1, 1.0].
	OpeningScale float32 `yaml:"opening_scale"`

	// OffsetX shifts the opening horizontally in meters. Clamped to [-0.2, 0.2].
	OffsetX float32 `yaml:"offset_x"`

	// FitPadding is the content margin factor inside the opening. Clamped to (0, 1].
	FitPadding float32 `yaml:"fit_padding"`

	// Alignment is the horizontal content anchor: "center" or "left".
	Alignment string `yaml:"alignment"`

	// Strategy selects the compositing strategy: "auto", "stencil" or "hider".
	Strategy string `yaml:"strategy"`

	// OutsideThreshold and InsideThreshold are the crossing hysteresis
	// thresholds in meters of camera local Z. Outside must be positive,
	// inside negative.
	OutsideThreshold float32 `yaml:"outside_threshold"`
	InsideThreshold  float32 `yaml:"inside_threshold"`
}

// ContentConfig holds asset locations.
type ContentConfig struct {
	// SceneURLs are the selectable splat scene locations.
	SceneURLs []string `yaml:"scene_urls"`

	// DoorAsset is the door-frame asset path.
	DoorAsset string `yaml:"door_asset"`
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
		},
		Portal: PortalConfig{
			OpeningWidth:     0.68,
			OpeningHeight:    1.75,
			OpeningScale:     1.0,
			OffsetX:          0,
			FitPadding:       0.644,
			Alignment:        "center",
			Strategy:         "auto",
			OutsideThreshold: 0.12,
			InsideThreshold:  -0.12,
		},
		Content: ContentConfig{
			SceneURLs: []string{"assets/scenes/garden.splat"},
			DoorAsset: "assets/door.yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Clamp forces all tunables into their documented valid ranges.
func (c *Config) Clamp() {
	p := &c.Portal

	if p.OpeningWidth <= 0 {
		p.OpeningWidth = 0.68
	}
	if p.OpeningHeight <= 0 {
		p.OpeningHeight = 1.75
	}

	p.OpeningScale = clamp(p.OpeningScale, 0.1, 1.0)
	p.OffsetX = clamp(p.OffsetX, -0.2, 0.2)

	if p.FitPadding <= 0 || p.FitPadding > 1 {
		p.FitPadding = 0.644
	}

	if p.Alignment != "center" && p.Alignment != "left" {
		p.Alignment = "center"
	}
	if p.Strategy != "auto" && p.Strategy != "stencil" && p.Strategy != "hider" {
		p.Strategy = "auto"
	}

	if p.OutsideThreshold <= 0 {
		p.OutsideThreshold = 0.12
	}
	if p.InsideThreshold >= 0 {
		p.InsideThreshold = -0.12
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
