package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
	"github.com/aeroclub-nitte/wing-analyzer/internal/scoring"
)

// Defaults for a typical small RC aircraft design study.
const (
	DefaultMTOWKgs     = 8.5
	DefaultMaxWingspan = 1.8  // m
	DefaultVelocity    = 13.0 // m/s

	DefaultAlphaMin  = -5.0
	DefaultAlphaMax  = 20.0
	DefaultAlphaStep = 0.2

	DefaultReynoldsMin    = 1.5e5
	DefaultReynoldsMax    = 4e5
	DefaultReynoldsPoints = 10

	DefaultOperAlphaMin = 0.0
	DefaultOperAlphaMax = 5.0

	DefaultModelSize    = "xxxlarge"
	DefaultSpeedOfSound = 343.0 // m/s, for Mach computation

	DefaultApplication = "payload"
	DefaultTopN        = 10
)

// Output file names kept compatible with earlier tooling.
const (
	SweepOutputCSV         = "neuralfoil_output.csv"
	RankedOutputCSV        = "ranked_airfoils.csv"
	WingResultsCSV         = "final_wing_data.csv"
	SuitableWingsCSV       = "suitable_wings.csv"
	DatabaseFile           = "wing_analyzer.sqlite"
	defaultOutputDirectory = "output"
)

// Config is the main application configuration, loadable from YAML
// with every field optional; zero values take the documented defaults.
type Config struct {
	Settings Settings     `yaml:"settings"`
	Analysis Analysis     `yaml:"analysis"`
	Scoring  Scoring      `yaml:"scoring"`
	Design   DesignConfig `yaml:"design"`
	Solvers  Solvers      `yaml:"solvers"`
	Output   Output       `yaml:"output"`
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Analysis configures the surrogate sweep grid.
type Analysis struct {
	AirfoilsDir    string  `yaml:"airfoilsDir"`
	AlphaMin       float64 `yaml:"alphaMin"`
	AlphaMax       float64 `yaml:"alphaMax"`
	AlphaStep      float64 `yaml:"alphaStep"`
	ReynoldsMin    float64 `yaml:"reynoldsMin"`
	ReynoldsMax    float64 `yaml:"reynoldsMax"`
	ReynoldsPoints int     `yaml:"reynoldsPoints"`
	OperAlphaMin   float64 `yaml:"operAlphaMin"`
	OperAlphaMax   float64 `yaml:"operAlphaMax"`
	ModelSize      string  `yaml:"modelSize"`
	SpeedOfSound   float64 `yaml:"speedOfSound"`
}

// Band returns the operating range the optimum point is searched in.
func (a Analysis) Band() polar.Band {
	return polar.Band{Min: a.OperAlphaMin, Max: a.OperAlphaMax}
}

// Scoring selects the mission profile and optionally overrides the
// built-in weight tables.
type Scoring struct {
	Application string                        `yaml:"application"`
	Weights     map[string]map[string]float64 `yaml:"weights"`
	TopN        int                           `yaml:"topN"`
}

// Tables converts configured weight overrides into scorer tables, or
// nil when the defaults apply.
func (s Scoring) Tables() map[scoring.Application]scoring.Weights {
	if len(s.Weights) == 0 {
		return nil
	}

	tables := make(map[scoring.Application]scoring.Weights, len(s.Weights))
	for app, weights := range s.Weights {
		table := make(scoring.Weights, len(weights))
		for feature, weight := range weights {
			table[scoring.Feature(feature)] = weight
		}
		tables[scoring.Application(app)] = table
	}
	return tables
}

// DesignConfig configures wing geometry expansion and the feasibility filter.
type DesignConfig struct {
	MTOWKgs      float64   `yaml:"mtowKgs"`
	MaxWingspan  float64   `yaml:"maxWingspan"`
	Velocity     float64   `yaml:"velocity"`
	AspectRatios []float64 `yaml:"aspectRatios"`
}

// Solvers names the external tool binaries.
type Solvers struct {
	Surrogate string `yaml:"surrogate"`
	VLM       string `yaml:"vlm"`
}

// Output configures where the database and CSV exports land.
type Output struct {
	DataDirectory   string `yaml:"dataDirectory"`
	OutputDirectory string `yaml:"outputDirectory"`
}

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig reads a YAML configuration file, fills in defaults and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	c.applyDefaults()
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}

	if c.Analysis.AlphaMin == 0 && c.Analysis.AlphaMax == 0 {
		c.Analysis.AlphaMin = DefaultAlphaMin
		c.Analysis.AlphaMax = DefaultAlphaMax
	}
	if c.Analysis.AlphaStep == 0 {
		c.Analysis.AlphaStep = DefaultAlphaStep
	}
	if c.Analysis.ReynoldsMin == 0 {
		c.Analysis.ReynoldsMin = DefaultReynoldsMin
	}
	if c.Analysis.ReynoldsMax == 0 {
		c.Analysis.ReynoldsMax = DefaultReynoldsMax
	}
	if c.Analysis.ReynoldsPoints == 0 {
		c.Analysis.ReynoldsPoints = DefaultReynoldsPoints
	}
	if c.Analysis.OperAlphaMin == 0 && c.Analysis.OperAlphaMax == 0 {
		c.Analysis.OperAlphaMin = DefaultOperAlphaMin
		c.Analysis.OperAlphaMax = DefaultOperAlphaMax
	}
	if c.Analysis.ModelSize == "" {
		c.Analysis.ModelSize = DefaultModelSize
	}
	if c.Analysis.SpeedOfSound == 0 {
		c.Analysis.SpeedOfSound = DefaultSpeedOfSound
	}

	if c.Scoring.Application == "" {
		c.Scoring.Application = DefaultApplication
	}
	if c.Scoring.TopN == 0 {
		c.Scoring.TopN = DefaultTopN
	}

	if c.Design.MTOWKgs == 0 {
		c.Design.MTOWKgs = DefaultMTOWKgs
	}
	if c.Design.MaxWingspan == 0 {
		c.Design.MaxWingspan = DefaultMaxWingspan
	}
	if c.Design.Velocity == 0 {
		c.Design.Velocity = DefaultVelocity
	}
	if len(c.Design.AspectRatios) == 0 {
		c.Design.AspectRatios = []float64{3, 4, 5, 6, 7}
	}

	if c.Output.DataDirectory == "" {
		c.Output.DataDirectory = "data"
	}
	if c.Output.OutputDirectory == "" {
		c.Output.OutputDirectory = defaultOutputDirectory
	}
}

// Validate fails fast on inputs no pipeline stage can repair.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Analysis.AlphaMax < c.Analysis.AlphaMin {
		return fmt.Errorf("analysis: alpha range is inverted: [%v, %v]", c.Analysis.AlphaMin, c.Analysis.AlphaMax)
	}
	if c.Analysis.AlphaStep <= 0 {
		return fmt.Errorf("analysis: alpha step must be positive: %v", c.Analysis.AlphaStep)
	}
	if c.Analysis.ReynoldsMin <= 0 || c.Analysis.ReynoldsMax < c.Analysis.ReynoldsMin {
		return fmt.Errorf("analysis: invalid Reynolds range: [%v, %v]", c.Analysis.ReynoldsMin, c.Analysis.ReynoldsMax)
	}
	if c.Analysis.ReynoldsPoints <= 0 {
		return fmt.Errorf("analysis: Reynolds points must be positive: %d", c.Analysis.ReynoldsPoints)
	}
	if c.Analysis.OperAlphaMax < c.Analysis.OperAlphaMin {
		return fmt.Errorf("analysis: operating band is inverted: [%v, %v]", c.Analysis.OperAlphaMin, c.Analysis.OperAlphaMax)
	}
	if c.Analysis.SpeedOfSound <= 0 {
		return fmt.Errorf("analysis: speed of sound must be positive: %v", c.Analysis.SpeedOfSound)
	}

	if c.Design.MTOWKgs <= 0 {
		return fmt.Errorf("design: takeoff weight must be positive: %v", c.Design.MTOWKgs)
	}
	if c.Design.MaxWingspan <= 0 {
		return fmt.Errorf("design: maximum wingspan must be positive: %v", c.Design.MaxWingspan)
	}
	if c.Design.Velocity <= 0 {
		return fmt.Errorf("design: velocity must be positive: %v", c.Design.Velocity)
	}

	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Settings.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("settings: unknown log level %q", c.Settings.LogLevel)
}
