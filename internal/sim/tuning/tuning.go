package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	FrameRateHz int `yaml:"frame_rate_hz"`
	BaseTickMs  int `yaml:"base_tick_ms"`

	GridSize       int `yaml:"grid_size"`
	GridIncrement  int `yaml:"grid_increment"`
	GridMax        int `yaml:"grid_max"`
	GrowthPermille int `yaml:"growth_permille"`

	StartLen int   `yaml:"start_len"`
	Seed     int64 `yaml:"seed"`

	TopScores int `yaml:"top_scores"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		FrameRateHz:     60,
		BaseTickMs:      150,
		GridSize:        12,
		GridIncrement:   4,
		GridMax:         24,
		GrowthPermille:  400,
		StartLen:        3,
		TopScores:       10,
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.FrameRateHz <= 0 {
		return fmt.Errorf("frame_rate_hz must be positive, got %d", t.FrameRateHz)
	}
	if t.BaseTickMs <= 0 {
		return fmt.Errorf("base_tick_ms must be positive, got %d", t.BaseTickMs)
	}
	if t.GridSize < 4 {
		return fmt.Errorf("grid_size must be at least 4, got %d", t.GridSize)
	}
	if t.GridIncrement <= 0 || t.GridIncrement%2 != 0 {
		return fmt.Errorf("grid_increment must be a positive even number, got %d", t.GridIncrement)
	}
	if t.GridMax < t.GridSize {
		return fmt.Errorf("grid_max %d below grid_size %d", t.GridMax, t.GridSize)
	}
	if t.GrowthPermille <= 0 || t.GrowthPermille > 1000 {
		return fmt.Errorf("growth_permille must be in (0,1000], got %d", t.GrowthPermille)
	}
	if t.StartLen < 3 {
		return fmt.Errorf("start_len must be at least 3, got %d", t.StartLen)
	}
	if t.StartLen > t.GridSize/2 {
		return fmt.Errorf("start_len %d does not fit half of grid_size %d", t.StartLen, t.GridSize)
	}
	if t.TopScores <= 0 {
		return fmt.Errorf("top_scores must be positive, got %d", t.TopScores)
	}
	return nil
}
