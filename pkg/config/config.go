// Package config handles tunable analysis parameters for ui-inspector.
// The numeric thresholds were calibrated against a specific set of app
// layouts; treat them as starting points, not universal constants.
package config

import (
	"os"
	"path/filepath"

	"github.com/devicelab-dev/ui-inspector/pkg/core"
	"gopkg.in/yaml.v3"
)

// Config represents the analysis configuration (ui-inspector.yaml).
type Config struct {
	// Hierarchy building
	ContainmentTolerancePx int     `yaml:"containmentTolerancePx"` // Edge slack for geometric containment
	RelaxedTolerancePx     int     `yaml:"relaxedTolerancePx"`     // Retry slack when the tree degenerates
	AreaRatioCutoff        float64 `yaml:"areaRatioCutoff"`        // Reject near-duplicate rects as parent/child

	// Bottom-navigation heuristic for the hidden-element pass
	BottomNavTopRatio    float64 `yaml:"bottomNavTopRatio"`    // Candidate top edge below this screen fraction
	BottomNavHeightRatio float64 `yaml:"bottomNavHeightRatio"` // Candidate height below this screen fraction

	// Discovery
	MaxTraversalDepth int  `yaml:"maxTraversalDepth"` // Ancestor/descendant walk depth
	MaxPromotionHops  int  `yaml:"maxPromotionHops"`  // Levels searched for a clickable ancestor
	DescendantCap     int  `yaml:"descendantCap"`     // Max descendants returned
	SiblingCap        int  `yaml:"siblingCap"`        // Max siblings returned
	RecommendedCap    int  `yaml:"recommendedCap"`    // Max recommended matches
	TextFirst         bool `yaml:"textFirst"`         // List text-bearing results first

	// Quality scoring
	ActionWords          []string `yaml:"actionWords"`          // Localized action vocabulary
	MeaningfulIDPatterns []string `yaml:"meaningfulIdPatterns"` // Resource-id naming patterns
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ContainmentTolerancePx: 2,
		RelaxedTolerancePx:     5,
		AreaRatioCutoff:        0.95,
		BottomNavTopRatio:      0.8,
		BottomNavHeightRatio:   0.3,
		MaxTraversalDepth:      3,
		MaxPromotionHops:       3,
		DescendantCap:          20,
		SiblingCap:             15,
		RecommendedCap:         5,
		TextFirst:              true,
		ActionWords: []string{
			"确定", "取消", "提交", "保存", "删除", "确认", "登录", "注册",
			"发送", "搜索", "返回", "下一步", "完成", "同意", "关闭",
			"ok", "confirm", "cancel", "submit", "save", "delete", "login",
			"send", "search", "back", "next", "done", "agree", "close", "sign",
		},
		MeaningfulIDPatterns: []string{
			"btn", "button", "input", "edit", "search", "submit",
			"tab", "menu", "icon", "text", "title", "item", "nav",
		},
	}
}

// Load loads configuration from a file, filling unset fields with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir looks for ui-inspector.yaml or ui-inspector.yml in the
// directory, returning defaults when neither exists.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"ui-inspector.yaml", "ui-inspector.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// Validate checks ranges on the numeric thresholds.
func (c *Config) Validate() error {
	if c.ContainmentTolerancePx < 0 || c.RelaxedTolerancePx < 0 {
		return core.ErrInvalidConfig.WithMessage("tolerance must be non-negative")
	}
	if c.AreaRatioCutoff <= 0 || c.AreaRatioCutoff > 1 {
		return core.ErrInvalidConfig.WithMessage("areaRatioCutoff must be in (0,1]")
	}
	if c.MaxTraversalDepth < 1 {
		return core.ErrInvalidConfig.WithMessage("maxTraversalDepth must be at least 1")
	}
	if c.DescendantCap < 0 || c.SiblingCap < 0 || c.RecommendedCap < 0 {
		return core.ErrInvalidConfig.WithMessage("result caps must be non-negative")
	}
	return nil
}
