package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abelbrown/stackview/internal/engine"
)

// Config is everything stackview reads from disk or the environment.
type Config struct {
	Layout    LayoutConfig    `mapstructure:"layout"`
	Scroll    ScrollConfig    `mapstructure:"scroll"`
	Gesture   GestureConfig   `mapstructure:"gesture"`
	Dismiss   DismissConfig   `mapstructure:"dismiss"`
	Animation AnimationConfig `mapstructure:"animation"`
	Section   SectionConfig   `mapstructure:"section"`
	UI        UIConfig        `mapstructure:"ui"`
}

// LayoutConfig holds the stacking distances, in cells of the terminal
// host.
type LayoutConfig struct {
	PaddingBetween    float64 `mapstructure:"padding_between"`
	IncreasedPadding  float64 `mapstructure:"increased_padding"`
	ChildPadding      float64 `mapstructure:"child_padding"`
	BottomMargin      float64 `mapstructure:"bottom_margin"`
	SidePadding       float64 `mapstructure:"side_padding"`
	DarkShelfPadding  float64 `mapstructure:"dark_shelf_padding"`
	HeadsUpInset      float64 `mapstructure:"heads_up_inset"`
	StatusBarHeight   float64 `mapstructure:"status_bar_height"`
	IntrinsicPadding  float64 `mapstructure:"intrinsic_padding"`
	MaxDisplayedItems int     `mapstructure:"max_displayed_items"`
}

// ScrollConfig holds the scroll physics.
type ScrollConfig struct {
	OverflingDistance           float64 `mapstructure:"overfling_distance"`
	MinimumVelocity             float64 `mapstructure:"minimum_velocity"`
	MaximumVelocity             float64 `mapstructure:"maximum_velocity"`
	MinTopOverscrollToEscape    float64 `mapstructure:"min_top_overscroll_to_escape"`
	FlingDeceleration           float64 `mapstructure:"fling_deceleration"`
	OverflingDecelerationFactor float64 `mapstructure:"overfling_deceleration_factor"`
	SpringFrequency             float64 `mapstructure:"spring_frequency"`
	SpringDamping               float64 `mapstructure:"spring_damping"`
}

// GestureConfig holds the input thresholds.
type GestureConfig struct {
	TouchSlop       float64 `mapstructure:"touch_slop"`
	MaximumVelocity float64 `mapstructure:"maximum_velocity"`
}

// DismissConfig holds the clear-all stagger.
type DismissConfig struct {
	StartDelay time.Duration `mapstructure:"start_delay"`
	Step       time.Duration `mapstructure:"step"`
	Decrement  time.Duration `mapstructure:"decrement"`
	Floor      time.Duration `mapstructure:"floor"`
	Duration   time.Duration `mapstructure:"duration"`
}

// AnimationConfig holds the executor springs.
type AnimationConfig struct {
	FPS                 int           `mapstructure:"fps"`
	Damping             float64       `mapstructure:"damping"`
	Settle              float64       `mapstructure:"settle"`
	HeadsUpZ            float64       `mapstructure:"heads_up_z"`
	MoreCardAddDuration time.Duration `mapstructure:"more_card_add_duration"`
}

// SectionConfig holds the background bounds spring.
type SectionConfig struct {
	Frequency float64 `mapstructure:"frequency"`
	Damping   float64 `mapstructure:"damping"`
}

// UIConfig holds terminal host preferences.
type UIConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	LogLevel      string        `mapstructure:"log_level"`
	TraceFile     string        `mapstructure:"trace_file"`
	DemoItems     int           `mapstructure:"demo_items"`
}

// Dir returns the directory the config file is looked up in.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stackview")
}

// Load reads configuration from the TOML file and the environment. The file
// is $STACKVIEW_CONFIG when set, else config.toml in Dir. A missing file is
// not an error. Env var overrides use prefix STACKVIEW_, e.g.
// STACKVIEW_LAYOUT_PADDING_BETWEEN.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	if path := os.Getenv("STACKVIEW_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STACKVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := engine.DefaultConfig()

	v.SetDefault("layout.padding_between", d.PaddingBetween)
	v.SetDefault("layout.increased_padding", d.IncreasedPadding)
	v.SetDefault("layout.child_padding", d.Algo.ChildPadding)
	v.SetDefault("layout.bottom_margin", d.BottomMargin)
	v.SetDefault("layout.side_padding", d.SidePadding)
	v.SetDefault("layout.dark_shelf_padding", d.DarkShelfPadding)
	v.SetDefault("layout.heads_up_inset", d.HeadsUpInset)
	v.SetDefault("layout.status_bar_height", d.StatusBarHeight)
	v.SetDefault("layout.intrinsic_padding", d.IntrinsicPadding)
	v.SetDefault("layout.max_displayed_items", d.MaxDisplayedItems)

	v.SetDefault("scroll.overfling_distance", d.Scroll.OverflingDistance)
	v.SetDefault("scroll.minimum_velocity", d.Scroll.MinimumVelocity)
	v.SetDefault("scroll.maximum_velocity", d.Scroll.MaximumVelocity)
	v.SetDefault("scroll.min_top_overscroll_to_escape", d.Scroll.MinTopOverScrollToEscape)
	v.SetDefault("scroll.fling_deceleration", d.Scroll.FlingDeceleration)
	v.SetDefault("scroll.overfling_deceleration_factor", d.Scroll.OverflingDecelerationFactor)
	v.SetDefault("scroll.spring_frequency", d.Scroll.SpringFrequency)
	v.SetDefault("scroll.spring_damping", d.Scroll.SpringDamping)

	v.SetDefault("gesture.touch_slop", d.Gesture.TouchSlop)
	v.SetDefault("gesture.maximum_velocity", d.Gesture.MaximumVelocity)

	v.SetDefault("dismiss.start_delay", d.Stagger.Start)
	v.SetDefault("dismiss.step", d.Stagger.Step)
	v.SetDefault("dismiss.decrement", d.Stagger.Decrement)
	v.SetDefault("dismiss.floor", d.Stagger.Floor)
	v.SetDefault("dismiss.duration", d.Stagger.Duration)

	v.SetDefault("animation.fps", d.Executor.FPS)
	v.SetDefault("animation.damping", d.Executor.Damping)
	v.SetDefault("animation.settle", d.Executor.Settle)
	v.SetDefault("animation.heads_up_z", d.Algo.HeadsUpZ)
	v.SetDefault("animation.more_card_add_duration", d.MoreCardAddDuration)

	v.SetDefault("section.frequency", d.SectionFrequency)
	v.SetDefault("section.damping", d.SectionDamping)

	v.SetDefault("ui.frame_interval", time.Second/60)
	v.SetDefault("ui.log_level", "info")
	v.SetDefault("ui.trace_file", "")
	v.SetDefault("ui.demo_items", 24)
}

// Engine returns the layout configuration. Every spring and the scroll
// engine run at the animation frame rate.
func (c Config) Engine() engine.Config {
	e := engine.DefaultConfig()

	e.PaddingBetween = c.Layout.PaddingBetween
	e.IncreasedPadding = c.Layout.IncreasedPadding
	e.BottomMargin = c.Layout.BottomMargin
	e.SidePadding = c.Layout.SidePadding
	e.DarkShelfPadding = c.Layout.DarkShelfPadding
	e.HeadsUpInset = c.Layout.HeadsUpInset
	e.StatusBarHeight = c.Layout.StatusBarHeight
	e.IntrinsicPadding = c.Layout.IntrinsicPadding
	e.MaxDisplayedItems = c.Layout.MaxDisplayedItems
	e.Algo.ChildPadding = c.Layout.ChildPadding
	e.Algo.HeadsUpZ = c.Animation.HeadsUpZ

	e.Scroll.OverflingDistance = c.Scroll.OverflingDistance
	e.Scroll.MinimumVelocity = c.Scroll.MinimumVelocity
	e.Scroll.MaximumVelocity = c.Scroll.MaximumVelocity
	e.Scroll.MinTopOverScrollToEscape = c.Scroll.MinTopOverscrollToEscape
	e.Scroll.FlingDeceleration = c.Scroll.FlingDeceleration
	e.Scroll.OverflingDecelerationFactor = c.Scroll.OverflingDecelerationFactor
	e.Scroll.SpringFrequency = c.Scroll.SpringFrequency
	e.Scroll.SpringDamping = c.Scroll.SpringDamping

	e.Gesture.TouchSlop = c.Gesture.TouchSlop
	e.Gesture.MaximumVelocity = c.Gesture.MaximumVelocity

	e.Stagger.Start = c.Dismiss.StartDelay
	e.Stagger.Step = c.Dismiss.Step
	e.Stagger.Decrement = c.Dismiss.Decrement
	e.Stagger.Floor = c.Dismiss.Floor
	e.Stagger.Duration = c.Dismiss.Duration

	fps := c.Animation.FPS
	if fps <= 0 {
		fps = 60
	}
	e.Executor.FPS = fps
	e.Executor.Damping = c.Animation.Damping
	e.Executor.Settle = c.Animation.Settle
	e.Scroll.FPS = fps
	e.SectionFPS = fps
	e.MoreCardAddDuration = c.Animation.MoreCardAddDuration

	e.SectionFrequency = c.Section.Frequency
	e.SectionDamping = c.Section.Damping
	return e
}
