package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ARENA"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Screen ScreenConfig `mapstructure:"screen"`
	Render RenderConfig `mapstructure:"render"`
	Level  LevelConfig  `mapstructure:"level"`
	Player PlayerConfig `mapstructure:"player"`
	Net    NetConfig    `mapstructure:"net"`
	Log    LogConfig    `mapstructure:"log"`
}

type ScreenConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	TPS    int    `mapstructure:"tps"`
}

type RenderConfig struct {
	FovDegrees  float64 `mapstructure:"fov_degrees"`
	Rays        int     `mapstructure:"rays"`
	MaxDepth    float64 `mapstructure:"max_depth"`
	WallScale   float64 `mapstructure:"wall_scale"`
	Epsilon     float64 `mapstructure:"epsilon"`
	ShadeFactor float64 `mapstructure:"shade_factor"`
	SpriteScale float64 `mapstructure:"sprite_scale"`
	// AssetDir holds frame-NNN images; placeholders are drawn when empty.
	AssetDir string `mapstructure:"asset_dir"`
	Minimap  bool   `mapstructure:"minimap"`
}

// FovRadians is the horizontal field of view in radians.
func (r RenderConfig) FovRadians() float64 {
	return r.FovDegrees * math.Pi / 180
}

type LevelConfig struct {
	TileSize float64 `mapstructure:"tile_size"`
}

type PlayerConfig struct {
	Speed            float64 `mapstructure:"speed"`
	MouseSensitivity float64 `mapstructure:"mouse_sensitivity"`
	PitchFactor      float64 `mapstructure:"pitch_factor"`
	TurnStep         float64 `mapstructure:"turn_step"`
	PitchStep        float64 `mapstructure:"pitch_step"`
	SpawnX           float64 `mapstructure:"spawn_x"`
	SpawnY           float64 `mapstructure:"spawn_y"`
}

type NetConfig struct {
	// Address is tcp://host:port or ws://host:port/path.
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	// RateLimit is the sustained number of messages per second accepted per connection.
	RateLimit    float64 `mapstructure:"rate_limit"`
	RateBurst    int     `mapstructure:"rate_burst"`
	AdminAddress string  `mapstructure:"admin_address"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("screen.width", 800)
	v.SetDefault("screen.height", 600)
	v.SetDefault("screen.title", "arena")
	v.SetDefault("screen.tps", 60)

	v.SetDefault("render.fov_degrees", 60.0)
	v.SetDefault("render.rays", 120)
	v.SetDefault("render.max_depth", 800.0)
	v.SetDefault("render.wall_scale", 20000.0)
	v.SetDefault("render.epsilon", 0.0001)
	v.SetDefault("render.shade_factor", 0.0001)
	v.SetDefault("render.sprite_scale", 0.6)
	v.SetDefault("render.asset_dir", "")
	v.SetDefault("render.minimap", true)

	v.SetDefault("level.tile_size", 100.0)

	v.SetDefault("player.speed", 3.0)
	v.SetDefault("player.mouse_sensitivity", 0.003)
	v.SetDefault("player.pitch_factor", 200.0)
	v.SetDefault("player.turn_step", 0.05)
	v.SetDefault("player.pitch_step", 10.0)
	v.SetDefault("player.spawn_x", 400.0)
	v.SetDefault("player.spawn_y", 300.0)

	v.SetDefault("net.address", "tcp://127.0.0.1:5555")
	v.SetDefault("net.read_timeout", 250*time.Millisecond)
	v.SetDefault("net.write_timeout", time.Second)
	v.SetDefault("net.dial_timeout", 5*time.Second)
	v.SetDefault("net.rate_limit", 120.0)
	v.SetDefault("net.rate_burst", 30)
	v.SetDefault("net.admin_address", "127.0.0.1:8081")

	v.SetDefault("log.file", "arena.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
}

// Load reads defaults, then the optional config file at path, then ARENA_*
// environment variables (including those from a .env file in the working
// directory). Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Screen.TPS > 0, "tps %d", c.Screen.TPS)
	check(c.Render.FovDegrees > 0 && c.Render.FovDegrees < 180, "fov %v", c.Render.FovDegrees)
	check(c.Render.Rays > 0, "rays %d", c.Render.Rays)
	check(c.Render.MaxDepth > 1, "max depth %v", c.Render.MaxDepth)
	check(c.Render.Epsilon > 0, "epsilon %v", c.Render.Epsilon)
	check(c.Render.SpriteScale > 0, "sprite scale %v", c.Render.SpriteScale)
	check(c.Level.TileSize > 0, "tile size %v", c.Level.TileSize)
	check(c.Player.Speed >= 0, "speed %v", c.Player.Speed)
	check(c.Net.ReadTimeout > 0, "read timeout %v", c.Net.ReadTimeout)
	check(c.Net.RateLimit > 0 && c.Net.RateBurst > 0, "rate limit %v/%d", c.Net.RateLimit, c.Net.RateBurst)

	if _, _, err := c.Net.Endpoint(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Endpoint splits Address into its transport scheme and the host:port to
// dial or bind.
func (n NetConfig) Endpoint() (scheme, hostport string, err error) {
	u, err := url.Parse(n.Address)
	if err != nil {
		return "", "", fmt.Errorf("%w: address %q: %v", ErrInvalidConfig, n.Address, err)
	}

	switch u.Scheme {
	case "tcp", "ws":
	default:
		return "", "", fmt.Errorf("%w: address %q: unsupported scheme %q", ErrInvalidConfig, n.Address, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: address %q: missing host", ErrInvalidConfig, n.Address)
	}
	return u.Scheme, u.Host, nil
}

// WebSocketPath is the request path of a ws:// address, "/ws" when unset.
func (n NetConfig) WebSocketPath() string {
	u, err := url.Parse(n.Address)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/ws"
	}
	return u.Path
}
