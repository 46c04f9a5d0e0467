package config

import (
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "LEVELPORT"

type LogConfig struct {
	// debug, info, warn, error
	Level string `mapstructure:"level" default:"info"`
	// console or json
	Format string `mapstructure:"format" default:"console"`
}

// ClassConfig controls how one object class is imported.
type ClassConfig struct {
	// Any of: placements, models, textures, replace, preserve_ids.
	Import        []string `mapstructure:"import" default:"placements,models,textures"`
	ModelFloor    int      `mapstructure:"model_floor"`
	InstanceFloor int      `mapstructure:"instance_floor"`
}

type MergeConfig struct {
	// First id tried when a cross-class collision is repaired.
	SharedFloor int    `mapstructure:"shared_floor" default:"5000"`
	Encoding    string `mapstructure:"encoding" default:"Windows 1252"`
	// Copy source lights and shift imported light groups past them.
	Lights bool `mapstructure:"lights" default:"true"`
	// Path of the yaml run report, empty to skip.
	Report string `mapstructure:"report" default:""`
	// Namespace name to classes in priority order. Empty means
	// mesh: [static, placeable], terrain: [terrain], volume: [volume].
	Namespaces map[string][]string `mapstructure:"namespaces"`
}

type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Merge MergeConfig `mapstructure:"merge"`

	Static    ClassConfig `mapstructure:"static"`
	Placeable ClassConfig `mapstructure:"placeable"`
	Terrain   ClassConfig `mapstructure:"terrain"`
	Volume    ClassConfig `mapstructure:"volume"`
}

var classFloors = map[string][2]int{
	"static":    {1000, 0x1000},
	"placeable": {3000, 0x3000},
	"terrain":   {2000, 0x2000},
	"volume":    {4000, 0x4000},
}

// Load reads configuration from defaults, an optional yaml file, .env and
// LEVELPORT_* environment variables, in increasing priority.
func Load(file string) (*Config, error) {
	// .env is optional
	_ = godotenv.Overload(".env")

	v := viper.New()
	bindValues(v, Config{}, "")
	for class, floors := range classFloors {
		v.SetDefault(class+".model_floor", floors[0])
		v.SetDefault(class+".instance_floor", floors[1])
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Can't read config %q", file)
		}
	}

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "Can't decode config")
	}
	return &cfg, nil
}

// Class returns the import settings of a class by its name.
func (c *Config) Class(name string) (ClassConfig, bool) {
	switch name {
	case "static":
		return c.Static, true
	case "placeable":
		return c.Placeable, true
	case "terrain":
		return c.Terrain, true
	case "volume":
		return c.Volume, true
	}
	return ClassConfig{}, false
}

// bindValues registers every mapstructure key with its `default` tag so
// AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		if field.Type.Kind() == reflect.Map {
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
