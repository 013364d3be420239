package config

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ConfigWrapper struct {
	viper      *viper.Viper
	overridden map[string]interface{}
	ReadDone   bool
}

var once sync.Once
var Config *ConfigWrapper

func GetConfig() *ConfigWrapper {
	once.Do(func() {
		Config = &ConfigWrapper{}
		Config.Init()
		Config.Read()
	})
	return Config
}

func InitConfig() {
	GetConfig()
}

func Viper() *viper.Viper {
	return GetConfig().Viper()
}

func (c *ConfigWrapper) Viper() *viper.Viper {
	return c.viper
}

func (c *ConfigWrapper) Init() {
	c.overridden = make(map[string]interface{})
	c.viper = viper.New()

	c.Viper().SetEnvPrefix("STAFFROOM")
	c.Viper().BindEnv("Debug")
	c.Viper().SetDefault("Debug", false)
	c.Viper().BindEnv("SupabaseURL")
	c.Viper().BindEnv("ServiceRoleKey")
	c.Viper().BindEnv("Address")
	c.Viper().BindEnv("SentryDSN")

	c.Viper().SetDefault("Address", ":8080")
	c.Viper().SetDefault("CORSDomains", []string{"*"})

	c.Viper().SetConfigName("staffroom") // name of config file (without extension)

	c.Viper().AddConfigPath(".")
	c.Viper().AddConfigPath("..")
	c.Viper().AddConfigPath("../..")
	c.Viper().AddConfigPath("$HOME/.staffroom")
}

// Read loads the config file if one is present. Environment variables alone
// are enough to run the server, so a missing file is not an error.
func (c *ConfigWrapper) Read() {
	err := c.Viper().ReadInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			panic(err)
		}
	}
	c.ReadDone = true
}

// IsProduction is true if we are running in a production environment
func IsProduction() bool {
	return !Viper().GetBool("Debug")
}

// Override sets a setting key value to whatever you supply.
// Useful in tests:
//
//	config.Override("SupabaseURL", "http://localhost:9999")
//	defer config.RestoreOverridden()
//	...
func Override(key string, value interface{}) {
	c := GetConfig()
	c.overridden[key] = c.Viper().Get(key)
	c.Viper().Set(key, value)
}

// RestoreOverridden restores original config values overridden by Override
func RestoreOverridden() {
	c := GetConfig()
	v := c.Viper()
	if len(c.overridden) == 0 {
		return
	}
	for k, val := range c.overridden {
		v.Set(k, val)
	}
	c.overridden = make(map[string]interface{})
}

// Validate checks that the settings required for talking to the backend
// platform are present. The server refuses to start without them, since an
// empty service key would only surface later as an opaque 401 from the platform.
func Validate() error {
	var missing []string
	if GetSupabaseURL() == "" {
		missing = append(missing, "SupabaseURL")
	}
	if GetServiceRoleKey() == "" {
		missing = append(missing, "ServiceRoleKey")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Concrete config variables go here

// GetAddress determines address to bind http API server to
func GetAddress() string {
	return Viper().GetString("Address")
}

// GetSupabaseURL returns the base URL of the backend platform. Both the
// identity service and the data service live under it.
func GetSupabaseURL() string {
	return Viper().GetString("SupabaseURL")
}

// GetServiceRoleKey returns the administrative API key for the backend platform
func GetServiceRoleKey() string {
	return Viper().GetString("ServiceRoleKey")
}

// GetCORSDomains returns a list of domains allowed to make cross-origin requests
func GetCORSDomains() []string {
	return Viper().GetStringSlice("CORSDomains")
}

// GetSentryDSN returns sentry.io service DSN
func GetSentryDSN() string {
	return Viper().GetString("SentryDSN")
}
