package env

import (
	"os"

	"github.com/adrg/xdg"
)

// BaseKeys are the well-known variables every resolution starts from.
var BaseKeys = []string{
	"USER",
	"HOME",
	"XDG_CONFIG_HOME",
	"XDG_DATA_HOME",
	"XDG_CACHE_HOME",
	"XDG_STATE_HOME",
}

// Base returns a root store seeded from the host: the current user, the home
// directory and the XDG base directories. Unset or empty values are left
// out.
func Base() *Store {
	vars := map[string]string{
		"USER":            os.Getenv("USER"),
		"HOME":            xdg.Home,
		"XDG_CONFIG_HOME": xdg.ConfigHome,
		"XDG_DATA_HOME":   xdg.DataHome,
		"XDG_CACHE_HOME":  xdg.CacheHome,
		"XDG_STATE_HOME":  xdg.StateHome,
	}
	for k, v := range vars {
		if v == "" {
			delete(vars, k)
		}
	}
	return FromMap(BaseKeys, vars)
}

// Host reads variables from the process environment.
type Host struct{}

// Get implements Lookuper.
func (Host) Get(key string) (string, bool) {
	return os.LookupEnv(key)
}
