package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zeroverload/SmartLib/internal/util"
)

var Opts *Options

// GetConfig resets Opts to the defaults and resolves the data directory.
func GetConfig() (*Options, error) {
	GetDefaultOptions()
	if err := prepare(); err != nil {
		return nil, err
	}
	return Opts, nil
}

// Load reads the defaults, overlays file when it is not empty and resolves the
// data directory. An unchanged default DSN follows the data directory.
func Load(file string) (*Options, error) {
	GetDefaultOptions()
	if file != "" {
		if _, err := ParseFile(file); err != nil {
			return nil, err
		}
	}
	if err := prepare(); err != nil {
		return nil, err
	}
	return Opts, nil
}

func prepare() error {
	if Opts.DSN == MemoryDSN || util.HasPrefixes(Opts.DSN, "postgres://", "postgresql://") {
		return nil
	}
	dataDir, err := checkDataDir(Opts.Data)
	if err != nil {
		fmt.Println("Error checking data directory: ", err)
		return err
	}
	if Opts.DSN == defaultDSN || Opts.DSN == "" {
		Opts.DSN = filepath.Join(dataDir, "smartlib.db")
	}
	Opts.Data = dataDir
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	err := os.MkdirAll(dataDir, 0755)
	if err == nil {
		return dataDir, nil
	}
	if !errors.Is(err, os.ErrPermission) || dataDir != defaultData {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}

	// Permission denied on the default folder, fall back to the home directory.
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}
	homeData := filepath.Join(currentUser.HomeDir, ".smartlib")
	if err := os.MkdirAll(homeData, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create default data folder %s", homeData)
	}
	fmt.Println("Data folder created in user's home directory: ", homeData)
	return homeData, nil
}

func ParseFile(file string) (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}
	// Check if file exists
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", file)
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return Opts, nil
}
