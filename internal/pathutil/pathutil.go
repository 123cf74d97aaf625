// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	datesFileName  string
	sqliteFileName string
	pidFileName    string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	datesFilePath  string
	sqliteFilePath string
	pidFilePath    string
	logFilePath    string
	soundsDir      string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "serenity",
			configFileName: "config.yml",
			dbFileName:     "serenity.db",
			datesFileName:  "meditated_days.json",
			sqliteFileName: "serenity.sqlite",
			pidFileName:    "alarm.pid",
			logFileName:    "serenity.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

func DatesFilePath() string {
	return Must().datesFilePath
}

func SQLiteFilePath() string {
	return Must().sqliteFilePath
}

func PIDFilePath() string {
	return Must().pidFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// SoundsDir is where user supplied alert sounds are looked up.
func SoundsDir() string {
	return Must().soundsDir
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv("SERENITY_ENV"))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.dbFileName = fmt.Sprintf("serenity_%s.db", env)
		p.datesFileName = fmt.Sprintf("meditated_days_%s.json", env)
		p.sqliteFileName = fmt.Sprintf("serenity_%s.sqlite", env)
		p.pidFileName = fmt.Sprintf("alarm_%s.pid", env)
		p.logFileName = fmt.Sprintf("serenity_%s.log", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	// xdg.DataFile creates the parent directories of the returned path
	probe, err := xdg.DataFile(filepath.Join(p.configDir, p.dbFileName))
	if err != nil {
		return fmt.Errorf("resolving data path: %w", err)
	}

	dataDir := filepath.Dir(probe)

	p.dbFilePath = probe
	p.datesFilePath = filepath.Join(dataDir, p.datesFileName)
	p.sqliteFilePath = filepath.Join(dataDir, p.sqliteFileName)
	p.pidFilePath = filepath.Join(dataDir, p.pidFileName)
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)
	p.soundsDir = filepath.Join(dataDir, "sounds")

	return nil
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}
