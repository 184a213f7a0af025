// Package config turns viper settings into an explicit Config value.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lepinkainen/bookledger/internal/tablestore"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultUserAgent = "open-library-pipeline/1.0 (contact: you@example.com)"
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 24 * time.Hour
)

// Config is the resolved configuration for one run.
type Config struct {
	OutputDir        string
	AuthorsFile      string
	BooksFile        string
	BookSubjectsFile string

	OpenLibrary OpenLibrary
	Cache       Cache
	Datasette   Datasette
}

type OpenLibrary struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// RateLimit is in requests per second; 0 disables limiting.
	RateLimit float64
}

type Cache struct {
	Enabled bool
	DBFile  string
	TTL     time.Duration
}

type Datasette struct {
	Enabled bool
	DBFile  string
	URL     string
	Token   string
}

// SetDefaults registers default values for every key Load reads.
func SetDefaults() {
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.authors", "authors.csv")
	viper.SetDefault("output.books", "books.csv")
	viper.SetDefault("output.booksubjects", "book_subjects.csv")

	viper.SetDefault("openlibrary.baseurl", DefaultBaseURL)
	viper.SetDefault("openlibrary.timeout", DefaultTimeout.String())
	viper.SetDefault("openlibrary.useragent", DefaultUserAgent)
	viper.SetDefault("openlibrary.ratelimit", 1.0)

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", DefaultCacheTTL.String())

	viper.SetDefault("datasette.enabled", false)
	viper.SetDefault("datasette.dbfile", "./bookledger.db")
	viper.SetDefault("datasette.url", "")
	viper.SetDefault("datasette.token", "")
}

// Load reads the current viper state. SetDefaults must have been called.
func Load() (Config, error) {
	cfg := Config{
		OutputDir:        viper.GetString("output.dir"),
		AuthorsFile:      viper.GetString("output.authors"),
		BooksFile:        viper.GetString("output.books"),
		BookSubjectsFile: viper.GetString("output.booksubjects"),
		OpenLibrary: OpenLibrary{
			BaseURL:   strings.TrimRight(viper.GetString("openlibrary.baseurl"), "/"),
			Timeout:   viper.GetDuration("openlibrary.timeout"),
			UserAgent: viper.GetString("openlibrary.useragent"),
			RateLimit: viper.GetFloat64("openlibrary.ratelimit"),
		},
		Cache: Cache{
			Enabled: viper.GetBool("cache.enabled"),
			DBFile:  viper.GetString("cache.dbfile"),
			TTL:     viper.GetDuration("cache.ttl"),
		},
		Datasette: Datasette{
			Enabled: viper.GetBool("datasette.enabled"),
			DBFile:  viper.GetString("datasette.dbfile"),
			URL:     viper.GetString("datasette.url"),
			Token:   viper.GetString("datasette.token"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.OpenLibrary.BaseURL == "":
		return fmt.Errorf("openlibrary.baseurl must be set")
	case c.OpenLibrary.Timeout <= 0:
		return fmt.Errorf("openlibrary.timeout must be positive, got %s", c.OpenLibrary.Timeout)
	case c.OpenLibrary.RateLimit < 0:
		return fmt.Errorf("openlibrary.ratelimit must not be negative, got %g", c.OpenLibrary.RateLimit)
	case c.Cache.Enabled && c.Cache.TTL <= 0:
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	case c.AuthorsFile == "" || c.BooksFile == "" || c.BookSubjectsFile == "":
		return fmt.Errorf("output table file names must not be empty")
	}
	return nil
}

// TablePaths resolves the table files against OutputDir. Absolute file
// names are used as given.
func (c Config) TablePaths() tablestore.Paths {
	return tablestore.Paths{
		Authors:      c.resolve(c.AuthorsFile),
		Books:        c.resolve(c.BooksFile),
		BookSubjects: c.resolve(c.BookSubjectsFile),
	}
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
