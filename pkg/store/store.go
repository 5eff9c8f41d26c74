package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/observability"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

// ErrNotFound is returned by Load and Delete when no document has the name.
var ErrNotFound = ferrors.New(ferrors.ErrCodeDocumentNotFound, "document not found")

// Backend names accepted by [Options.Backend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Store saves and loads documents by name.
type Store interface {
	Save(ctx context.Context, name string, doc persist.Document) error
	Load(ctx context.Context, name string) (persist.Document, error)
	Delete(ctx context.Context, name string) error
	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	Path            string `toml:"path"`
	RedisAddr       string `toml:"redis_addr"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultOptions returns file-backed options using the default directory.
func DefaultOptions() Options {
	return Options{
		Backend:         BackendFile,
		RedisAddr:       "localhost:6379",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "flowdeck",
		MongoCollection: "documents",
	}
}

// Validate reports an unknown backend or a backend missing its address.
func (o Options) Validate() error {
	if err := ferrors.ValidateFormat(o.Backend, Backends...); err != nil {
		return fmt.Errorf("store backend: %w", err)
	}
	switch o.Backend {
	case BackendRedis:
		if o.RedisAddr == "" {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "redis backend requires redis_addr")
		}
		if o.RedisDB < 0 {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "redis_db must not be negative")
		}
	case BackendMongo:
		if o.MongoURI == "" {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "mongo backend requires mongo_uri")
		}
	}
	return nil
}

// Open creates the backend named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Backend == "" {
		opts.Backend = BackendFile
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(opts.Dir)
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, opts.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	logger.Debug("store opened", "backend", opts.Backend)
	return Instrument(s, opts.Backend), nil
}

// Instrument wraps s so saves, loads and deletes fire the store hooks.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Save(ctx context.Context, name string, doc persist.Document) error {
	start := time.Now()
	err := s.Store.Save(ctx, name, doc)
	observability.Store().OnSave(ctx, s.backend, name, len(doc.Records), time.Since(start), err)
	return err
}

func (s *instrumented) Load(ctx context.Context, name string) (persist.Document, error) {
	start := time.Now()
	doc, err := s.Store.Load(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(start), err)
	return doc, err
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || ferrors.Is(err, ferrors.ErrCodeDocumentNotFound)
}

func notFound(name string) error {
	return fmt.Errorf("%q: %w", name, ErrNotFound)
}

func checkName(name string) error {
	return ferrors.ValidateDocumentName(name)
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	return names
}

// DefaultDir returns ~/.config/flowdeck/documents, honoring XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flowdeck", "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "flowdeck", "documents"), nil
}
