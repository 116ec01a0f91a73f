package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MemoryPath opens a private in-memory SQLite database.
	MemoryPath = ":memory:"
)

// Options selects and configures the database behind a SQLStore.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN    string
	Logger logger.Interface
}

// SQLStore implements Store on top of gorm.
type SQLStore struct {
	db   *gorm.DB
	lock *flock.Flock
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps an already opened gorm handle.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Open connects to the configured database. For a SQLite file it also takes
// an exclusive lock next to the file so only one process owns it.
func Open(opts Options) (*SQLStore, error) {
	cfg := &gorm.Config{Logger: opts.Logger}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	switch opts.Driver {
	case "", DriverSQLite:
		return openSQLite(opts.Path, cfg)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres driver needs a dsn")
		}
		db, err := gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        opts.DSN,
		}), cfg)
		if err != nil {
			return nil, wrap("open", "", err)
		}
		return NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openSQLite(path string, cfg *gorm.Config) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite driver needs a database path")
	}

	var lock *flock.Flock
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, wrap("open", "", err)
		}
		lock = flock.New(path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, wrap("lock", "", err)
		}
		if !locked {
			return nil, ErrLocked
		}
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		unlock(lock)
		return nil, wrap("open", "", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	sqlDB, err := db.DB()
	if err != nil {
		unlock(lock)
		return nil, wrap("open", "", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLStore{db: db, lock: lock}, nil
}

func unlock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

func (s *SQLStore) Initialize(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&taskRecord{}, &commentRecord{}, &dependencyRecord{})
	return wrap("initialize", "", err)
}

func (s *SQLStore) LoadAll(ctx context.Context) ([]*model.Task, error) {
	db := s.db.WithContext(ctx)

	var rows []taskRecord
	if err := db.Order("seq").Find(&rows).Error; err != nil {
		return nil, wrap("load tasks", "", err)
	}
	tasks := make([]*model.Task, 0, len(rows))
	byID := make(map[string]*model.Task, len(rows))
	for _, r := range rows {
		t := fromRecord(r)
		tasks = append(tasks, t)
		byID[t.ID] = t
	}

	var comments []commentRecord
	if err := db.Order("id").Find(&comments).Error; err != nil {
		return nil, wrap("load comments", "", err)
	}
	for _, c := range comments {
		if t, ok := byID[c.TaskID]; ok {
			t.Comments = append(t.Comments, model.Comment{Timestamp: c.Timestamp, Text: c.Comment})
		}
	}

	var edges []dependencyRecord
	if err := db.Order("task_id").Order("position").Find(&edges).Error; err != nil {
		return nil, wrap("load dependencies", "", err)
	}
	for _, e := range edges {
		t, ok := byID[e.TaskID]
		if !ok {
			continue
		}
		if _, ok := byID[e.DependencyID]; !ok {
			continue
		}
		t.Dependencies = append(t.Dependencies, e.DependencyID)
	}

	return tasks, nil
}

func (s *SQLStore) UpsertTask(ctx context.Context, t *model.Task) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing taskRecord
		err := tx.Select("id").Where("id = ?", t.ID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var maxSeq int64
			if err := tx.Model(&taskRecord{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
				return err
			}
			rec := taskRecord{
				ID:          t.ID,
				Seq:         maxSeq + 1,
				Name:        t.Name,
				DueDate:     t.DueDate,
				TicketRef:   t.TicketRef,
				Description: t.Description,
				Status:      t.Status,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&taskRecord{}).Where("id = ?", t.ID).Updates(scalarColumns(t)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("task_id = ?", t.ID).Delete(&dependencyRecord{}).Error; err != nil {
			return err
		}
		if edges := edgeRecords(t); len(edges) > 0 {
			if err := tx.Create(&edges).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("upsert task", t.ID, err)
}

func (s *SQLStore) AppendComment(ctx context.Context, taskID string, c model.Comment) error {
	rec := commentRecord{TaskID: taskID, Comment: c.Text, Timestamp: c.Timestamp}
	return wrap("append comment", taskID, s.db.WithContext(ctx).Create(&rec).Error)
}

func (s *SQLStore) DeleteTask(ctx context.Context, taskID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ? OR dependency_id = ?", taskID, taskID).Delete(&dependencyRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", taskID).Delete(&taskRecord{}).Error
	})
	return wrap("delete task", taskID, err)
}

// Close releases the database handle and the instance lock.
func (s *SQLStore) Close() error {
	defer unlock(s.lock)
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("close", "", err)
	}
	return wrap("close", "", sqlDB.Close())
}
