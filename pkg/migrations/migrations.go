package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed sql
var embedded embed.FS

// MigrateStore runs the goose migrations against db. With an empty migrationFolder the
// migrations shipped with the binary are used, picked by the database dialect.
func MigrateStore(db *gorm.DB, migrationFolder string) error {
	goose.SetLogger(&logger{})

	dialect, subdir, err := dialectOf(db)
	if err != nil {
		return err
	}

	var fsys fs.FS
	if migrationFolder == "" {
		fsys, err = fs.Sub(embedded, "sql/"+subdir)
		if err != nil {
			return err
		}
	} else {
		fi, err := os.Stat(migrationFolder)
		if err != nil {
			return err
		}
		if !fi.Mode().IsDir() {
			return fmt.Errorf("failed to open migration folder: %s is not a folder", migrationFolder)
		}
		fsys = os.DirFS(migrationFolder)
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return goose.Up(sqlDB, ".")
}

func dialectOf(db *gorm.DB) (string, string, error) {
	switch name := db.Dialector.Name(); name {
	case "postgres":
		return "postgres", "postgres", nil
	case "sqlite":
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported database dialect %q", name)
	}
}

// logger adapts goose output to zap.
type logger struct{}

func (m *logger) Printf(format string, v ...interface{}) {
	zap.S().Named("migrations").Infof(format, v...)
}

func (m *logger) Fatalf(format string, v ...interface{}) {
	zap.S().Named("migrations").Fatalf(format, v...)
}
