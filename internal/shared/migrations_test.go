package shared

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations(migrationFiles, "sql")
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) < 2 {
			t.Fatalf("expected at least two migrations, got %d", len(migrations))
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_tables" {
			t.Errorf("expected first migration name create_tables, got %q", migrations[0].Name)
		}
	})

	t.Run("loadMigrations rejects incomplete pairs", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0000_only_up.sql": {Data: []byte("CREATE TABLE a (id INTEGER)")},
		}
		if _, err := loadMigrations(fsys, "sql"); err == nil {
			t.Error("expected error for migration without down script")
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		stmts := splitStatements("-- heading\nCREATE TABLE a (id INTEGER); -- trailing\n\nCREATE TABLE b (id INTEGER);\n")
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[0] != "CREATE TABLE a (id INTEGER)" {
			t.Errorf("unexpected first statement %q", stmts[0])
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		for _, table := range []string{"movies", "reviews", "session_values"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(ctx, db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var newCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&newCount); err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if newCount != count-1 {
			t.Errorf("expected migration count %d after rollback, got %d", count-1, newCount)
		}

		if _, err := db.Exec("SELECT 1 FROM session_values LIMIT 1"); err == nil {
			t.Error("session_values should be dropped by rollback")
		}
	})

	t.Run("Rollback with nothing applied", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := createMigrationsTable(ctx, db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}
		if err := RollbackMigration(ctx, db); err == nil {
			t.Error("expected error when nothing to rollback")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations(migrationFiles, "sql")
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenDatabase on disk", func(t *testing.T) {
		path := t.TempDir() + "/nested/moviehub.db"
		db, err := OpenDatabase(ctx, DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("SELECT 1 FROM movies LIMIT 1"); err != nil {
			t.Errorf("movies table should exist: %v", err)
		}
	})
}
