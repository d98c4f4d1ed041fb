package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/internal/audit"
	"github.com/goliatone/go-overlay/internal/di"
)

type editorAuth struct{}

func (editorAuth) CurrentUserID(context.Context) (string, error) {
	return "editor-1", nil
}

func (editorAuth) HasPermission(context.Context, string) (bool, error) {
	return true, nil
}

type consoleNotifier struct{}

func (consoleNotifier) Success(_ context.Context, msg string, args ...any) {
	fmt.Printf("[ok] "+msg+"\n", args...)
}

func (consoleNotifier) Failure(_ context.Context, msg string, args ...any) {
	fmt.Printf("[!!] "+msg+"\n", args...)
}

func main() {
	ctx := context.Background()

	db, err := openDatabase(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	recorder := audit.NewMemoryRecorder()

	cfg := overlay.DefaultConfig()
	cfg.Logging.Format = "console"

	module, err := overlay.New(cfg,
		di.WithBunDB(db),
		di.WithAuthProvider(editorAuth{}),
		di.WithNotifier(consoleNotifier{}),
		di.WithAuditRecorder(recorder),
	)
	if err != nil {
		log.Fatalf("overlay: %v", err)
	}

	sess := module.Session()
	if err := sess.Navigate(ctx, "/about-us"); err != nil {
		log.Fatalf("navigate: %v", err)
	}

	footer, err := module.Nodes().Node(overlay.NodeConfig{
		ElementID: "footer-about",
		Default:   "About Us",
		Tag:       "p",
	})
	if err != nil {
		log.Fatalf("node: %v", err)
	}

	fmt.Printf("before edit: %+v\n", footer.Render(ctx))

	sess.ToggleEditing(ctx)
	footer.BeginEdit(ctx)
	footer.Input(ctx, "About Our Team")
	if err := footer.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Printf("after edit:  %+v\n", footer.Render(ctx))

	if err := sess.SetLocale(ctx, "ar"); err != nil {
		log.Fatalf("set locale: %v", err)
	}
	fmt.Printf("arabic view: %+v\n", footer.Render(ctx))

	for _, event := range recorder.Events() {
		fmt.Printf("audit: %s %s %v\n", event.Action, event.EntityID, event.Metadata)
	}
}

func openDatabase(ctx context.Context) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file:overlay_example?mode=memory&cache=shared&_fk=1")
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	migrations, err := fs.Glob(overlay.GetMigrationsFS(), "data/sql/migrations/*.sql")
	if err != nil {
		return nil, err
	}
	for _, name := range migrations {
		script, err := fs.ReadFile(overlay.GetMigrationsFS(), name)
		if err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return nil, err
		}
	}
	return db, nil
}
