package config_test

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/config"
	"github.com/sagarc03/tomato/source"
)

func ExampleStore_Get() {
	dir, err := os.MkdirTemp("", "tomato-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	defaults := filepath.Join(dir, "defaults.toml")
	content := "[table]\nfoo = \"bar\"\n\n[table2]\narray = [1, 2, 3]\n"
	if err := os.WriteFile(defaults, []byte(content), 0o644); err != nil {
		log.Fatal(err)
	}

	store, err := config.New(
		config.Options{AppName: "tomato", DefaultsFile: defaults, UserFile: filepath.Join(dir, "user.toml")},
		config.WithEnvironment(source.MapEnvironment{}),
		config.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.Init(false); err != nil {
		log.Fatal(err)
	}

	foo, _ := store.Get("table.foo")
	second, _ := store.Get("table2", "array", 1)
	missing, _ := store.GetOr(tomato.Scalar("none"), "table.missing")
	fmt.Println(foo, second, missing)
	// Output: bar 2 none
}

func ExampleWithContext() {
	store, err := config.New(config.DefaultOptions("tomato"))
	if err != nil {
		log.Fatal(err)
	}

	// Store the handle in context
	ctx := config.WithContext(context.Background(), store)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(retrieved.Options().AppName)
	// Output: tomato
}
