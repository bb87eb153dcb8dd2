package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/tabula/pkg/config"
)

// ExampleNewConfig shows the defaults.
func ExampleNewConfig() {
	cfg := config.NewConfig()

	fmt.Printf("Separator: %q\n", cfg.Loader.DefaultSeparator)
	fmt.Printf("CSV suffixes: %v\n", cfg.Loader.CSVSuffixes)
	fmt.Printf("Export: %s\n", cfg.Export.Format)

	// Output:
	// Separator: ","
	// CSV suffixes: [.csv]
	// Export: json
}

// ExampleConfig_Validate shows how to validate a configuration
// before using it.
func ExampleConfig_Validate() {
	cfg := config.NewConfig()
	cfg.Loader.DefaultSeparator = "\t"
	cfg.Export.Format = config.FormatParquet
	cfg.Export.Compression = "zstd"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	// Output:
	// Configuration is valid!
}

// ExampleLoadConfig demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoadConfig() {
	dir, _ := os.MkdirTemp("", "tabula-config")
	defer os.RemoveAll(dir)

	os.Setenv("TABULA_EXAMPLE_SEP", ";")
	defer os.Unsetenv("TABULA_EXAMPLE_SEP")

	path := filepath.Join(dir, "tabula.yaml")
	_ = os.WriteFile(path, []byte("loader:\n  default_separator: \"${TABULA_EXAMPLE_SEP}\"\n"), 0o600)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Separator: %q\n", cfg.Loader.DefaultSeparator)
	fmt.Printf("Decompress: %v\n", cfg.Loader.Decompress)

	// Output:
	// Separator: ";"
	// Decompress: true
}
