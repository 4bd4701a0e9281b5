// Package cmd implements the depot CLI, a small authoring tool for
// registry bootstrap files.
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zjrosen/depot"
	"github.com/zjrosen/depot/internal/log"
	"github.com/zjrosen/depot/loader"
)

var (
	version  = "dev"
	debugLog string
)

var rootCmd = &cobra.Command{
	Use:   "depot <bootstrap-file>",
	Short: "Inspect and validate depot registry bootstrap files",
	Long: `Loads a registry bootstrap file (YAML, JSON, or TOML), validates it by
building the registry it describes, and prints every key with its kind,
lock mask, and value.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runInspect,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "",
		"write debug logs to the given file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if debugLog != "" {
		cleanup, err := log.Init(debugLog)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	path := args[0]
	doc, err := loader.ParseFile(path)
	if err != nil {
		return err
	}

	// Building proves the document is valid: duplicate keys, unknown
	// lock names, and nested arrays all surface here.
	reg, err := loader.Build(doc)
	if err != nil {
		return fmt.Errorf("invalid bootstrap file: %w", err)
	}
	log.Info(log.CatCLI, "Bootstrap file validated", "path", path, "keys", len(reg.Keys()))

	out := cmd.OutOrStdout()
	for _, entry := range doc.Registry {
		mask, err := depot.ParseLock(entry.Lock)
		if err != nil {
			return err
		}
		v := reg.Get(entry.Key, depot.Null())
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", entry.Key, v.Kind(), mask, renderValue(v))
	}
	if doc.Freeze {
		fmt.Fprintln(out, "registry is frozen after bootstrap")
	}
	return nil
}

// renderValue formats a value for the listing; arrays render their
// entries in subkey order.
func renderValue(v depot.Value) string {
	if !v.IsArray() {
		return fmt.Sprintf("%v", v.Interface())
	}
	subkeys := v.Subkeys()
	sort.Strings(subkeys)
	s := "{"
	for i, sk := range subkeys {
		if i > 0 {
			s += ", "
		}
		item, _ := v.At(sk)
		s += fmt.Sprintf("%s: %v", sk, item.Interface())
	}
	return s + "}"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
