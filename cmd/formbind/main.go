// Command formbind is a local inspection harness for page binding
// definitions. It simulates a page session against in-memory host
// collaborators: load a definition, seed records, fire the ready events,
// replay user edits, and print what the UI would show.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/formbind/formbind/internal/binding"
	"github.com/formbind/formbind/internal/config"
	"github.com/formbind/formbind/internal/domain"
	"github.com/formbind/formbind/internal/host"
	"github.com/formbind/formbind/internal/host/hosttest"
)

var (
	pageFile    string
	recordsFile string
	edits       []string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "formbind",
	Short: "Field binding toolkit for page forms",
	Long: "formbind binds formatted numeric record-source fields to the text\n" +
		"inputs of a page. This tool simulates a page session from a YAML\n" +
		"binding definition without a host runtime.",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a page session against in-memory collaborators",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&pageFile, "page", "", "page binding definition YAML (required)")
	simulateCmd.Flags().StringVar(&recordsFile, "records", "", "seed records YAML (source key -> field -> value)")
	simulateCmd.Flags().StringArrayVar(&edits, "edit", nil, "user edit to replay, source.field=raw (repeatable)")
	simulateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log session activity to stderr")
	_ = simulateCmd.MarkFlagRequired("page")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	def, err := config.NewPageParser().LoadFromFile(pageFile)
	if err != nil {
		return err
	}
	structure, err := def.Structure()
	if err != nil {
		return err
	}

	records := map[string]host.Record{}
	if recordsFile != "" {
		data, err := os.ReadFile(recordsFile)
		if err != nil {
			return fmt.Errorf("failed to read records file %s: %w", recordsFile, err)
		}
		if err := yaml.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to parse records YAML: %w", err)
		}
	}

	page := hosttest.NewFakePage()
	for _, ds := range structure {
		page.AddRecordSource(ds.Source, records[ds.Source])
		for _, f := range ds.Fields {
			page.AddElement(f.ElementID)
		}
	}

	opts := []binding.Option{}
	if verbose {
		opts = append(opts, binding.WithLogger(stderrLogger{}))
	}
	session := binding.New(page, opts...)
	if err := session.Init(structure); err != nil {
		return err
	}

	for _, ds := range structure {
		page.GetRecordSource(ds.Source).FireReady()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "page %q loaded\n", def.Page)
	printElements(out, page, structure)

	for _, edit := range edits {
		ref, raw, ok := strings.Cut(edit, "=")
		if !ok {
			return fmt.Errorf("malformed --edit %q, want source.field=raw", edit)
		}
		sourceKey, fieldKey, ok := strings.Cut(ref, ".")
		if !ok {
			return fmt.Errorf("malformed --edit %q, want source.field=raw", edit)
		}
		field, err := session.Field(sourceKey, fieldKey)
		if err != nil {
			return err
		}
		page.EditElement(field.ElementID, raw)
		stored := page.GetRecordSource(sourceKey).CurrentItem()[fieldKey]
		fmt.Fprintf(out, "\nedit %s.%s = %q (stored %v)\n", sourceKey, fieldKey, raw, stored)
		printElements(out, page, structure)
	}
	return nil
}

func printElements(out io.Writer, page *hosttest.FakePage, structure domain.Structure) {
	for _, ds := range structure {
		for _, f := range ds.Fields {
			element := page.GetElement(f.ElementID)
			fmt.Fprintf(out, "  %s.%s [%s] %s = %q\n",
				ds.Source, f.RecordKey, f.Format.Kind, f.ElementID, element.Value())
		}
	}
}

type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...any) { log.Printf("DEBUG "+format, args...) }
func (stderrLogger) Infof(format string, args ...any)  { log.Printf("INFO  "+format, args...) }
func (stderrLogger) Warnf(format string, args ...any)  { log.Printf("WARN  "+format, args...) }
func (stderrLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
