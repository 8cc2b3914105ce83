package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"toloka-kit/domain/model"
	"toloka-kit/internal"
	"toloka-kit/repositories"
	"toloka-kit/resources"
	"toloka-kit/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	kind := flags.String("kind", "training", "Resource kind: "+strings.Join(resources.KindNames(), ", "))
	format := flags.String("format", config.OutputFormat, "Output format: table, json or yaml")
	store := flags.Bool("store", false, "Store decoded resources into badger")
	if err := flags.Parse(args); err != nil {
		return err
	}
	outputFormat, err := internal.ParseFormat(*format)
	if err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("no payload file given")
	}

	// 2. Database, only when resources are stored
	var repository repositories.IResourceRepository
	if *store {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repository = repositories.NewResourceRepository(db, log, config.LimitResources)
	}
	service := services.NewCatalogService(log, repository)

	// 3. Decode every payload
	color.Enable = config.Colours
	for _, path := range flags.Args() {
		payload, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		var resource model.Modeler
		if *store {
			resource, err = service.Ingest(*kind, payload)
		} else {
			resource, err = service.Parse(*kind, payload)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err = render(out, outputFormat, path, resource, service.Describe(resource)); err != nil {
			return err
		}
	}
	return nil
}

func render(out io.Writer, format internal.Format, path string, resource model.Modeler, rows []services.AttributeRow) error {
	switch format {
	case internal.FormatJSON:
		raw, err := resource.Model().MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", raw)
		return err
	case internal.FormatYAML:
		raw, err := yaml.Marshal(resource.Model())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "# %s\n%s", path, raw)
		return err
	}

	header := fmt.Sprintf("%s: %s", path, resource.Model().Schema().Name())
	if value, ok := resource.Model().UnresolvedVariant(); ok {
		header += fmt.Sprintf(" (no variant for %s)", value)
	}
	fmt.Fprintln(out, color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Attribute", "Type", "Value", "Flags"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, row := range rows {
		table.Append([]string{row.WireName, row.Type, row.Value, marks(row)})
	}
	table.Render()
	return nil
}

func marks(row services.AttributeRow) string {
	var labels []string
	if row.Required {
		labels = append(labels, "required")
	}
	if row.Readonly {
		labels = append(labels, color.FgYellow.Render("readonly"))
	}
	if row.Unknown {
		labels = append(labels, color.FgMagenta.Render("unknown"))
	}
	if row.Required && !row.Set {
		labels = append(labels, color.FgRed.Render("missing"))
	}
	return strings.Join(labels, " ")
}
