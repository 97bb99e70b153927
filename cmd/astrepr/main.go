// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/mdhender/astrepr"
	"github.com/mdhender/astrepr/config"
	"github.com/mdhender/astrepr/convert"
	"github.com/mdhender/astrepr/inputs"
	"github.com/mdhender/astrepr/pipelines/stages"
	"github.com/mdhender/astrepr/renderer"
	store "github.com/mdhender/astrepr/stores/sqlite"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = cmdConvert(cfg)
	cmdRoot.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
		logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
		logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
		logFlags := 0
		if logWithShortFileName {
			logFlags |= log.Lshortfile
		}
		if logWithTimestamp {
			logFlags |= log.Ltime
		}
		if logWithDefaultFlags || logFlags == 0 {
			logFlags = log.LstdFlags
		}
		log.SetFlags(logFlags)

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}

		if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
			fmt.Printf("astrepr: version %q\n", astrepr.Version().Core())
		}

		return nil
	}
	cmdRoot.AddCommand(cmdTokens())
	cmdRoot.AddCommand(cmdStats(cfg))
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	// cobra is silenced so each failure is reported once, with its code
	if err := cmdRoot.Execute(); err != nil {
		if code := stages.ErrorCode(err); code != convert.ErrCodeUnknown {
			log.Printf("astrepr: %s: %v\n", code, err)
		} else {
			log.Printf("astrepr: %v\n", err)
		}
		os.Exit(1)
	}
}

// cmdConvert is the root command. It converts one dump and writes the
// generated source to stdout or to the output file.
func cmdConvert(cfg *config.Config) *cobra.Command {
	noComments := cfg.NoComments
	sanitizeIdentifiers := cfg.SanitizeIdentifiers
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&noComments, "no-comments", noComments, "omit position comments")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "write generated source to file")
		cmd.Flags().BoolVar(&sanitizeIdentifiers, "sanitize-identifiers", sanitizeIdentifiers, "rewrite identifiers that are not valid source")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "astrepr [ast-repr-file]",
		Short: "convert an AST repr dump to source text",
		Long: `Convert a compiler AST repr dump back into readable source text.
When no file is named, ` + cfg.Input + ` is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				verbose = false
			}

			input := cfg.Input
			if len(args) == 1 {
				input = args[0]
			}

			c, err := convert.New(
				convert.WithCacheSize(0),
				convert.WithRenderer(
					renderer.WithPositionComments(!noComments),
					renderer.WithSanitizeIdentifiers(sanitizeIdentifiers),
				),
			)
			if err != nil {
				return err
			}
			if ok, err := c.Exists(input); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("%s: file not found", input)
			}
			// past this point, errors are about the input, not the usage
			cmd.SilenceUsage = true

			res, err := c.ConvertFile(cmd.Context(), input, outputFile)
			if err != nil {
				return err
			}
			if verbose {
				for _, diag := range res.Diagnostics {
					astrepr.PrintDiagnostic(os.Stderr, diag, input)
				}
				log.Printf("astrepr: %s: %d nodes, %d placeholders, %d diagnostics\n", input, res.Nodes(), res.Placeholders(), len(res.Diagnostics))
			}
			if outputFile == "" {
				fmt.Print(res.Output)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdTokens() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "tokens <ast-repr-file>",
		Short:        "print the classified lines of a dump",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			lexer := astrepr.NewLexer(cmd.Context(), args[0], data, slog.Default())
			for tok := lexer.Scan(); !tok.Is(astrepr.EndOfInput); tok = lexer.Scan() {
				switch tok.Kind {
				case astrepr.NodeOpen, astrepr.KeyValue:
					fmt.Printf("%5d %-10s %q %q\n", tok.Line, tok.Kind, tok.Name, tok.Value)
				case astrepr.ListStart:
					fmt.Printf("%5d %-10s %q\n", tok.Line, tok.Kind, tok.Name)
				default:
					fmt.Printf("%5d %-10s %q\n", tok.Line, tok.Kind, tok.Text)
				}
			}
			return nil
		},
	}
	return cmd
}

func cmdStats(cfg *config.Config) *cobra.Command {
	dbPath := cfg.Database
	workers := 4
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the stats database (default in-memory)")
		cmd.Flags().IntVar(&workers, "workers", workers, "number of files to convert at once")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "stats <ast-repr-file-or-dir>...",
		Short:        "record node kind statistics for one or more dumps",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			verbose, _ := cmd.Flags().GetBool("verbose")
			debug, _ := cmd.Flags().GetBool("debug")

			paths, err := inputs.Collect(afero.NewOsFs(), args, debug)
			if err != nil {
				return err
			} else if len(paths) == 0 {
				return fmt.Errorf("no AST repr dumps found")
			}

			c, err := convert.New(convert.WithCacheSize(cfg.CacheSize))
			if err != nil {
				return err
			}
			db, err := store.NewSQLiteStore(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := stages.NewIngestService(db, c, slog.Default())
			for _, r := range svc.IngestBatch(ctx, paths, workers) {
				switch {
				case r.Err != nil:
					log.Printf("stats: %s: %v\n", stages.ErrorCode(r.Err), r.Err)
				case r.Duplicate:
					log.Printf("stats: %s: already recorded as conversion %d\n", r.Path, r.ConversionID)
				case verbose:
					log.Printf("stats: %s: %d nodes, %d placeholders\n", r.Path, r.Result.Nodes(), r.Result.Placeholders())
				}
			}

			summary, err := db.KindSummary(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %8s %8s %s\n", "kind", "count", "unknown", "known")
			for _, kc := range summary {
				fmt.Printf("%-24s %8d %8d %t\n", kc.Kind, kc.Count, kc.Placeholders, kc.Known)
			}
			if verbose {
				stats, err := db.TableStats(ctx)
				if err != nil {
					return err
				}
				log.Printf("stats: %d conversions, %d kind rows\n", stats["conversions"], stats["kind_counts"])
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(astrepr.Version().String())
				return nil
			}
			fmt.Println(astrepr.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
