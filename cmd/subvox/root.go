package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subvox/internal/config"
	"subvox/internal/generator"
	"subvox/internal/logging"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag  string
		outputFlag  string
		formatFlag  string
		srcLangFlag string
		dstLangFlag string
		concurrency int
		noCache     bool
		verbose     bool
	)

	rootCmd := &cobra.Command{
		Use:           "subvox <source>",
		Short:         "Generate subtitles from the speech in audio and video files",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			logLevel := cfg.Logging.Level
			if verbose {
				logLevel = "debug"
			}
			logger, err := logging.New(logging.Options{
				Level:  logLevel,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := []generator.Option{generator.WithLogger(logger)}
			if isatty.IsTerminal(os.Stderr.Fd()) {
				opts = append(opts, generator.WithProgressOutput(os.Stderr))
			}

			gen := generator.New(cfg, opts...)
			result, err := gen.Generate(ctx, generator.Request{
				Source:         args[0],
				Output:         outputFlag,
				Format:         formatFlag,
				SourceLanguage: srcLangFlag,
				TargetLanguage: dstLangFlag,
				Concurrency:    concurrency,
				DisableCache:   noCache,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subtitles file created at %s\n", result.OutputPath)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default: source path with the format extension)")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "F", "srt", "Destination subtitle format")
	rootCmd.Flags().StringVarP(&srcLangFlag, "src-language", "S", "en", "Language spoken in the source file")
	rootCmd.Flags().StringVarP(&dstLangFlag, "dst-language", "D", "", "Desired language for the subtitles")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "C", 0, "Number of concurrent recognition requests")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the transcript cache for this run")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newDepsCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
