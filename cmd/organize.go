package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/shotsort/shotsort/pkg/categorize"
	"github.com/shotsort/shotsort/pkg/config"
	"github.com/shotsort/shotsort/pkg/storefront"
)

var flagOnLookupError string

func OrganizeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "organize [ROOT]",
		Short: "Sort Steam screenshots into one folder per game",
		Long: `This command moves uncompressed Steam screenshots (<appid>_<timestamp>_<n>.png) found below ROOT
into ROOT/<game title>/. Titles are looked up on the Steam store and cached in ROOT/dumpapptitle.txt.`,
		Example: `  shotsort organize ~/Pictures/steam
  shotsort organize --dry-run ~/Pictures/steam`,
		Args: cobra.MaximumNArgs(1),
	}

	command.Flags().StringVar(&flagOnLookupError, "on-lookup-error", "",
		`What to do when a store lookup fails: "skip" the app or "abort" the run (default from config)`)

	command.Run = func(cmd *cobra.Command, args []string) {
		start := time.Now()

		// init core
		if !initialized {
			initCore(true)
			initialized = true
		}

		cfg := *config.Config
		if flagOnLookupError != "" {
			cfg.Store.OnError = flagOnLookupError
			if err := cfg.Validate(); err != nil {
				log.WithError(err).Fatal("Invalid --on-lookup-error")
			}
		}
		dryRun := FlagDryRun || cfg.Organize.DryRun

		// retrieve root
		var root string
		switch {
		case len(args) == 1:
			root = args[0]
		case stdinIsTerminal():
			r, err := promptRoot(os.Stdin, cmd.OutOrStdout())
			if err != nil {
				log.WithError(err).Fatal("Invalid input")
			}
			root = r
		default:
			log.Fatal("No screenshot folder given and stdin is not a terminal")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		steam := storefront.NewSteam(storefront.SteamConfig{
			URLTemplate: cfg.Store.URLTemplate,
			Timeout:     cfg.Store.Timeout,
			RateLimit:   cfg.Store.RateLimit,
			Retries:     cfg.Store.Retries,
		})
		log.Debugf("Resolving titles via %s (%s)", steam.Name(), cfg.Store.URLTemplate)

		runner := categorize.New(steam, categorize.Options{
			Extension: cfg.Scan.Extension,
			CacheFile: cfg.Cache.File,
			OnError:   cfg.Store.OnError,
			DryRun:    dryRun,
			Ignore:    cfg.Organize.Ignore,
			Lock:      cfg.Lock,
		})

		summary, err := runner.Run(ctx, root)
		if summary != nil {
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, dryRun))
		}
		if err != nil {
			log.WithError(err).Fatal("Failed organizing screenshots")
		}

		log.Infof("Done in %s", time.Since(start).Truncate(time.Millisecond))
	}

	return command
}
