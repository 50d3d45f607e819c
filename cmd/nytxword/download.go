package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"nytxword/pkg/auth"
	"nytxword/pkg/config"
	"nytxword/pkg/downloader"
	"nytxword/pkg/logger"
	"nytxword/pkg/nyt"
	"nytxword/pkg/ui"
)

var (
	// Download command flags
	destination  string
	cookieString string
	accountName  string
	startDate    string
	endDate      string
	interval     float64
	puzzleID     int
	dateFolders  bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download puzzles for a date range",
	Long: `Download NYT crossword puzzles for an inclusive date range.

Puzzle ids for the whole range are resolved first through the listing
endpoint (paged 100 days at a time), then each day's puzzle is fetched and
written to disk. Days whose puzzle cannot be fetched are skipped silently.

Fetching puzzle data requires a NYT-S session cookie, supplied through one
of:
  - A stored account ('nytxword auth login', then --account)
  - The --cookie flag (NYT-S=<value>)
  - The NYTXWORD_SESSION_TOKEN environment variable`,
	Example: `  # Download today's puzzle to the current directory
  nytxword download --cookie "NYT-S=abc123"

  # Download a month into year/month folders
  nytxword download -s 2024-03-01 -e 2024-03-31 -d ./puzzles --date-folders

  # Download one specific puzzle by id
  nytxword download --puzzle-id 21830 -d ./puzzles

  # Slow down to one request per minute
  nytxword download -s 2024-03-01 -e 2024-03-31 --interval 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runDownload(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	today := nyt.FormatDate(time.Now())

	downloadCmd.Flags().StringVarP(&destination, "destination", "d", "", "folder where crossword data will be written (default: current directory)")
	downloadCmd.Flags().StringVar(&cookieString, "cookie", "", "session cookie string, NYT-S=<value>")
	downloadCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	downloadCmd.Flags().StringVarP(&startDate, "start", "s", today, "download puzzles starting on date (YYYY-MM-DD)")
	downloadCmd.Flags().StringVarP(&endDate, "end", "e", today, "download puzzles ending on date (YYYY-MM-DD)")
	downloadCmd.Flags().Float64VarP(&interval, "interval", "i", 30, "minimum delay between requests in seconds")
	downloadCmd.Flags().IntVarP(&puzzleID, "puzzle-id", "p", 0, "download a particular puzzle id instead of a range")
	downloadCmd.Flags().BoolVar(&dateFolders, "date-folders", false, "organize puzzles into folders by year and month")
}

func runDownload(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if destination != "" {
		flags["destination"] = destination
	}
	if cmd.Flags().Changed("interval") {
		flags["interval"] = interval
	}
	if cmd.Flags().Changed("date-folders") {
		flags["date-folders"] = dateFolders
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("nytxword starting")

	resolveCredential(cfg)
	if cfg.NYT.SessionToken == "" {
		ui.PrintWarning("No session cookie configured; puzzle fetches will likely fail.")
		ui.PrintWarning("Store one with 'nytxword auth login' or pass --cookie \"NYT-S=<value>\".")
	}

	d, err := downloader.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize downloader", err.Error())
		os.Exit(1)
	}

	// Single-puzzle override bypasses the range loop entirely
	if puzzleID > 0 {
		if _, err := d.DownloadByID(puzzleID); err != nil {
			logger.WithError(err).WithField("puzzle_id", puzzleID).Error("download failed")
			ui.PrintError("Download failed", err.Error())
			os.Exit(1)
		}
		return
	}

	start, err := time.Parse(nyt.DateLayout, startDate)
	if err != nil {
		ui.PrintError("Invalid start date", startDate)
		os.Exit(1)
	}
	end, err := time.Parse(nyt.DateLayout, endDate)
	if err != nil {
		ui.PrintError("Invalid end date", endDate)
		os.Exit(1)
	}

	summary, err := d.DownloadRange(start, end)
	if err != nil {
		logger.WithError(err).Error("range download failed")
		ui.PrintError("Download failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSummary(summary.Elapsed.Seconds(), summary.Waited.Seconds())
}

// resolveCredential fills in the session token from the highest-priority
// available source: --cookie flag, named stored account, default stored
// account, then whatever config/env already provided.
func resolveCredential(cfg *config.Config) {
	if cookieString != "" {
		name, value, err := nyt.ParseCookieString(cookieString)
		if err != nil {
			ui.PrintError("Invalid cookie string", err.Error())
			os.Exit(1)
		}
		cfg.NYT.CookieName = name
		cfg.NYT.SessionToken = value
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Warn("credential manager unavailable")
		return
	}

	if accountName != "" {
		account, err := manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'nytxword auth list' to see stored accounts")
			os.Exit(1)
		}
		cfg.NYT.SessionToken = account.SessionToken
		logger.WithField("account", account.Name).Info("using stored credentials")
		return
	}

	if cfg.NYT.SessionToken != "" {
		return
	}

	if account, err := manager.RetrieveDefault(); err == nil {
		cfg.NYT.SessionToken = account.SessionToken
		logger.WithField("account", account.Name).Info("using stored credentials")
	}
}
