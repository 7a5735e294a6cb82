package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naokawa/campus-dl/internal/catalog"
	"github.com/naokawa/campus-dl/internal/config"
	"github.com/naokawa/campus-dl/internal/download"
	"github.com/naokawa/campus-dl/internal/httpx"
	"github.com/naokawa/campus-dl/internal/session"
)

// app holds the wired-up dependencies shared by the subcommands. It is
// built once in the root PersistentPreRunE so every command sees the
// same flag handling.
type app struct {
	settings *config.Settings
	logger   *log.Logger
	client   *catalog.Client
	manager  *download.Manager
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "cancelled")
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		configPath string
		outputDir  string
	)

	root := &cobra.Command{
		Use:           "campus-dl",
		Short:         "Download course lectures",
		Long:          "campus-dl resolves a course catalog and downloads its lecture streams.\n\nFor interactive mode, use: campus-tui",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath, outputDir)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "show verbose output")

	root.AddCommand(newDownloadCmd(a))
	root.AddCommand(newPreviewCmd(a))
	root.AddCommand(newCoursesCmd(a))
	root.AddCommand(newBulkCmd(a))

	return root
}

// init loads the settings and session and assembles the client stack.
func (a *app) init(configPath, outputDir string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if a.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	a.logger = logger

	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if outputDir != "" {
		settings.OutputDir = outputDir
	}
	a.settings = settings

	sess, err := session.NewStore(settings.SessionPath).Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		logger.Warn("No session file found; requests will be unauthenticated", "path", settings.SessionPath)
	}

	httpClient := httpx.NewClient(settings.UserAgent, settings.RetryPolicy())
	a.client = catalog.NewClient(httpClient, sess, catalog.Endpoints{BaseURL: settings.APIBaseURL}, logger)
	a.manager = download.NewManager(settings, sess, a.client, httpClient, a.printProgress)
	return nil
}

// printProgress maps manager progress events onto the logger.
func (a *app) printProgress(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		a.logger.Debug(event.Message)
	case download.LevelWarning:
		a.logger.Warn(event.Message)
	case download.LevelError:
		a.logger.Error(event.Message)
	default:
		a.logger.Info(event.Message)
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	var (
		chapters []string
		limit    int
		playlist bool
	)

	cmd := &cobra.Command{
		Use:   "download <course-id>",
		Short: "Download every lecture of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playlist {
				a.settings.CreatePlaylist = true
			}
			return a.manager.DownloadCourse(cmd.Context(), args[0], download.Options{
				ChapterIDs:   chapters,
				LimitLessons: limit,
			})
		},
	}

	cmd.Flags().StringSliceVar(&chapters, "chapters", nil, "download only the listed chapter ids")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many lessons (0 = all)")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "write a course playlist file")

	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <course-id>",
		Short: "Resolve the first lecture of a course without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lec, err := a.manager.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Course:  %s (%s)\n", lec.CourseTitle, lec.CourseID)
			fmt.Printf("Chapter: %s\n", lec.ChapterTitle)
			fmt.Printf("Lesson:  %s (%s)\n", lec.LessonTitle, lec.LessonID)
			fmt.Printf("Stream:  %s\n", lec.VideoURL)
			if len(lec.Items) > 1 {
				fmt.Printf("Parts:   %d\n", len(lec.Items))
			}
			return nil
		},
	}
}

func newCoursesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the courses on the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := a.client.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			if len(listings) == 0 {
				fmt.Println("No courses found.")
				return nil
			}
			for _, c := range listings {
				fmt.Printf("%-10s %s\n", c.ID, c.Title)
			}
			return nil
		},
	}
}

func newBulkCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Download every course on the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.manager.DownloadAll(cmd.Context(), a.client, download.Options{
				LimitLessons: limit,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "per-course lesson cap (0 = all)")

	return cmd
}
