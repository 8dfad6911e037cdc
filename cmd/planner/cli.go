package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/app"
	"github.com/Freeeeeet/study_planner/internal/config"
	"github.com/Freeeeeet/study_planner/internal/controller"
	"github.com/Freeeeeet/study_planner/internal/controller/handlers"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/notify"
	"github.com/Freeeeeet/study_planner/internal/render"
	"github.com/Freeeeeet/study_planner/internal/repository"
	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/Freeeeeet/study_planner/internal/store"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func newCommandLine(cfg *config.Config, logger *zap.Logger) *commandLine {
	return &commandLine{
		cfg:    cfg,
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stderr, "Usage:")
	fmt.Fprintln(cli.stderr, "  run                                  - start reminders, status clock and Telegram bot")
	fmt.Fprintln(cli.stderr, "  export [-out FILE]                   - write a JSON backup (stdout by default)")
	fmt.Fprintln(cli.stderr, "  import -in FILE                      - replace all data with a JSON backup")
	fmt.Fprintln(cli.stderr, "  week-image [-out FILE] [-date DATE]  - render the week timetable as PNG")
	fmt.Fprintln(cli.stderr, "  week-xlsx [-out FILE] [-date DATE]   - export the week timetable as XLSX")
	fmt.Fprintln(cli.stderr, "  migrate                              - apply database migrations (postgres backend)")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportOut := exportCmd.String("out", "", "Backup file; stdout when empty.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importIn := importCmd.String("in", "", "Backup file to import.")

	imageCmd := flag.NewFlagSet("week-image", flag.ContinueOnError)
	imageOut := imageCmd.String("out", "week.png", "Output PNG file.")
	imageDate := imageCmd.String("date", "", "Any date of the week, YYYY-MM-DD. Defaults to today.")

	xlsxCmd := flag.NewFlagSet("week-xlsx", flag.ContinueOnError)
	xlsxOut := xlsxCmd.String("out", "horario.xlsx", "Output XLSX file.")
	xlsxDate := xlsxCmd.String("date", "", "Any date of the week, YYYY-MM-DD. Defaults to today.")

	for _, fs := range []*flag.FlagSet{exportCmd, importCmd, imageCmd, xlsxCmd} {
		fs.SetOutput(cli.stderr)
	}

	switch args[1] {
	case "run":
		return cli.runPlanner(ctx)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.export(ctx, *exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importBackup(ctx, *importIn)
	case "week-image":
		if err := imageCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.renderWeek(ctx, *imageDate, *imageOut, render.WeekImage)
	case "week-xlsx":
		if err := xlsxCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.renderWeek(ctx, *xlsxDate, *xlsxOut, func(data *model.AppData, weekStart, _ time.Time) ([]byte, error) {
			return render.WeekWorkbook(data, weekStart)
		})
	case "migrate":
		return cli.migrate(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

// openStore открывает хранилище состояния выбранного backend.
// Для postgres сначала применяются миграции.
func (cli *commandLine) openStore(ctx context.Context) (*store.StateStore, func(), error) {
	switch cli.cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cli.cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := repository.NewStateRepository(pool, cli.cfg.StateKey, cli.logger)
		if err := repo.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := runMigrations(ctx, pool, cli.logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store.NewStateStore(repo, cli.logger), pool.Close, nil
	default:
		repo := repository.NewFileStateRepository(cli.cfg.StatePath)
		cli.logger.Debug("Using file state", zap.String("path", repo.Path()))
		return store.NewStateStore(repo, cli.logger), func() {}, nil
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Run(ctx)
}

func (cli *commandLine) migrate(ctx context.Context) error {
	if cli.cfg.StoreBackend != config.BackendPostgres {
		return fmt.Errorf("migrate requires STORE_BACKEND=postgres, got %q", cli.cfg.StoreBackend)
	}
	_, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return err
	}
	closeStore()
	return nil
}

func (cli *commandLine) export(ctx context.Context, out string) error {
	st, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	raw, err := st.Export(ctx)
	if err != nil {
		return err
	}
	if out == "" {
		_, err := cli.stdout.Write(append(raw, '\n'))
		return err
	}
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	cli.logger.Info("Backup exported", zap.String("path", out), zap.Int("bytes", len(raw)))
	return nil
}

func (cli *commandLine) importBackup(ctx context.Context, in string) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	st, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return st.Import(ctx, raw)
}

type weekRenderer func(data *model.AppData, weekStart, now time.Time) ([]byte, error)

func (cli *commandLine) renderWeek(ctx context.Context, date, out string, renderFn weekRenderer) error {
	now := cli.now().In(cli.cfg.Location)
	weekStart := now
	if date != "" {
		d, err := time.ParseInLocation(model.DateLayout, date, cli.cfg.Location)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", date, err)
		}
		weekStart = d
	}

	st, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := st.Snapshot(ctx)
	if err != nil {
		return err
	}
	raw, err := renderFn(data, weekStart, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	cli.logger.Info("Week rendered", zap.String("path", out), zap.String("week_of", weekStart.Format(model.DateLayout)))
	return nil
}

// runPlanner запускает фоновые задачи и, если настроен токен, Telegram-бота.
// Блокируется до отмены ctx.
func (cli *commandLine) runPlanner(ctx context.Context) error {
	st, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Load(ctx); err != nil {
		return err
	}

	planner := service.NewPlannerService(st, cli.logger)
	study := service.NewStudyService(st, cli.logger)
	console := notify.NewConsoleNotifier(cli.stderr)

	var (
		b       *bot.Bot
		primary notify.Notifier
	)
	if cli.cfg.TelegramEnabled() {
		b, err = bot.New(cli.cfg.TelegramToken,
			bot.WithMiddlewares(handlers.OnlyChat(cli.cfg.TelegramChatID, cli.logger)),
			bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
		)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		primary = notify.NewTelegramNotifier(b, cli.cfg.TelegramChatID)
	} else {
		cli.logger.Info("Telegram is not configured, reminders go to the console")
	}

	reminders := service.NewReminderService(st, notify.NewFallback(primary, console, cli.logger), cli.logger)
	scheduler := app.NewScheduler(reminders, planner, app.SchedulerConfig{
		ReminderInterval: cli.cfg.ReminderInterval,
		ClockInterval:    cli.cfg.ClockInterval,
		Location:         cli.cfg.Location,
	}, cli.logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if b == nil {
		<-ctx.Done()
		return nil
	}

	ctrl := controller.NewBotController(b, handlers.NewHandlers(planner, study, cli.cfg.Location, cli.logger), cli.logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		// меню команд не обязательно для работы
		cli.logger.Warn("Bot started without commands menu", zap.Error(err))
	}
	ctrl.Start(ctx)
	return nil
}
