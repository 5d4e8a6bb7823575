package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"vacation-planner/internal/colors"
	"vacation-planner/internal/config"
	"vacation-planner/internal/handler"
	"vacation-planner/internal/models"
	"vacation-planner/internal/render"
	"vacation-planner/internal/service"
	"vacation-planner/internal/web"
	"vacation-planner/pkg/telegram"
)

func main() {
	app := &cli.App{
		Name:  "planner",
		Usage: "Plan employee vacations from Telegram, the browser or the shell.",
		Commands: []*cli.Command{
			botCommand(),
			serveCommand(),
			listCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("Application failed")
		os.Exit(1)
	}
}

// app holds what every command needs once the store is open.
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	service *service.VacationService
	close   func() error
}

func setup(c *cli.Context) (*app, error) {
	logrus.Info("Initializing config...")
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.WithField("backend", cfg.Backend).Info("Config initialized")

	store, closeStore, err := openStore(c.Context, cfg, logger)
	if err != nil {
		return nil, err
	}

	svc, err := service.NewVacationService(store, colors.NewPalette(), logger)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, service: svc, close: closeStore}, nil
}

// load fills the record set.
func (a *app) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	_, err := a.service.LoadAll(ctx)
	return err
}

// warmUp loads the records for the long-running surfaces. A failure leaves the
// set empty and is only logged; /reload can retry.
func (a *app) warmUp(ctx context.Context) {
	if err := a.load(ctx); err != nil {
		a.logger.WithError(err).Warn("Starting with an empty record set")
	}
}

func (a *app) shutdown() {
	if err := a.close(); err != nil {
		a.logger.WithError(err).Error("Error closing store")
	}
}

func botCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram bot.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "http-addr", Usage: "Also serve the web page and API on this address."},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer a.shutdown()

			if err := a.cfg.ValidateBot(); err != nil {
				return err
			}
			a.warmUp(c.Context)

			client, err := telegram.NewClient(a.cfg.TelegramToken, a.cfg.BotDebug, a.cfg.UpdateTimeout)
			if err != nil {
				return fmt.Errorf("failed to create Telegram client: %w", err)
			}
			a.logger.Infof("Authorized on account %s", client.Bot.Self.UserName)

			var srv *http.Server
			if addr := c.String("http-addr"); addr != "" {
				srv = a.httpServer(addr)
				go a.listen(srv)
			}

			botHandler := handler.NewHandler(client, a.service, a.cfg.RequestTimeout, a.logger)

			// Graceful shutdown
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			done := make(chan struct{})
			go func() {
				botHandler.HandleUpdates(client.Updates())
				close(done)
			}()

			a.logger.Info("Bot started. Press Ctrl+C to stop.")
			<-stop

			client.Stop()
			<-done
			if srv != nil {
				a.stopServer(srv)
			}

			a.logger.Info("Bot stopped gracefully")
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web page, JSON API and calendar feed.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address, defaults to HTTP_ADDR."},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer a.shutdown()

			a.warmUp(c.Context)

			addr := c.String("addr")
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			srv := a.httpServer(addr)
			go a.listen(srv)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			a.stopServer(srv)
			a.logger.Info("Server stopped gracefully")
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the vacation records.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "area", Value: models.AllAreas, Usage: "Only show this area."},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer a.shutdown()

			if err := a.load(c.Context); err != nil {
				return err
			}

			rows := render.Table(a.service.FilterByArea(c.String("area")), a.service.Colors())
			_, err = fmt.Fprintln(c.App.Writer, render.TableText(rows))
			return err
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the vacations as an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "-", Usage: "Output file, - for stdout."},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer a.shutdown()

			if err := a.load(c.Context); err != nil {
				return err
			}

			data, err := render.ICS(a.service.Records(), time.Now())
			if err != nil {
				return err
			}

			var w io.Writer = c.App.Writer
			if out := c.String("out"); out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("failed to write calendar: %w", err)
			}
			a.logger.WithField("count", len(a.service.Records())).Info("Calendar exported")
			return nil
		},
	}
}

func (a *app) httpServer(addr string) *http.Server {
	router := web.NewRouter(a.service, web.Options{
		AllowOrigins: a.cfg.AllowOrigins,
		Locale:       a.cfg.CalendarLocale,
	}, a.logger)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *app) listen(srv *http.Server) {
	a.logger.WithField("addr", srv.Addr).Info("HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.WithError(err).Fatal("HTTP server failed")
	}
}

func (a *app) stopServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown failed")
	}
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.StandardLogger()

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
