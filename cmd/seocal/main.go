package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"seocal/internal/calendar"
	"seocal/internal/config"
	"seocal/internal/load"
	appLog "seocal/internal/log"
	"seocal/internal/plan"
	"seocal/internal/superday"
	"seocal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("seocal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"refresh", conf.RefreshCron,
		"max_lanes", conf.MaxLanes,
		"months_path", conf.MonthsPath,
		"events_path", conf.EventsPath,
		"superday_zone_a", conf.SuperDay.ZoneA,
		"superday_zone_b", conf.SuperDay.ZoneB,
	)

	engine, err := buildEngine(conf)
	if err != nil {
		appLog.Error("failed to load tables", err)
		os.Exit(1)
	}

	if flags.once {
		if err := printToday(conf, engine); err != nil {
			appLog.Error("single-shot run failed", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	server := web.NewServer(conf, engine)

	// Periodic refresh: reload the tables and re-derive the SuperDay
	// east/west assignment. The assignment is recomputed on every tick (and
	// on every query) rather than stored, so a zone swap in config can never
	// leave a stale direction behind.
	sched := cron.New()
	if _, err := sched.AddFunc(conf.RefreshCron, func() { refresh(conf, server) }); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	logSuperDayAssignment(conf)

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	appLog.Info("seocal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/seocal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Print today's Seoian date and SuperDay bounds, then exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()
	return cfg
}

// buildEngine loads both tables and assembles a fresh engine. Gaps in the
// month table are logged, never repaired: whether they are intercalary days
// or data errors is for the table's owner to decide.
func buildEngine(conf *config.Config) (*plan.Engine, error) {
	ranges, err := load.MonthRanges(conf.MonthsPath)
	if err != nil {
		return nil, err
	}
	defs, err := load.EventDefinitions(conf.EventsPath)
	if err != nil {
		return nil, err
	}

	index := calendar.NewIndex(ranges)
	for _, gap := range index.Gaps() {
		appLog.Warn("month table gap",
			"seoian_year", gap.SeoianYear,
			"after_month", gap.AfterMonth,
			"first_uncovered", gap.Start.Format("2006-01-02"),
			"last_uncovered", gap.End.Format("2006-01-02"),
		)
	}

	return plan.NewEngine(index, defs), nil
}

func refresh(conf *config.Config, server *web.Server) {
	engine, err := buildEngine(conf)
	if err != nil {
		appLog.Error("refresh: table reload failed, keeping previous tables", err)
		return
	}
	server.SetEngine(engine)
	logSuperDayAssignment(conf)
	appLog.Info("refresh complete", "ranges", engine.Index().Len())
}

func logSuperDayAssignment(conf *config.Config) {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := calendar.CivilIn(time.Now(), loc)

	b, err := superday.Bounds(today, conf.SuperDay.ZoneA, conf.SuperDay.ZoneB)
	if err != nil {
		appLog.Error("superday assignment failed", err)
		return
	}
	appLog.Info("superday assignment",
		"east", b.EastZone,
		"west", b.WestZone,
		"duration", b.Duration,
	)
}

// printToday writes today's Seoian mapping and SuperDay bounds to stdout and
// returns; used by the -once flag for shell checks and cron jobs.
func printToday(conf *config.Config, engine *plan.Engine) error {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return fmt.Errorf("display timezone %q: %w", conf.Timezone, err)
	}
	today := calendar.CivilIn(time.Now(), loc)

	sd := engine.Index().CanonicalDate(today)
	fmt.Printf("gregorian: %s\n", today.Format("2006-01-02"))
	fmt.Printf("seoian:    %s\n", sd.Label)
	for _, mr := range engine.Index().ActiveRanges(today) {
		fmt.Printf("active:    %02d %s (%s .. %s)\n",
			mr.MonthNo, mr.MonthName,
			mr.Start.Format("2006-01-02"), mr.End.Format("2006-01-02"))
	}

	b, err := superday.Bounds(today, conf.SuperDay.ZoneA, conf.SuperDay.ZoneB)
	if err != nil {
		return err
	}
	fmt.Printf("superday:  %s (east) -> %s (west)\n", b.EastZone, b.WestZone)
	fmt.Printf("           %s .. %s (%s)\n",
		b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), b.Duration)

	return nil
}
