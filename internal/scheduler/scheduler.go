package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"QuarterChart/internal/app"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/model"
	"QuarterChart/internal/notifier"

	"github.com/robfig/cron/v3"
)

const recentLimit = 10

// Scheduler runs the quarterly archive and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *app.Service
	Watchlist []string
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *app.Service, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Watchlist: watchlist,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// Register adds the archive job.
func (s *Scheduler) Register(archiveCron string) error {
	if _, err := s.Cron.AddFunc(archiveCron, s.archiveTask); err != nil {
		return fmt.Errorf("register archive task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunArchiveNow executes the archive task immediately.
func (s *Scheduler) RunArchiveNow() int {
	return s.archive()
}

func (s *Scheduler) archiveTask() { s.archive() }

// archive saves the last finished quarter of every watchlist ticker and
// returns how many were stored.
func (s *Scheduler) archive() int {
	year, quarter := model.PreviousQuarter(s.now())
	log.Printf("[INFO] archiving %s for %d tickers", model.QuarterLabel(year, quarter), len(s.Watchlist))

	saved := 0
	for _, ticker := range s.Watchlist {
		if s.Ctx.Err() != nil {
			break
		}
		err := s.archiveOne(ticker, year, quarter)
		s.Service.Metrics.ObserveArchive(err)
		if err != nil {
			log.Printf("[ERROR] archive %s: %v", ticker, err)
			continue
		}
		saved++
	}
	return saved
}

func (s *Scheduler) archiveOne(ticker string, year, quarter int) error {
	bars, err := s.Service.Fetch(s.Ctx, ticker, year, quarter)
	if err != nil {
		return err
	}
	sym, _ := collector.NormalizeTicker(ticker)
	sub := model.NewSubmission(sym, year, quarter, [3]model.Annotation{}, bars)
	_, err = s.Service.Submit(s.Ctx, sub)
	return err
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/chart":
		return s.chartCommand(ctx, fields[1:])
	case "/recent":
		ticker := ""
		if len(fields) > 1 {
			ticker = fields[1]
		}
		list, err := s.Service.Recent(ctx, ticker, recentLimit)
		if err != nil {
			log.Printf("[ERROR] list submissions: %v", err)
			return "❌ Error loading submissions"
		}
		return notifier.FormatRecent(list)
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /chart TICKER YEAR Q\n• /recent [TICKER]"

func (s *Scheduler) chartCommand(ctx context.Context, args []string) string {
	if len(args) != 3 {
		return "Usage: /chart TICKER YEAR Q"
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return "Year must be a number"
	}
	quarter, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(args[2]), "Q"))
	if err != nil {
		return "Quarter must be 1-4"
	}

	bars, err := s.Service.Fetch(ctx, args[0], year, quarter)
	switch {
	case errors.Is(err, model.ErrInvalidPeriod):
		return "Quarter must be 1-4"
	case errors.Is(err, collector.ErrNoData):
		return fmt.Sprintf("No data for %s %s", strings.ToUpper(args[0]), model.QuarterLabel(year, quarter))
	case err != nil:
		return "❌ " + app.StatusFetchError
	}
	sym, _ := collector.NormalizeTicker(args[0])
	return notifier.FormatSeriesSummary(sym, year, quarter, bars)
}
