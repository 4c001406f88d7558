package internal

import (
	"context"
	"errors"
	"gigbot/conf"
	"gigbot/logger"
	"github.com/go-co-op/gocron"
	"time"
)

const catalogUnavailableMessage = "Lo siento, ahora mismo no puedo consultar los eventos."

// MaxDate bounds searches that carry no date-period.
var MaxDate = time.Date(2040, time.December, 31, 23, 59, 59, 0, time.UTC)

type Service interface {
	Welcome(agent *Agent)

	Fallback(agent *Agent)

	SearchEvents(agent *Agent)

	IntentMap() IntentMap

	ScheduledCatalogRefresh() (*gocron.Scheduler, error)

	Ready() bool

	RefreshedAt() time.Time
}

type service struct {
	config  conf.Config
	catalog *Catalog
	now     func() time.Time
}

func NewService(config conf.Config, catalog *Catalog) Service {
	return service{config: config, catalog: catalog, now: time.Now}
}

func (s service) Welcome(agent *Agent) {
	agent.Add("Welcome to my agent!")
}

func (s service) Fallback(agent *Agent) {
	agent.Add("I didn't understand")
	agent.Add("I'm sorry, can you try again?")
}

func (s service) SearchEvents(agent *Agent) {
	parameters := agent.Parameters()
	style := parameters.Style()

	from, to := s.now(), MaxDate
	if period, ok := parameters.DatePeriod(); ok {
		from, to = period.StartDate, period.EndDate
	}

	events, err := s.catalog.Search(style, from, to, s.config.MaxResults)
	if err != nil {
		logger.ErrorCtx(agent.Context(), "event search failed", "error", err.Error())
		agent.Add(catalogUnavailableMessage)
		return
	}
	logger.InfoCtx(agent.Context(), "event search", "style", style, "from", from, "to", to, "found", len(events))
	agent.Add(Humanize(agent.Request, events))
}

func (s service) IntentMap() IntentMap {
	return IntentMap{
		WelcomeIntent:         s.Welcome,
		FallbackIntent:        s.Fallback,
		s.config.SearchIntent: s.SearchEvents,
	}
}

func (s service) Ready() bool {
	return s.catalog.Ready()
}

func (s service) RefreshedAt() time.Time {
	return s.catalog.RefreshedAt()
}

// ScheduledCatalogRefresh refreshes the catalog right away and then every
// RefreshMinutes. Callers stop the returned scheduler on shutdown.
func (s service) ScheduledCatalogRefresh() (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(s.config.RefreshMinutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.catalog.Refresh(ctx); err != nil {
			if errors.Is(err, ErrNoSource) {
				logger.Warn("catalog refresh skipped: %s", err.Error())
				return
			}
			logger.Error("got error when refreshing the event catalog %s", err.Error())
			return
		}
		logger.Info("event catalog refreshed with %d events at %s", s.catalog.Len(), s.catalog.RefreshedAt().Format(time.RFC3339))
	})
	if err != nil {
		return nil, err
	}
	scheduler.StartAsync()
	_, t := scheduler.NextRun()
	logger.Info("next catalog refresh at: %s", t)
	return scheduler, nil
}
