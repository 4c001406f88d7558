package internal

import (
	"context"
	"gigbot/conf"
	"gigbot/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func testConfig() conf.Config {
	return conf.Config{
		Port:           "8080",
		SearchIntent:   conf.DefaultSearchIntent,
		RefreshMinutes: 30,
		SourceName:     conf.DefaultSourceName,
	}
}

func newTestService(t *testing.T, catalog *Catalog, now time.Time) service {
	t.Helper()
	return service{config: testConfig(), catalog: catalog, now: func() time.Time { return now }}
}

func runIntent(s Service, intent string, params entity.Parameters) []string {
	req := requestWith(params, "")
	req.QueryResult.Intent.DisplayName = intent
	agent := NewAgent(context.Background(), req)
	agent.HandleRequest(s.IntentMap())
	return agent.Replies()
}

func TestWelcomeAndFallback(t *testing.T) {
	s := newTestService(t, NewCatalog(nil), june(1))
	assert.Equal(t, []string{"Welcome to my agent!"}, runIntent(s, WelcomeIntent, nil))
	assert.Equal(t, []string{"I didn't understand", "I'm sorry, can you try again?"}, runIntent(s, FallbackIntent, nil))
	assert.Equal(t, []string{"I didn't understand", "I'm sorry, can you try again?"}, runIntent(s, "Reservar Mesa", nil))
}

func TestSearchEventsDefaultsToUpcoming(t *testing.T) {
	s := newTestService(t, loadedCatalog(t, sampleEvents()), june(10))

	replies := runIntent(s, conf.DefaultSearchIntent, entity.Parameters{"date-period": ""})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "He encontrado 2 resultados. Son los siguientes:")
	lines := detailLines(replies[0])
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Los Planetas")
	assert.Contains(t, lines[1], "Rosalía")
}

func TestSearchEventsWithStyleAndPeriod(t *testing.T) {
	s := newTestService(t, loadedCatalog(t, sampleEvents()), june(1))

	replies := runIntent(s, conf.DefaultSearchIntent, entity.Parameters{
		"EstilosMusicales": "indie",
		"date-period": map[string]any{
			"startDate": "2024-06-01T00:00:00Z",
			"endDate":   "2024-06-10T23:59:59Z",
		},
	})
	require.Len(t, replies, 1)
	assert.Equal(t,
		"He encontrado 1 resultados sobre indie entre 01/06/24 y 10/06/24. Son los siguientes:\n"+
			"El grupo Vetusta Morla organiza Mismo Sitio Distinto Lugar el próximo día 02/06/24.\n",
		replies[0])
}

func TestSearchEventsIncludesToday(t *testing.T) {
	date, err := parseEventDate("15/06/2024")
	require.NoError(t, err)
	catalog := loadedCatalog(t, []entity.Event{{Name: "Sidonie", EventName: "El Fin del Mundo", EventDate: date}})
	s := newTestService(t, catalog, time.Date(2024, time.June, 15, 18, 0, 0, 0, time.UTC))

	replies := runIntent(s, conf.DefaultSearchIntent, nil)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "He encontrado 1 resultados.")
	assert.Contains(t, replies[0], "El grupo Sidonie organiza El Fin del Mundo el próximo día 15/06/24.")
}

func TestSearchEventsPeriodWithNegativeOffset(t *testing.T) {
	date, err := parseEventDate("15/06/2024")
	require.NoError(t, err)
	catalog := loadedCatalog(t, []entity.Event{{Name: "Sidonie", EventName: "El Fin del Mundo", EventDate: date}})
	s := newTestService(t, catalog, june(1))

	replies := runIntent(s, conf.DefaultSearchIntent, entity.Parameters{
		"date-period": map[string]any{
			"startDate": "2024-06-15T00:00:00-05:00",
			"endDate":   "2024-06-15T23:59:59-05:00",
		},
	})
	require.Len(t, replies, 1)
	assert.True(t, strings.HasPrefix(replies[0], "He encontrado 1 resultados entre 15/06/24 y 15/06/24."), replies[0])
}

func TestSearchEventsNothingFound(t *testing.T) {
	s := newTestService(t, loadedCatalog(t, sampleEvents()), june(1))
	replies := runIntent(s, conf.DefaultSearchIntent, entity.Parameters{"EstilosMusicales": "flamenco"})
	assert.Equal(t, []string{"Lo siento no he podido encontrar nada sobre flamenco"}, replies)
}

func TestSearchEventsCatalogUnavailable(t *testing.T) {
	s := newTestService(t, NewCatalog(failingSource{}), june(1))
	assert.Equal(t, []string{catalogUnavailableMessage}, runIntent(s, conf.DefaultSearchIntent, nil))
	assert.False(t, s.Ready())
}

func TestSearchEventsMaxResults(t *testing.T) {
	s := newTestService(t, loadedCatalog(t, sampleEvents()), june(1))
	s.config.MaxResults = 2
	replies := runIntent(s, conf.DefaultSearchIntent, nil)
	require.Len(t, replies, 1)
	assert.Len(t, detailLines(replies[0]), 2)
}

func TestScheduledCatalogRefresh(t *testing.T) {
	catalog := NewCatalog(StaticSource(sampleEvents()))
	s := NewService(testConfig(), catalog)

	scheduler, err := s.ScheduledCatalogRefresh()
	require.NoError(t, err)
	defer scheduler.Stop()

	assert.Eventually(t, s.Ready, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, catalog.Len())
}
