package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gigbot/entity"
	"gigbot/logger"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var ErrBadRow = errors.New("malformed event row")

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported event date %q", value)
}

// StaticSource serves a fixed list of events.
type StaticSource []entity.Event

func (s StaticSource) Events(_ context.Context) ([]entity.Event, error) {
	out := make([]entity.Event, len(s))
	copy(out, s)
	return out, nil
}

// HTTPSource fetches a JSON array of events from a provider endpoint.
type HTTPSource struct {
	Url    string
	ApiKey string
	Client *http.Client
}

type eventPayload struct {
	Name      string `json:"name"`
	EventName string `json:"eventName"`
	EventDate string `json:"eventDate"`
	Style     string `json:"style"`
}

func (s HTTPSource) Events(ctx context.Context) ([]entity.Event, error) {
	u, err := url.Parse(s.Url)
	if err != nil {
		return nil, fmt.Errorf("parse events url: %w", err)
	}
	if s.ApiKey != "" {
		q := u.Query()
		q.Set("apikey", s.ApiKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	logger.Debug("calling events provider %s", u.Host)
	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call events provider: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("could not close events provider body %s", err.Error())
		}
	}(response.Body)

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events provider answered %s", response.Status)
	}

	var payload []eventPayload
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode events provider response: %w", err)
	}

	events := make([]entity.Event, 0, len(payload))
	for _, p := range payload {
		date, err := parseEventDate(p.EventDate)
		if err != nil {
			logger.Warn("skipping event %q: %s", p.EventName, err.Error())
			continue
		}
		events = append(events, entity.Event{
			Name:      p.Name,
			EventName: p.EventName,
			EventDate: date,
			Style:     p.Style,
		})
	}
	return events, nil
}

// ValuesReader reads a cell range of a spreadsheet.
type ValuesReader interface {
	ReadRange(ctx context.Context, spreadsheetId, readRange string) ([][]interface{}, error)
}

type sheetsReader struct {
	service *sheets.Service
}

func (r sheetsReader) ReadRange(ctx context.Context, spreadsheetId, readRange string) ([][]interface{}, error) {
	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetId, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// NewSheetsService authenticates with a service-account key file.
func NewSheetsService(ctx context.Context, keyFile string) (*sheets.Service, error) {
	creeds, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(creeds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("create JWT config: %w", err)
	}
	return sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
}

// SheetsSource reads events from rows shaped name | eventName | eventDate | style.
type SheetsSource struct {
	reader        ValuesReader
	spreadsheetId string
	readRange     string
}

func NewSheetsSource(service *sheets.Service, spreadsheetId, readRange string) SheetsSource {
	return SheetsSource{
		reader:        sheetsReader{service: service},
		spreadsheetId: spreadsheetId,
		readRange:     readRange,
	}
}

func (s SheetsSource) Events(ctx context.Context) ([]entity.Event, error) {
	rows, err := s.reader.ReadRange(ctx, s.spreadsheetId, s.readRange)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.readRange, err)
	}
	events := make([]entity.Event, 0, len(rows))
	for i, row := range rows {
		e, err := parseRow(row)
		if err != nil {
			// first row is usually the header
			if i > 0 {
				logger.Debug("skipping sheet row %d: %s", i+1, err.Error())
			}
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func parseRow(row []interface{}) (entity.Event, error) {
	if len(row) < 3 {
		return entity.Event{}, fmt.Errorf("%w: %d cells", ErrBadRow, len(row))
	}
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}
	date, err := parseEventDate(cell(2))
	if err != nil {
		return entity.Event{}, fmt.Errorf("%w: %s", ErrBadRow, err.Error())
	}
	if cell(0) == "" || cell(1) == "" {
		return entity.Event{}, fmt.Errorf("%w: empty name", ErrBadRow)
	}
	return entity.Event{
		Name:      cell(0),
		EventName: cell(1),
		EventDate: date,
		Style:     cell(3),
	}, nil
}
