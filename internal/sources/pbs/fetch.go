package pbs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/klrn-data/schedcheck/internal/transport"
	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
	"github.com/klrn-data/schedcheck/pkg/logging"
)

// Fetcher pulls raw schedule JSON from the API, one day per request, and
// writes the combined result where a later parse will pick it up.
type Fetcher struct {
	client   *transport.Client
	endpoint string
	station  string
}

// NewFetcher creates a fetcher for the given endpoint, station call sign,
// and API key.
func NewFetcher(endpoint, station, apiKey string) *Fetcher {
	return &Fetcher{
		client:   transport.New(apiKey),
		endpoint: endpoint,
		station:  station,
	}
}

// Fetch retrieves the given number of days starting at start. A failed day
// is logged and recorded as null rather than failing the batch; other days
// still proceed. Only context cancellation aborts the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, start time.Time, days int) (map[string]json.RawMessage, error) {
	startKey := start.Format(constants.CompactDateLayout)
	result := map[string]json.RawMessage{
		metadataKey: mustJSON(startKey),
	}

	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		day := start.AddDate(0, 0, i).Format(constants.CompactDateLayout)
		payload, err := f.day(ctx, day)
		if err != nil {
			logging.Err(err).Str("date", day).Msg("Recording day as absent")
			result[day] = json.RawMessage("null")
			continue
		}
		logging.Info().Str("date", day).Msg("Retrieved schedule day")
		result[day] = payload
	}
	return result, nil
}

// FetchToFile fetches a date range and writes it as one JSON document.
func (f *Fetcher) FetchToFile(ctx context.Context, path string, start time.Time, days int) error {
	result, err := f.Fetch(ctx, start, days)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	logging.Info().Str("file", path).Int("days", days).Msg("Schedule saved")
	return nil
}

// day retrieves one day's raw schedule JSON.
func (f *Fetcher) day(ctx context.Context, date string) (json.RawMessage, error) {
	url := f.endpoint + f.station + "/day/" + date

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read response", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Source:     "pbs",
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Body:       string(body),
		}
	}
	if !json.Valid(body) {
		return nil, errors.WrapParse("json", url, errors.New("response is not valid JSON"))
	}
	return json.RawMessage(body), nil
}

// mustJSON marshals a value that cannot fail, such as a plain string.
func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(data)
}
