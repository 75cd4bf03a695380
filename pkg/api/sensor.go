package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sguter90/sensordash/pkg/models"
)

// Endpoint names, also used as metric and log labels
const (
	EndpointCurrent    = "getCurrentData"
	EndpointHistorical = "getHistoricalData"
	EndpointStatistics = "getStatistics"
	EndpointAlerts     = "getAlerts"
)

// DefaultHistoryHours is the hour count used when none is given
const DefaultHistoryHours = 24

// GetCurrentData retrieves the latest sensor reading
func (c *Client) GetCurrentData(ctx context.Context) (*models.Reading, error) {
	var reading models.Reading
	if err := c.getJSON(ctx, EndpointCurrent, "/"+EndpointCurrent, &reading); err != nil {
		return nil, err
	}

	return &reading, nil
}

// GetHistoricalData retrieves the series of the last hours. hours <= 0
// requests the default window.
func (c *Client) GetHistoricalData(ctx context.Context, hours int) (*models.HistoricalSeries, error) {
	if hours <= 0 {
		hours = DefaultHistoryHours
	}

	params := url.Values{}
	params.Set("hours", strconv.Itoa(hours))
	path := "/" + EndpointHistorical + "?" + params.Encode()

	var series models.HistoricalSeries
	if err := c.getJSON(ctx, EndpointHistorical, path, &series); err != nil {
		return nil, err
	}

	if err := series.Validate(); err != nil {
		return nil, &DecodeError{Endpoint: EndpointHistorical, Err: err}
	}

	return &series, nil
}

// GetStatistics retrieves the aggregated statistics
func (c *Client) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.getJSON(ctx, EndpointStatistics, "/"+EndpointStatistics, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetAlerts retrieves the active alerts
func (c *Client) GetAlerts(ctx context.Context) (*models.AlertsResponse, error) {
	var alerts models.AlertsResponse
	if err := c.getJSON(ctx, EndpointAlerts, "/"+EndpointAlerts, &alerts); err != nil {
		return nil, err
	}

	return &alerts, nil
}

// Ping checks that the API answers at all. Any response below 500 counts as
// reachable, even when its body is not a valid reading.
func (c *Client) Ping(ctx context.Context) error {
	err := c.getJSON(ctx, EndpointCurrent, "/"+EndpointCurrent, &models.Reading{})

	var statusErr *StatusError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &statusErr) && statusErr.StatusCode < 500:
		return nil
	case errors.As(err, &decodeErr):
		return nil
	}
	return fmt.Errorf("API unreachable: %w", err)
}
