package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

// JSONSource reads hotels.json and bookings.json. Each path is either a local
// file or an http(s) URL.
type JSONSource struct {
	HotelsPath   string
	BookingsPath string

	client *http.Client
	logger *zerolog.Logger
}

func NewJSONSource(hotelsPath, bookingsPath string, logger *zerolog.Logger) *JSONSource {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &JSONSource{
		HotelsPath:   hotelsPath,
		BookingsPath: bookingsPath,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// Load reads both documents; the catalog is only returned when both succeed.
func (s *JSONSource) Load(ctx context.Context) (*Catalog, error) {
	var hotels []models.Hotel
	if err := s.loadJSONFile(ctx, s.HotelsPath, &hotels); err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := s.loadJSONFile(ctx, s.BookingsPath, &bookings); err != nil {
		return nil, err
	}

	cat, err := New(hotels, bookings)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", s.HotelsPath, err)
	}

	s.logger.Info().
		Str("hotels_path", s.HotelsPath).
		Str("bookings_path", s.BookingsPath).
		Int("hotels", len(hotels)).
		Int("bookings", len(bookings)).
		Msg("catalog loaded")

	return cat, nil
}

func (s *JSONSource) loadJSONFile(ctx context.Context, path string, dst any) error {
	body, err := s.open(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("error loading file")
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("error parsing file")
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (s *JSONSource) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("data path is empty")
	}

	if !isURL(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch file: %s, status: %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

func isURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
