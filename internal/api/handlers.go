package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"hotelavail/internal/availability"
	"hotelavail/internal/export"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type errorResponse struct {
	Error          string   `json:"error"`
	Code           string   `json:"code,omitempty"`
	ValidRoomTypes []string `json:"valid_room_types,omitempty"`
}

type hotelSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	RoomTypes []string `json:"roomTypes"`
}

type reportResponse struct {
	HotelID   string                        `json:"hotelId"`
	StartDate string                        `json:"startDate"`
	EndDate   string                        `json:"endDate"`
	Results   []models.RoomTypeAvailability `json:"results"`
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once a catalog with at least one hotel is loaded.
func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil || len(s.checker.Hotels()) == 0 {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hotels := s.checker.Hotels()
	out := make([]hotelSummary, 0, len(hotels))
	for i := range hotels {
		out = append(out, hotelSummary{
			ID:        hotels[i].ID,
			Name:      hotels[i].Name,
			RoomTypes: hotels[i].RoomTypeCodes(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": out})
}

// handleAvailability accepts the query either as URL parameters (GET) or as
// a JSON body with the same field names (POST).
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var q models.Query
	switch r.Method {
	case http.MethodGet:
		q = queryFromURL(r)
	case http.MethodPost:
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.checker.Check(r.Context(), q)
	if err != nil {
		writeCheckError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := queryFromURL(r)
	rows, err := s.checker.Report(r.Context(), q.HotelID, q.StartDate, q.EndDate)
	if err != nil {
		writeCheckError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		HotelID:   q.HotelID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Results:   rows,
	})
}

func (s *HTTPServer) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := queryFromURL(r)
	rows, err := s.checker.Report(r.Context(), q.HotelID, q.StartDate, q.EndDate)
	if err != nil {
		writeCheckError(w, r, err)
		return
	}
	hotel, _ := s.checker.Hotel(q.HotelID)

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, hotel, q.StartDate, q.EndDate, rows); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render xlsx report")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("availability_%s.xlsx", hotel.ID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func queryFromURL(r *http.Request) models.Query {
	v := r.URL.Query()
	return models.Query{
		HotelID:   v.Get("hotelId"),
		StartDate: v.Get("startDate"),
		EndDate:   v.Get("endDate"),
		RoomType:  v.Get("roomType"),
	}
}

// writeCheckError maps validation errors to 400 (404 for an unknown hotel)
// and anything else to 500.
func writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	var verr availability.ValidationError
	if !errors.As(err, &verr) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("availability check failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	statusCode := http.StatusBadRequest
	if errors.Is(err, availability.ErrUnknownHotel) {
		statusCode = http.StatusNotFound
	}

	resp := errorResponse{Error: verr.Error(), Code: verr.Code()}
	var rtErr *availability.InvalidRoomTypeError
	if errors.As(err, &rtErr) {
		resp.ValidRoomTypes = rtErr.ValidCodes
	}
	writeJSON(w, statusCode, resp)
}
