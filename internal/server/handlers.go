package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/converter"
	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/internal/storage"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawValue := strings.TrimSpace(q.Get("value"))
	if rawValue == "" {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("value %q is not a number", rawValue))
		return
	}
	req := domain.ConversionRequest{Value: value, FromUnit: q.Get("fromUnit"), ToUnit: q.Get("toUnit")}
	if req.FromUnit == "" || req.ToUnit == "" {
		writeError(w, http.StatusBadRequest, "fromUnit and toUnit are required")
		return
	}

	from, err := converter.ParseUnit(req.FromUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := converter.ParseUnit(req.ToUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := storage.CacheKey(value, from, to)
	if cached, found, err := s.store.Lookup(key); err != nil {
		s.log.WarnObj("conversion cache lookup failed", "cache_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	} else if found {
		s.metrics.CacheHit()
		writeJSON(w, http.StatusOK, cached)
		return
	}

	res, err := s.conv.ConvertRequest(req)
	if err != nil {
		s.writeConversionError(w, err)
		return
	}
	s.metrics.Conversion(res.OriginalUnit, res.TargetUnit)

	if err := s.store.Save(key, res); err != nil {
		s.log.WarnObj("conversion cache save failed", "cache_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConvertBulk(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkConversionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	results := make([]domain.ConversionResult, 0, len(req.Conversions))
	for i, c := range req.Conversions {
		res, err := s.conv.ConvertRequest(c)
		if err != nil {
			s.writeConversionError(w, fmt.Errorf("conversions[%d]: %w", i, err))
			return
		}
		results = append(results, res)
	}
	for _, res := range results {
		s.metrics.Conversion(res.OriginalUnit, res.TargetUnit)
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	ranges := s.conv.SupportedUnits()
	out := make([]domain.UnitInfo, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, domain.UnitInfo{
			Unit:         r.Unit.String(),
			MinimumValue: r.Minimum,
			MaximumValue: r.Maximum,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Healthy"))
}

// writeConversionError maps converter failures to 400 and anything unexpected to 500.
func (s *Server) writeConversionError(w http.ResponseWriter, err error) {
	if errors.Is(err, converter.ErrUnsupportedUnit) || errors.Is(err, converter.ErrOutOfRange) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.ErrorObj("conversion failed", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Error: msg})
}
