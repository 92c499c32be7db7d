package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iwvelando/loan-estimate/internal/config"
	"github.com/iwvelando/loan-estimate/internal/metrics"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/loans"
	"github.com/iwvelando/loan-estimate/pkg/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BatchIDHeader carries the identifier assigned to each computed batch.
const BatchIDHeader = "X-Batch-ID"

type handler struct {
	logger        *zap.Logger
	engine        *scenario.Engine
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the scenario API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, requestTimeout time.Duration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if requestTimeout <= 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		engine:        scenario.NewEngine(logger),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/scenarios", h.handleScenarios)
		r.Post("/schedule", h.handleSchedule)
		r.Post("/config", h.handleConfig)
		r.Post("/config/export", h.handleConfigExport)
	})

	return r
}

// scenarioPayload is one scenario in the configuration file layout plus an
// optional closing cost policy. Without one the built-in catalog applies.
type scenarioPayload struct {
	config.Scenario
	Common *config.Common `json:"common,omitempty"`
}

type schedulePayload struct {
	scenarioPayload
	DownPayment decimal.Decimal   `json:"downPayment"`
	Rate        config.RateOption `json:"rate"`
}

type scenarioResponse struct {
	BatchID  string          `json:"batchId"`
	Name     string          `json:"name,omitempty"`
	Batch    *scenario.Batch `json:"batch"`
	Duration string          `json:"duration"`
}

type scheduleResponse struct {
	Result   scenario.Result `json:"result"`
	Schedule []loans.Payment `json:"schedule"`
	Duration string          `json:"duration"`
}

type configResponse struct {
	BatchID    string                 `json:"batchId"`
	Estimates  []configEstimate       `json:"estimates"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type configEstimate struct {
	Name  string          `json:"name"`
	Batch *scenario.Batch `json:"batch,omitempty"`
	Error *errorResponse  `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	start := time.Now()

	var payload scenarioPayload
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}

	req, err := payload.toRequest()
	if err != nil {
		h.respondScenarioError(w, r, err, op)
		return
	}

	batch, err := h.engine.Build(req)
	if err != nil {
		h.respondScenarioError(w, r, err, op)
		return
	}
	metrics.ObserveBatch(batch)

	batchID := uuid.NewString()
	elapsed := time.Since(start)
	h.logger.Info("scenario batch computed",
		zap.String("op", op),
		zap.String("batchId", batchID),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("results", len(batch.Results)),
		zap.Duration("duration", elapsed),
	)

	w.Header().Set(BatchIDHeader, batchID)
	h.writeJSON(w, http.StatusOK, scenarioResponse{
		BatchID:  batchID,
		Name:     payload.Name,
		Batch:    batch,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	start := time.Now()

	var payload schedulePayload
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}

	req, err := payload.toRequest()
	if err != nil {
		h.respondScenarioError(w, r, err, op)
		return
	}

	result, schedule, err := h.engine.Schedule(req, payload.DownPayment, payload.Rate.Option())
	if err != nil {
		h.respondScenarioError(w, r, err, op)
		return
	}
	if schedule == nil {
		schedule = []loans.Payment{}
	}

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Result:   result,
		Schedule: schedule,
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfig"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	active := cfg.ActiveScenarios()
	estimates := make([]configEstimate, 0, len(active))
	rendered := make([]output.Estimate, 0, len(active))
	for _, s := range active {
		estimate := configEstimate{Name: s.Name}
		batch, err := h.buildScenario(s, cfg.Common)
		if err != nil {
			estimate.Error = newErrorResponse(err)
		} else {
			estimate.Batch = batch
			rendered = append(rendered, output.Estimate{Name: s.Name, Batch: batch})
		}
		estimates = append(estimates, estimate)
	}

	csv, err := output.CsvString(rendered)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	batchID := uuid.NewString()
	elapsed := time.Since(start)
	h.logger.Info("configuration estimates computed",
		zap.String("op", op),
		zap.String("batchId", batchID),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("scenarios", len(estimates)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	w.Header().Set(BatchIDHeader, batchID)
	h.writeJSON(w, http.StatusOK, configResponse{
		BatchID:    batchID,
		Estimates:  estimates,
		CSV:        csv,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	})
}

func (h *handler) buildScenario(s config.Scenario, common config.Common) (*scenario.Batch, error) {
	req, err := s.ToRequest(common)
	if err != nil {
		return nil, err
	}
	batch, err := h.engine.Build(req)
	if err != nil {
		return nil, err
	}
	metrics.ObserveBatch(batch)
	return batch, nil
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// toRequest enforces the API option limits and converts the payload into an
// engine request.
func (p scenarioPayload) toRequest() (scenario.Request, error) {
	if len(p.DownPayments) > constants.MaxScenarioOptions {
		return scenario.Request{}, &scenario.Error{
			Kind:    scenario.KindInvalidInput,
			Field:   "downPayments",
			Message: fmt.Sprintf("at most %d down payment options are accepted, got %d", constants.MaxScenarioOptions, len(p.DownPayments)),
		}
	}
	if len(p.Rates) > constants.MaxScenarioOptions {
		return scenario.Request{}, &scenario.Error{
			Kind:    scenario.KindInvalidInput,
			Field:   "rates",
			Message: fmt.Sprintf("at most %d rate options are accepted, got %d", constants.MaxScenarioOptions, len(p.Rates)),
		}
	}

	var common config.Common
	if p.Common != nil {
		common = *p.Common
	}
	return p.Scenario.ToRequest(common)
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		metrics.ObserveRejection(scenario.KindInvalidInput)
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "common", "scenarios"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func newErrorResponse(err error) *errorResponse {
	resp := &errorResponse{Error: err.Error()}
	var scenarioErr *scenario.Error
	if errors.As(err, &scenarioErr) {
		resp.Kind = string(scenarioErr.Kind)
		resp.Field = scenarioErr.Field
	}
	return resp
}

// statusForKind maps engine error kinds onto HTTP status codes.
func statusForKind(kind scenario.Kind) int {
	switch kind {
	case scenario.KindInvalidInput:
		return http.StatusBadRequest
	case scenario.KindConfiguration:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handler) respondScenarioError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := http.StatusInternalServerError
	var scenarioErr *scenario.Error
	if errors.As(err, &scenarioErr) {
		status = statusForKind(scenarioErr.Kind)
		metrics.ObserveRejection(scenarioErr.Kind)
	}

	h.logError(r, status, err.Error(), op)
	h.writeJSON(w, status, newErrorResponse(err))
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logError(r, status, msg, op)
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) logError(r *http.Request, status int, msg string, op string) {
	h.logger.Error("scenario request failed",
		zap.String("op", op),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
