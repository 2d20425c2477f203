package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"mentions/pkg/filter"
	"mentions/pkg/models"
)

// MessageWriter publishes request log entries. *kafka.Writer satisfies it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var ErrNoFilter = errors.New("content filter is required")

type API struct {
	ServiceName string

	r    *mux.Router
	kw   MessageWriter
	cf   *filter.ContentFilter
	opts []filter.Option
}

// New wires the routes. kafkaWriter may be nil to disable request logs;
// opts are applied to every strategy built from PUT /strategy.
func New(name string, cf *filter.ContentFilter, kafkaWriter MessageWriter, opts ...filter.Option) (*API, error) {
	if cf == nil {
		return nil, ErrNoFilter
	}

	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		kw:          kafkaWriter,
		cf:          cf,
		opts:        opts,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/check", api.checkText).Methods(http.MethodPost)
	api.r.HandleFunc("/strategy", api.currentStrategy).Methods(http.MethodGet)
	api.r.HandleFunc("/strategy", api.updateStrategy).Methods(http.MethodPut)
}

func (api *API) checkText(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))
	defer r.Body.Close()

	var req models.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("[checkText][%s] failed to decode request body: %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		log.Warnf("[checkText][%s] invalid request: %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match := api.cf.FilterText(*req.Text)
	log.Debugf("[checkText][%s] match: %v", sID, match)

	if err := json.NewEncoder(w).Encode(models.CheckResponse{Match: match}); err != nil {
		log.Errorf("[checkText][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) currentStrategy(w http.ResponseWriter, r *http.Request) {
	resp := models.StrategyResponse{Strategy: strategyName(api.cf.Strategy())}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[currentStrategy][%s] failed to encode response: %v", shorten(GetRequestID(r.Context())), err)
	}
}

func (api *API) updateStrategy(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))
	defer r.Body.Close()

	var rules filter.Rules
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		log.Errorf("[updateStrategy][%s] failed to decode request body: %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	strategy, err := rules.Build(api.opts...)
	if err != nil {
		log.Warnf("[updateStrategy][%s] failed to build strategy: %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	api.cf.UpdateStrategy(strategy)
	log.Infof("[updateStrategy][%s] strategy switched to %s with %d patterns", sID, rules.Name(), len(rules.Patterns))

	if err := json.NewEncoder(w).Encode(models.StrategyResponse{Strategy: rules.Name()}); err != nil {
		log.Errorf("[updateStrategy][%s] failed to encode response: %v", sID, err)
	}
}

func strategyName(s filter.Strategy) string {
	switch s.(type) {
	case *filter.RegexStrategy:
		return filter.StrategyRegex
	case *filter.RegexKeywordNLPStrategy:
		return filter.StrategyRegexKeywordNLP
	default:
		return fmt.Sprintf("%T", s)
	}
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
