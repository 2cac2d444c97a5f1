package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"lispy/client"
	"lispy/engine"
	"lispy/engine/operators"
	"lispy/engine/printer"
	"lispy/lib/timer"
	"lispy/lib/value"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the source accepted by /eval.
const maxBodyBytes = 1 << 20

type server struct {
	executor *engine.Executor
	logger   *zap.Logger
}

func (s server) setHandlers(router *mux.Router) {
	router.HandleFunc("/eval", s.Eval).Methods(http.MethodPost)
	router.HandleFunc("/operators", s.GetOperators).Methods(http.MethodGet)
	router.HandleFunc("/env", s.GetEnv).Methods(http.MethodGet)
}

func readRequest(w http.ResponseWriter, req *http.Request) ([]byte, error) {
	defer req.Body.Close()
	return ioutil.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Eval evaluates the request body against the shared root env. The
// response carries the rendered value of the last form; kind is empty for
// a define.
func (s server) Eval(w http.ResponseWriter, req *http.Request) {
	ctx := timer.WithTracing(req.Context())
	data, err := readRequest(w, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("failed to read request", zap.Error(err))
		return
	}
	timer.Mark(ctx, "request")

	var out bytes.Buffer
	ret, err := s.executor.ExecTo(ctx, string(data), &out)
	defer timer.LogTracingInfo(ctx, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, client.ErrorResponse{
			Error:  err.Error(),
			Kind:   value.Kind(err),
			Output: out.String(),
		})
		return
	}
	resp := client.EvalResponse{Output: out.String()}
	if v, ok := ret.Get(); ok {
		resp.Result = printer.Render(v)
		resp.Pretty = printer.Pretty(v)
		resp.Kind = value.TypeName(v)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s server) GetOperators(w http.ResponseWriter, req *http.Request) {
	data, err := operators.GetOperatorsJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Error("failed to list operators", zap.Error(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// GetEnv lists every root binding with its rendered value.
func (s server) GetEnv(w http.ResponseWriter, req *http.Request) {
	names := s.executor.Names()
	env := make(map[string]string, len(names))
	for _, name := range names {
		v, err := s.executor.Lookup(name)
		if err != nil {
			// dropped by a concurrent reset
			continue
		}
		env[name] = printer.Render(v)
	}
	writeJSON(w, http.StatusOK, env)
}
