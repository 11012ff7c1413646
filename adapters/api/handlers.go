package api

import (
	"encoding/json"
	"io"
	"net/http"

	"hypolab/app"
	"hypolab/domain/core"
	"hypolab/internal/errors"
)

const maxBodyBytes = 1 << 20

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req app.EvaluationRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.inference.Evaluate(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, resp)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	results, err := h.inference.EvaluateBatch(r.Context(), req.Requests)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, BatchResponse{Results: results})
}

func (h *Handler) handleOneProportion(w http.ResponseWriter, r *http.Request) {
	var req OneProportionRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.inference.OneProportion(r.Context(), req.Successes, req.Size, req.P0, req.Alternative, req.Alpha)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, result)
}

func (h *Handler) handleTwoProportion(w http.ResponseWriter, r *http.Request) {
	var req TwoProportionRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.inference.TwoProportion(r.Context(), req.SuccessesA, req.SizeA, req.SuccessesB, req.SizeB, req.Alternative, req.Alpha)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, result)
}

func (h *Handler) handleInterval(w http.ResponseWriter, r *http.Request) {
	var req IntervalRequest
	if !h.decode(w, r, &req) {
		return
	}
	ci, curve, err := h.inference.ConfidenceInterval(r.Context(), req.Summary, req.Confidence, req.Distribution)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, IntervalResponse{Interval: ci, Curve: curve})
}

func (h *Handler) handleBinomial(w http.ResponseWriter, r *http.Request) {
	var req BinomialRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.inference.BinomialProbability(r.Context(), req.Trials, req.P, req.K, req.Mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, ProbabilityResponse{Probability: p})
}

func (h *Handler) handleNormal(w http.ResponseWriter, r *http.Request) {
	var req NormalRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.inference.NormalProbability(r.Context(), req.X, req.Mu, req.Sigma)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, ProbabilityResponse{Probability: p})
}

func (h *Handler) handlePercentile(w http.ResponseWriter, r *http.Request) {
	var req PercentileRequest
	if !h.decode(w, r, &req) {
		return
	}
	x, err := h.inference.NormalPercentile(r.Context(), req.Q, req.Mu, req.Sigma)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, PercentileResponse{X: x})
}

func (h *Handler) handleErrorRates(w http.ResponseWriter, r *http.Request) {
	var req ErrorRatesRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Size == 0 {
		req.Size = 1
	}
	rates, err := h.inference.ErrorRates(r.Context(), req.NullMean, req.AltMean, req.Sigma, req.Size, req.Alternative, req.Alpha)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, rates)
}

func (h *Handler) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req CurveRequest
	if !h.decode(w, r, &req) {
		return
	}
	curve, err := h.inference.Curve(r.Context(), req.Result, req.Points)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, curve)
}

func (h *Handler) handleSimulation(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.inference.SimulateProportion(r.Context(), req.Seed, req.Size, req.TrueP, req.P0, req.Alternative, req.Alpha)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, result)
}

// decode reads a JSON body into v, answering 400 itself on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			err = errors.InvalidInput("request body is empty")
		} else if !core.IsInvalidParameter(err) {
			err = errors.InvalidInput("malformed JSON: " + err.Error())
		}
		h.writeError(w, r, err)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
		if code == "UNKNOWN" {
			code = errors.CodeInternalError
		}
		message = "internal error"
	}
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// respond writes a 200 JSON body, logging values that cannot be encoded
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v interface{}) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		h.logger.Error("%s %s: encode response: %v", r.Method, r.URL.Path, err)
	}
}

// internalErrorBody is sent when a response cannot be encoded
var internalErrorBody = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal error"}}` + "\n")

// writeJSON encodes v before committing the status, so a value json cannot
// represent (NaN, ±Inf) turns into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	body, err := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(internalErrorBody)
		return err
	}
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
	return nil
}
