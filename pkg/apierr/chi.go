package apierr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskflow-labs/taskflow/pkg/envelope"
	"github.com/taskflow-labs/taskflow/pkg/hlog"
)

type responseReceiverKey struct{}

type responseReceiver struct {
	response any
	status   int
	err      error
}

func contextWithResponseReceiver(ctx context.Context, rr *responseReceiver) context.Context {
	return context.WithValue(ctx, responseReceiverKey{}, rr)
}

func responseReceiverFromContext(ctx context.Context) *responseReceiver {
	if rr, ok := ctx.Value(responseReceiverKey{}).(*responseReceiver); ok {
		return rr
	}
	return nil
}

// SetJSONResponse parks a response body to be written once the envelope
// middleware unwinds. The body is expected to already be an envelope.
func SetJSONResponse(ctx context.Context, response any) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.response = response
		rr.status = http.StatusOK
	}
}

// SetJSONCreated parks a response body to be written with 201 Created.
func SetJSONCreated(ctx context.Context, response any) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.response = response
		rr.status = http.StatusCreated
	}
}

func SetJSONError(ctx context.Context, err error) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.err = err
	}
}

func SetNewJSONError(ctx context.Context, code Code, msg string, err error) {
	SetJSONError(ctx, NewError(code, msg, err))
}

// NewEnvelopeChiMiddleware serializes exactly one envelope per request:
// whatever the handler parked via SetJSONResponse/SetJSONError. Handlers
// that wrote the response themselves park nothing and are left alone.
func NewEnvelopeChiMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rr := &responseReceiver{}
			ctx := contextWithResponseReceiver(r.Context(), rr)
			next.ServeHTTP(rw, r.WithContext(ctx))
			ExtractToHTTPResponse(ctx, rw, rr)
		})
	}
}

func ExtractToHTTPResponse(ctx context.Context, rw http.ResponseWriter, rr *responseReceiver) {
	if rr.err == nil {
		if rr.response == nil {
			// Nothing parked: the handler streamed or wrote directly.
			return
		}
		writeJSON(ctx, rw, rr.status, rr.response)
		return
	}
	if errors.Is(rr.err, context.Canceled) {
		WriteError(ctx, rw, NewError(Canceled, "connection closed", rr.err))
		return
	}

	hlog.AddError(ctx, rr.err)
	var aerr *Error
	if errors.As(rr.err, &aerr) {
		if aerr.Stack != "" {
			hlog.AddStack(ctx, aerr.Stack)
		}
		WriteError(ctx, rw, aerr)
		return
	}
	WriteError(ctx, rw, NewError(Unknown, "unknown error", rr.err))
}

// WriteError writes the envelope form of err directly to rw. Used by the
// middleware above and by raw (non-enveloped) handlers such as streaming
// endpoints that fail before the stream starts.
func WriteError(ctx context.Context, rw http.ResponseWriter, origErr *Error) {
	body := envelope.Err(origErr.WireCode(), origErr.Msg)
	writeJSON(ctx, rw, origErr.Code.HTTPCode(), body)
}

func writeJSON(ctx context.Context, rw http.ResponseWriter, status int, response any) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(response); err != nil {
		hlog.AddError(ctx, NewError(Internal, "server error", err))
		buf = bytes.NewBufferString(`{"success":false,"error":"INTERNAL_ERROR","message":"server error","timestamp":"","version":"` + envelope.Version + `"}`)
		status = http.StatusInternalServerError
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	if status == 0 {
		status = http.StatusOK
	}
	rw.WriteHeader(status)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		hlog.AddError(ctx, NewError(Internal, "server error", err))
	}
}
