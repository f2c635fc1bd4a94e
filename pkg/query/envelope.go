package query

import (
	"context"
	"encoding/json"
)

// RequestEnvelope is the HTTP-style wrapper a request arrives in: the
// actual RouteRequest is carried as a stringified JSON body, matching
// the reference Lambda event shape.
type RequestEnvelope struct {
	Body string `json:"body"`
}

// ResponseEnvelope is the corresponding wrapper for the response.
type ResponseEnvelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type errorBody struct {
	Error string `json:"Error"`
}

// Handle decodes a request envelope, runs the routing pipeline, and
// encodes a response envelope. It never returns a Go error: any failure,
// expected or not, becomes an error response envelope with the
// appropriate status code instead.
func (o *Orchestrator) Handle(ctx context.Context, eventJSON []byte) []byte {
	var env RequestEnvelope
	if err := json.Unmarshal(eventJSON, &env); err != nil {
		return errorEnvelope(&QueryError{Kind: InvalidArea, Message: "Malformed request envelope."})
	}

	var req RouteRequest
	if err := json.Unmarshal([]byte(env.Body), &req); err != nil {
		return errorEnvelope(&QueryError{Kind: InvalidArea, Message: "Malformed request body."})
	}

	fc, err := o.Route(ctx, &req)
	if err != nil {
		return errorEnvelope(err)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		return errorEnvelope(&QueryError{Kind: InternalError, Message: err.Error()})
	}

	resp := ResponseEnvelope{
		StatusCode: 200,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
			"Content-Type":                "application/geo+json",
		},
		Body: string(body),
	}
	out, _ := json.Marshal(resp)
	return out
}

// errorEnvelope encodes err as a response envelope. Every QueryError maps
// via its Kind; anything else is treated as InternalError.
func errorEnvelope(err error) []byte {
	qerr, ok := err.(*QueryError)
	if !ok {
		qerr = &QueryError{Kind: InternalError, Message: err.Error()}
	}

	body, _ := json.Marshal(errorBody{Error: qerr.Message})
	resp := ResponseEnvelope{
		StatusCode: qerr.Kind.StatusCode(),
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
	out, _ := json.Marshal(resp)
	return out
}
