package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

// CtxCallerUID is a context key for the authenticated caller of a request
type CtxCallerUID struct{}

// ContextFromHTTPRequest derives a fresh context carrying the trace-id for
// log correlation and the caller identity as resolved by the identity proxy.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	ctx := context.WithValue(context.Background(), CtxTraceContext{}, trace)
	ctx = context.WithValue(ctx, CtxCallerUID{}, callerFromHTTPRequest(r))

	return ctx
}

// callerFromHTTPRequest extracts the already-authenticated user identity.
// IAP (and the App Engine login service) inject this header after having
// verified the user; an empty result means an anonymous caller.
func callerFromHTTPRequest(r *http.Request) string {
	caller := r.Header.Get("X-Goog-Authenticated-User-Email")

	// Header value is of the form "accounts.google.com:name@example.com"
	if idx := strings.LastIndex(caller, ":"); idx >= 0 {
		caller = caller[idx+1:]
	}

	return caller
}

// CallerUID returns the authenticated caller stored in the context, or ""
// when the request was anonymous.
func CallerUID(c context.Context) string {
	caller, ok := c.Value(CtxCallerUID{}).(string)
	if !ok {
		return ""
	}
	return caller
}

// WithCallerUID is used by tests to simulate an authenticated caller.
func WithCallerUID(c context.Context, callerUID string) context.Context {
	return context.WithValue(c, CtxCallerUID{}, callerUID)
}
