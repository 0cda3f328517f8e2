// Package avatar speaks the desktop avatar application's parameter API.
//
// The endpoint exposes a typed request/response protocol over a single
// websocket connection: every request is a JSON envelope carrying an
// apiName/apiVersion pair, a unique requestID, a messageType, and a
// message-specific data payload. Responses echo the requestID, which is
// how concurrent in-flight requests are correlated. An endpoint-reported
// failure arrives as an "APIError" message and surfaces as *APIError.
//
// Transport is the request/response abstraction the reconciler consumes;
// Client is the production websocket implementation. The supported
// message kinds cover listing the endpoint's input parameters, creating
// or updating a custom parameter (one upsert-style message), deleting a
// custom parameter, and injecting live parameter values.
package avatar
