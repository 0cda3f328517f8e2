package avatar

import (
	"context"
	"encoding/json"
)

// MessageType identifies a request or response kind on the wire.
type MessageType string

const (
	// MessageTypeParameterList requests the endpoint's full input
	// parameter list.
	MessageTypeParameterList MessageType = "InputParameterListRequest"

	// MessageTypeParameterCreation creates a custom parameter or, when
	// the name already exists, updates its bounds and default. One wire
	// message serves both intents.
	MessageTypeParameterCreation MessageType = "ParameterCreationRequest"

	// MessageTypeParameterDeletion deletes a custom parameter by name.
	MessageTypeParameterDeletion MessageType = "ParameterDeletionRequest"

	// MessageTypeInjectParameterData pushes live values into existing
	// parameters.
	MessageTypeInjectParameterData MessageType = "InjectParameterDataRequest"

	// MessageTypeAuthenticationToken requests a reusable plugin token.
	MessageTypeAuthenticationToken MessageType = "AuthenticationTokenRequest"

	// MessageTypeAuthentication authenticates the session with a token.
	MessageTypeAuthentication MessageType = "AuthenticationRequest"

	// MessageTypeAPIError is the endpoint's error response kind.
	MessageTypeAPIError MessageType = "APIError"
)

// Transport is a typed request/response call to the avatar endpoint.
// Send marshals payload as the request data, waits for the correlated
// response, and unmarshals its data into response (which may be nil when
// the caller only cares about success). Endpoint-reported failures are
// returned as *APIError; connection-level failures as *TransportError.
type Transport interface {
	Send(ctx context.Context, messageType MessageType, payload any, response any) error
}

// envelope is the wire framing shared by requests and responses.
type envelope struct {
	APIName     string          `json:"apiName"`
	APIVersion  string          `json:"apiVersion"`
	RequestID   string          `json:"requestID"`
	MessageType MessageType     `json:"messageType"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// Parameter is one avatar input parameter: its name, bounds, default,
// and current value. Name is the identity used for reconciliation.
type Parameter struct {
	Name         string  `json:"name"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	DefaultValue float64 `json:"defaultValue"`
	Value        float64 `json:"value"`
}

// ParameterListResponse reports the endpoint's parameters, split into
// the categories the endpoint distinguishes.
type ParameterListResponse struct {
	DefaultParameters []Parameter `json:"defaultParameters"`
	CustomParameters  []Parameter `json:"customParameters"`
}

// ParameterCreationRequest is the upsert message: it creates the named
// parameter or updates it when it already exists.
type ParameterCreationRequest struct {
	ParameterName string  `json:"parameterName"`
	Explanation   string  `json:"explanation,omitempty"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	DefaultValue  float64 `json:"defaultValue"`
	Value         float64 `json:"value"`
}

// ParameterCreationResponse acknowledges an upsert.
type ParameterCreationResponse struct {
	ParameterName string `json:"parameterName"`
}

// ParameterDeletionRequest deletes a custom parameter by name.
type ParameterDeletionRequest struct {
	ParameterName string `json:"parameterName"`
}

// ParameterDeletionResponse acknowledges a deletion.
type ParameterDeletionResponse struct {
	ParameterName string `json:"parameterName"`
}

// ParameterValue is one live value in an injection request.
type ParameterValue struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// InjectParameterDataRequest pushes live values into parameters.
type InjectParameterDataRequest struct {
	ParameterValues []ParameterValue `json:"parameterValues"`
}

// AuthenticationTokenRequest asks the endpoint for a reusable token.
// The endpoint typically prompts its operator to approve the plugin.
type AuthenticationTokenRequest struct {
	PluginName      string `json:"pluginName"`
	PluginDeveloper string `json:"pluginDeveloper"`
}

// AuthenticationTokenResponse carries the granted token.
type AuthenticationTokenResponse struct {
	AuthenticationToken string `json:"authenticationToken"`
}

// AuthenticationRequest authenticates the current session.
type AuthenticationRequest struct {
	PluginName          string `json:"pluginName"`
	PluginDeveloper     string `json:"pluginDeveloper"`
	AuthenticationToken string `json:"authenticationToken"`
}

// AuthenticationResponse reports whether the session is authenticated.
type AuthenticationResponse struct {
	Authenticated bool   `json:"authenticated"`
	Reason        string `json:"reason,omitempty"`
}
