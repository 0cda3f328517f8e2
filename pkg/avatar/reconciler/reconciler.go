package reconciler

import (
	"context"
	"log/slog"

	"facelink/hermes/pkg/avatar"
)

// Stats counts the work performed by one synchronization pass.
type Stats struct {
	// Desired is the number of desired parameters in the pass.
	Desired int

	// Created counts upserts for names absent from the remote set.
	Created int

	// Updated counts upserts for names already present remotely.
	Updated int
}

// Reconciler issues parameter operations against an avatar endpoint
// through a Transport.
type Reconciler struct {
	transport avatar.Transport
	logger    *slog.Logger
}

// New creates a Reconciler over the given transport.
func New(transport avatar.Transport, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		transport: transport,
		logger:    logger.With("component", "avatar.reconciler"),
	}
}

// CurrentParameters fetches the endpoint's parameter list, merging every
// category the endpoint reports into one flat collection. The result is
// empty when the endpoint has no parameters.
func (r *Reconciler) CurrentParameters(ctx context.Context) ([]avatar.Parameter, error) {
	var list avatar.ParameterListResponse
	if err := r.transport.Send(ctx, avatar.MessageTypeParameterList, nil, &list); err != nil {
		return nil, err
	}

	merged := make([]avatar.Parameter, 0, len(list.DefaultParameters)+len(list.CustomParameters))
	merged = append(merged, list.DefaultParameters...)
	merged = append(merged, list.CustomParameters...)
	return merged, nil
}

// Create registers a new parameter on the endpoint. The wire message is
// the same upsert used by Update; the difference exists only in the
// caller's intent.
func (r *Reconciler) Create(ctx context.Context, parameter avatar.Parameter) error {
	return r.upsert(ctx, parameter)
}

// Update pushes new bounds, default, and value for an existing
// parameter. See Create for the wire semantics.
func (r *Reconciler) Update(ctx context.Context, parameter avatar.Parameter) error {
	return r.upsert(ctx, parameter)
}

// upsert issues the shared create-or-update message. Transport and
// endpoint failures (including "already exists" conflicts) propagate
// unchanged.
func (r *Reconciler) upsert(ctx context.Context, parameter avatar.Parameter) error {
	request := avatar.ParameterCreationRequest{
		ParameterName: parameter.Name,
		Min:           parameter.Min,
		Max:           parameter.Max,
		DefaultValue:  parameter.DefaultValue,
		Value:         parameter.Value,
	}

	var response avatar.ParameterCreationResponse
	return r.transport.Send(ctx, avatar.MessageTypeParameterCreation, request, &response)
}

// Delete removes a custom parameter by name. Failures propagate
// unchanged.
func (r *Reconciler) Delete(ctx context.Context, name string) error {
	request := avatar.ParameterDeletionRequest{ParameterName: name}

	var response avatar.ParameterDeletionResponse
	return r.transport.Send(ctx, avatar.MessageTypeParameterDeletion, request, &response)
}

// Synchronize makes the endpoint's parameter set cover the desired list.
// Each desired parameter is upserted sequentially in list order: Update
// when its name exists remotely, Create when it does not. Remote
// parameters absent from desired are left untouched.
//
// On any failure the error is logged once, with its message, and
// returned for the caller to act on; the returned Stats reflect the work
// completed before the failure. A nil error means every upsert
// succeeded.
func (r *Reconciler) Synchronize(ctx context.Context, desired []avatar.Parameter) (Stats, error) {
	stats := Stats{Desired: len(desired)}

	current, err := r.CurrentParameters(ctx)
	if err != nil {
		r.logger.Error("parameter synchronization failed", "error", err.Error())
		return stats, err
	}

	existing := make(map[string]struct{}, len(current))
	for _, parameter := range current {
		existing[parameter.Name] = struct{}{}
	}

	for _, parameter := range desired {
		if _, ok := existing[parameter.Name]; ok {
			if err := r.Update(ctx, parameter); err != nil {
				r.logger.Error("parameter synchronization failed", "error", err.Error())
				return stats, err
			}
			stats.Updated++
			continue
		}

		if err := r.Create(ctx, parameter); err != nil {
			r.logger.Error("parameter synchronization failed", "error", err.Error())
			return stats, err
		}
		stats.Created++
	}

	r.logger.Debug("parameters synchronized",
		"desired", stats.Desired,
		"created", stats.Created,
		"updated", stats.Updated,
	)

	return stats, nil
}

// InjectValues pushes live values for the given parameters without
// touching their registration. Used between reconciliation passes.
func (r *Reconciler) InjectValues(ctx context.Context, parameters []avatar.Parameter) error {
	if len(parameters) == 0 {
		return nil
	}

	values := make([]avatar.ParameterValue, 0, len(parameters))
	for _, parameter := range parameters {
		values = append(values, avatar.ParameterValue{ID: parameter.Name, Value: parameter.Value})
	}

	request := avatar.InjectParameterDataRequest{ParameterValues: values}
	return r.transport.Send(ctx, avatar.MessageTypeInjectParameterData, request, nil)
}
