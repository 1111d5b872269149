// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orchestrator runs a deployment plan: it guards the network,
// validates the plan, then executes every step in declared order and stops
// at the first failure.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/fujidao/fujideploy/pkg/artifacts"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/deployer"
	"github.com/fujidao/fujideploy/pkg/evm"
	"github.com/fujidao/fujideploy/pkg/models"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/registry"
	"github.com/fujidao/fujideploy/pkg/statemachine"
	"github.com/fujidao/fujideploy/pkg/wiring"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"go.uber.org/zap"
)

type Config struct {
	Network        models.Network
	Submitter      evm.Submitter
	Registry       registry.Registry
	Artifacts      artifacts.Source
	Literals       plan.Literals
	ConfirmTimeout time.Duration
	Progress       Progress
}

type Orchestrator struct {
	log logging.Logger
	cfg Config
}

func New(log logging.Logger, cfg Config) *Orchestrator {
	if cfg.Progress == nil {
		cfg.Progress = NoProgress{}
	}
	if cfg.Literals == nil {
		cfg.Literals = plan.Literals{}
	}
	return &Orchestrator{log: log, cfg: cfg}
}

// run is the state of one execution of a plan
type run struct {
	*Orchestrator
	plan     *plan.Plan
	report   *Report
	states   *statemachine.StateMachine
	handles  map[string]deployer.ContractHandle
	deployer *deployer.Deployer
	executor *wiring.Executor
}

// Run executes [p]. Nothing is sent when the network guard or the plan
// validation fails. Otherwise steps run in order until one fails; steps
// before it stay applied and recorded, steps after it never run. The
// returned error is a *clierrors.StepError for step failures.
func (o *Orchestrator) Run(ctx context.Context, p *plan.Plan) (*Report, error) {
	if p == nil {
		return nil, clierrors.NewPlanError("", "plan is nil")
	}
	report := newReport(p, o.cfg.Network.Name)
	fail := func(err error) (*Report, error) {
		report.Error = err.Error()
		return report, err
	}

	if err := CheckNetwork(ctx, p.Network, o.cfg.Network, o.cfg.Submitter); err != nil {
		return fail(err)
	}
	if err := p.Validate(o.cfg.Literals); err != nil {
		return fail(err)
	}
	states, err := statemachine.NewStateMachine(len(p.Steps))
	if err != nil {
		return fail(err)
	}
	unlock, err := o.cfg.Registry.Lock(p.Bundle)
	if err != nil {
		return fail(err)
	}

	r := &run{
		Orchestrator: o,
		plan:         p,
		report:       report,
		states:       states,
		handles:      map[string]deployer.ContractHandle{},
		deployer: deployer.New(
			o.log,
			o.cfg.Submitter,
			o.cfg.Registry,
			o.cfg.Artifacts,
			p.Bundle,
			o.cfg.Network.Name,
			o.cfg.ConfirmTimeout,
		),
		executor: wiring.New(o.log, o.cfg.Submitter, o.cfg.Artifacts, o.cfg.ConfirmTimeout),
	}
	o.log.Info("running plan",
		zap.String("plan", p.Name),
		zap.String("bundle", p.Bundle),
		zap.String("network", o.cfg.Network.Name),
		zap.Int("steps", len(p.Steps)),
	)
	runErr := r.execute(ctx)
	if err := unlock(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		return fail(runErr)
	}
	return report, nil
}

func (r *run) execute(ctx context.Context) error {
	for i, step := range r.plan.Steps {
		if err := r.states.Start(i); err != nil {
			return err
		}
		r.setState(i)
		r.cfg.Progress.StepStarted(i, step)

		var err error
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			switch {
			case step.Deploy != nil:
				err = r.deploy(ctx, i, step.Deploy)
			case step.Wire != nil:
				err = r.wire(ctx, i, step.Wire)
			}
		}
		if err != nil {
			_ = r.states.Fail(i)
			r.setState(i)
			r.report.Steps[i].Error = err.Error()
			r.cfg.Progress.StepFailed(i, step, err)
			r.log.Error("step failed",
				zap.Int("step", i+1),
				zap.String("id", step.ID()),
				zap.Error(err),
			)
			return &clierrors.StepError{Index: i, ID: step.ID(), Err: err}
		}
		if err := r.states.Complete(i); err != nil {
			return err
		}
		r.setState(i)
		r.cfg.Progress.StepDone(i, step, r.report.Steps[i])
	}
	return nil
}

func (r *run) setState(i int) {
	if state, err := r.states.State(i); err == nil {
		r.report.Steps[i].State = state
	}
}

func (r *run) handle(logicalName string) (common.Address, bool) {
	h, ok := r.handles[logicalName]
	return h.Address, ok
}

func (r *run) resolve(i int, values []plan.Value) ([]any, error) {
	resolved, err := plan.ResolveAll(values, r.handle, r.cfg.Literals)
	if err != nil {
		return nil, clierrors.NewPlanError(plan.StepLabel(i, r.plan.Steps[i]), "%s", err)
	}
	return resolved, nil
}

func (r *run) deploy(ctx context.Context, i int, step *plan.DeployStep) error {
	args, err := r.resolve(i, step.Args)
	if err != nil {
		return err
	}
	h, err := r.deployer.Deploy(ctx, deployer.Request{
		LogicalName: step.LogicalName,
		Contract:    step.ContractName(),
		Args:        args,
	})
	if err != nil {
		return err
	}
	r.handles[step.LogicalName] = h
	address := h.Address
	r.report.Steps[i].Address = &address
	r.report.Steps[i].Reused = h.Reused
	if h.Reused {
		r.report.Reused++
	} else {
		r.report.DeployTxs++
		r.report.GasUsed += h.GasUsed
		r.report.Steps[i].TxHashes = []common.Hash{h.TxHash}
		r.report.Steps[i].GasUsed = h.GasUsed
	}
	return nil
}

func (r *run) wire(ctx context.Context, i int, step *plan.WireStep) error {
	target, ok := r.handles[step.Target]
	if !ok {
		return clierrors.NewPlanError("", "no handle produced for %q", step.Target)
	}
	calls := make([]wiring.Call, 0, len(step.Calls))
	for _, call := range step.Calls {
		args, err := r.resolve(i, call.Args)
		if err != nil {
			return err
		}
		calls = append(calls, wiring.Call{Method: call.Method, Args: args})
	}
	result, err := r.executor.Execute(ctx, target, step.Action, calls)
	r.report.WireTxs += len(result.TxHashes)
	r.report.GasUsed += result.GasUsed
	r.report.Steps[i].TxHashes = result.TxHashes
	r.report.Steps[i].GasUsed = result.GasUsed
	address := target.Address
	r.report.Steps[i].Address = &address
	return err
}
