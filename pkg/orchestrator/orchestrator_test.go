// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator_test

import (
	"context"
	"time"

	"github.com/fujidao/fujideploy/internal/testutils"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/config"
	"github.com/fujidao/fujideploy/pkg/models"
	"github.com/fujidao/fujideploy/pkg/orchestrator"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/registry"
	"github.com/fujidao/fujideploy/pkg/statemachine"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/spf13/afero"
)

const registryDir = "/base/deployments/fuji"

type recordingProgress struct {
	started []int
	done    []int
	failed  []int
}

func (p *recordingProgress) StepStarted(i int, _ plan.Step) {
	p.started = append(p.started, i)
}

func (p *recordingProgress) StepDone(i int, _ plan.Step, _ orchestrator.StepReport) {
	p.done = append(p.done, i)
}

func (p *recordingProgress) StepFailed(i int, _ plan.Step, _ error) {
	p.failed = append(p.failed, i)
}

type env struct {
	chain    *testutils.Chain
	fs       afero.Fs
	registry *registry.FileRegistry
	progress *recordingProgress
	network  models.Network
	literals plan.Literals
	abis     map[string]string
}

func newEnv() *env {
	fs := afero.NewMemMapFs()
	return &env{
		chain:    testutils.NewChain(int64(models.FujiChainID)),
		fs:       fs,
		registry: registry.NewFileRegistry(logging.NoLog{}, fs, registryDir),
		progress: &recordingProgress{},
		network:  models.NewFujiNetwork(),
		literals: plan.NewLiterals(map[string]any{"treasury": "0xe71fa402007FAD17dA769D1bBEfA6d0790fCe2c7"}),
		abis: map[string]string{
			"A": testutils.NoArgsABI,
			"B": testutils.DependentABI,
			"C": testutils.NoArgsABI,
		},
	}
}

func (e *env) run(p *plan.Plan) (*orchestrator.Report, error) {
	return e.runContext(context.Background(), p)
}

func (e *env) runContext(ctx context.Context, p *plan.Plan) (*orchestrator.Report, error) {
	o := orchestrator.New(logging.NoLog{}, orchestrator.Config{
		Network:        e.network,
		Submitter:      e.chain,
		Registry:       e.registry,
		Artifacts:      testutils.NewArtifactStore(ginkgo.GinkgoT(), e.abis),
		Literals:       e.literals,
		ConfirmTimeout: time.Second,
		Progress:       e.progress,
	})
	return o.Run(ctx, p)
}

func (e *env) recorded(name string) (common.Address, bool) {
	address, ok, err := e.registry.Get("core", name)
	gomega.Expect(err).Should(gomega.BeNil())
	return address, ok
}

func newPlan(steps ...plan.Step) *plan.Plan {
	return &plan.Plan{Name: "test", Bundle: "core", Network: "fuji", Steps: steps}
}

// [Deploy(A), Deploy(B, dep: A), Wire(B, "setDep", dep: A)]
func scenarioPlan() *plan.Plan {
	return newPlan(
		plan.NewDeploy("A", ""),
		plan.NewDeploy("B", "", plan.Ref("A")),
		plan.NewWire("B", "setDep", plan.NewCall("setDep(address)", plan.Ref("A"))),
	)
}

func states(report *orchestrator.Report) []statemachine.StepState {
	s := []statemachine.StepState{}
	for _, step := range report.Steps {
		s = append(s, step.State)
	}
	return s
}

var _ = ginkgo.Describe("[Orchestrator]", func() {
	var e *env

	ginkgo.BeforeEach(func() {
		e = newEnv()
	})

	ginkgo.Context("running the reference scenario", func() {
		ginkgo.It("deploys and wires on a fresh registry", func() {
			report, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.BeNil())

			gomega.Expect(e.chain.Deployments()).Should(gomega.Equal(2))
			gomega.Expect(e.chain.Calls()).Should(gomega.Equal(1))
			gomega.Expect(report.DeployTxs).Should(gomega.Equal(2))
			gomega.Expect(report.WireTxs).Should(gomega.Equal(1))
			gomega.Expect(report.Reused).Should(gomega.Equal(0))
			gomega.Expect(report.GasUsed).Should(gomega.Equal(uint64(3 * testutils.GasPerTx)))
			gomega.Expect(report.Succeeded()).Should(gomega.BeTrue())
			gomega.Expect(states(report)).Should(gomega.Equal([]statemachine.StepState{
				statemachine.Done, statemachine.Done, statemachine.Done,
			}))

			addressA, ok := e.recorded("A")
			gomega.Expect(ok).Should(gomega.BeTrue())
			addressB, ok := e.recorded("B")
			gomega.Expect(ok).Should(gomega.BeTrue())
			gomega.Expect(*report.Steps[0].Address).Should(gomega.Equal(addressA))
			gomega.Expect(*report.Steps[1].Address).Should(gomega.Equal(addressB))

			// B was constructed with, then wired to, the address of A
			gomega.Expect(string(e.chain.Txs()[1].Data())).Should(gomega.HaveSuffix(string(addressA.Bytes())))
			wires := e.chain.CallsTo(addressB)
			gomega.Expect(wires).Should(gomega.HaveLen(1))
			gomega.Expect(string(wires[0])).Should(gomega.HaveSuffix(string(addressA.Bytes())))

			gomega.Expect(e.progress.started).Should(gomega.Equal([]int{0, 1, 2}))
			gomega.Expect(e.progress.done).Should(gomega.Equal([]int{0, 1, 2}))
			gomega.Expect(e.progress.failed).Should(gomega.BeEmpty())
		})

		ginkgo.It("re-issues only the wiring when run again", func() {
			first, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.BeNil())

			second, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(second.DeployTxs).Should(gomega.Equal(0))
			gomega.Expect(second.WireTxs).Should(gomega.Equal(1))
			gomega.Expect(second.Reused).Should(gomega.Equal(2))
			gomega.Expect(second.Steps[0].Reused).Should(gomega.BeTrue())
			gomega.Expect(*second.Steps[1].Address).Should(gomega.Equal(*first.Steps[1].Address))

			gomega.Expect(e.chain.Deployments()).Should(gomega.Equal(2))
			gomega.Expect(e.chain.Calls()).Should(gomega.Equal(2))
		})

		ginkgo.It("writes a json report", func() {
			report, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(report.WriteJSON(e.fs, "/report.json")).Should(gomega.Succeed())
			data, err := afero.ReadFile(e.fs, "/report.json")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(string(data)).Should(gomega.ContainSubstring(`"deployTxs": 2`))
			gomega.Expect(string(data)).Should(gomega.ContainSubstring(`"state": "done"`))
		})
	})

	ginkgo.Context("rejecting a plan", func() {
		ginkgo.It("fails a forward reference before any transaction", func() {
			p := newPlan(
				plan.NewDeploy("B", "", plan.Ref("A")),
				plan.NewDeploy("A", ""),
			)
			report, err := e.run(p)
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrPlan))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
			gomega.Expect(states(report)).Should(gomega.Equal([]statemachine.StepState{
				statemachine.Pending, statemachine.Pending,
			}))
			gomega.Expect(report.Error).Should(gomega.ContainSubstring(`references "A"`))
			exists, _ := afero.Exists(e.fs, registryDir+"/core.json")
			gomega.Expect(exists).Should(gomega.BeFalse())
		})

		ginkgo.It("fails an unknown literal before any transaction", func() {
			p := newPlan(plan.NewDeploy("B", "", plan.Lit("router")))
			_, err := e.run(p)
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrPlan))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
		})

		ginkgo.It("refuses to run on another network", func() {
			e.network = models.NewLocalNetwork()
			_, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrNetworkMismatch))
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrPlan))
			var mismatch *clierrors.NetworkMismatchError
			gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(mismatch))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
		})

		ginkgo.It("refuses a chain reporting another chain id", func() {
			e.chain.ID.SetUint64(models.LocalChainID)
			_, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrNetworkMismatch))
			gomega.Expect(err.Error()).Should(gomega.ContainSubstring("chain id 43112"))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
		})

		ginkgo.It("checks only the name of a network without chain id", func() {
			e.network = models.NewCustomNetwork("Fuji", 0, "http://127.0.0.1:8545")
			e.chain.ID.SetUint64(1337)
			_, err := e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.BeNil())
		})

		ginkgo.It("refuses a bundle held by another run", func() {
			unlock, err := e.registry.Lock("core")
			gomega.Expect(err).Should(gomega.BeNil())
			defer unlock()
			_, err = e.run(scenarioPlan())
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrBundleLocked))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
		})
	})

	ginkgo.Context("failing mid plan", func() {
		longPlan := func() *plan.Plan {
			return newPlan(
				plan.NewDeploy("A", ""),
				plan.NewDeploy("B", "", plan.Ref("A")),
				plan.NewWire("B", "setDep", plan.NewCall("setDep(address)", plan.Ref("A"))),
				plan.NewDeploy("C", ""),
			)
		}

		ginkgo.It("keeps earlier steps and never runs later ones", func() {
			e.chain.RevertAt = 2
			report, err := e.run(longPlan())
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrDeployment))
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrTxReverted))
			var stepErr *clierrors.StepError
			gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(stepErr))
			gomega.Expect(err.Error()).Should(gomega.HavePrefix("step 2 (deploy B)"))

			gomega.Expect(states(report)).Should(gomega.Equal([]statemachine.StepState{
				statemachine.Done, statemachine.Failed, statemachine.Pending, statemachine.Pending,
			}))
			gomega.Expect(report.Steps[1].Error).ShouldNot(gomega.BeEmpty())
			gomega.Expect(e.progress.failed).Should(gomega.Equal([]int{1}))
			gomega.Expect(e.chain.Txs()).Should(gomega.HaveLen(2))

			_, ok := e.recorded("A")
			gomega.Expect(ok).Should(gomega.BeTrue())
			_, ok = e.recorded("B")
			gomega.Expect(ok).Should(gomega.BeFalse())
			_, ok = e.recorded("C")
			gomega.Expect(ok).Should(gomega.BeFalse())
		})

		ginkgo.It("resumes from the registry on the next run", func() {
			e.chain.RevertAt = 3
			_, err := e.run(longPlan())
			gomega.Expect(err).Should(gomega.MatchError(clierrors.ErrWiring))

			report, err := e.run(longPlan())
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(report.Reused).Should(gomega.Equal(2))
			gomega.Expect(report.DeployTxs).Should(gomega.Equal(1))
			gomega.Expect(report.WireTxs).Should(gomega.Equal(1))
			gomega.Expect(e.chain.Deployments()).Should(gomega.Equal(3))
		})

		ginkgo.It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			report, err := e.runContext(ctx, scenarioPlan())
			gomega.Expect(err).Should(gomega.MatchError(context.Canceled))
			gomega.Expect(report.Steps[0].State).Should(gomega.Equal(statemachine.Failed))
			gomega.Expect(e.chain.Txs()).Should(gomega.BeEmpty())
		})

		ginkgo.It("releases the bundle after a failure", func() {
			e.chain.RevertAt = 1
			_, err := e.run(scenarioPlan())
			gomega.Expect(err).ShouldNot(gomega.BeNil())
			unlock, err := e.registry.Lock("core")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(unlock()).Should(gomega.Succeed())
		})
	})

	ginkgo.Context("running the built-in core plan", func() {
		ginkgo.It("deploys every contract and issues every wiring call", func() {
			literalsFile := `
bundles:
  core:
    assets:
      AVAX: {address: "0x00000000000000000000000000000000000000a1", oracle: "0x00000000000000000000000000000000000000a2"}
      USDC: {address: "0x00000000000000000000000000000000000000b1", oracle: "0x00000000000000000000000000000000000000b2"}
      USDT: {address: "0x00000000000000000000000000000000000000c1", oracle: "0x00000000000000000000000000000000000000c2"}
`
			gomega.Expect(afero.WriteFile(e.fs, "/literals.yaml", []byte(literalsFile), 0o644)).Should(gomega.Succeed())
			literals, err := config.LoadLiterals(logging.NoLog{}, e.fs, "/literals.yaml", "core")
			gomega.Expect(err).Should(gomega.BeNil())
			e.literals = literals

			core, err := plan.Builtin("core")
			gomega.Expect(err).Should(gomega.BeNil())
			e.abis = map[string]string{"FujiOracle": testutils.OracleABI, "FujiVault": testutils.VaultABI}
			for _, step := range core.Steps {
				if step.Deploy != nil {
					if _, ok := e.abis[step.Deploy.ContractName()]; !ok {
						e.abis[step.Deploy.ContractName()] = testutils.NoArgsABI
					}
				}
			}

			report, err := e.run(core)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(report.DeployTxs).Should(gomega.Equal(core.DeployCount()))
			gomega.Expect(report.WireTxs).Should(gomega.Equal(core.WireCallCount()))
			gomega.Expect(e.chain.Deployments()).Should(gomega.Equal(12))
			gomega.Expect(e.chain.Calls()).Should(gomega.Equal(22))

			records, err := e.registry.List("core")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(records).Should(gomega.HaveLen(12))
		})
	})
})
