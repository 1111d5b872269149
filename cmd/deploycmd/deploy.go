// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fujidao/fujideploy/cmd/flags"
	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/evm"
	"github.com/fujidao/fujideploy/pkg/models"
	"github.com/fujidao/fujideploy/pkg/networkoptions"
	"github.com/fujidao/fujideploy/pkg/orchestrator"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/utils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/crypto"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const defaultPlan = "core"

var (
	app *application.FujiDeploy

	networkFlags   networkoptions.NetworkFlags
	planFile       string
	reportJSONPath string
	progressMode   string
)

// ChainClient is the chain connection a deploy runs on
type ChainClient interface {
	evm.Submitter
	Close()
}

// dialChain connects to the rpc endpoint of [network], signing with [key]
var dialChain = func(
	ctx context.Context,
	log logging.Logger,
	network models.Network,
	key *ecdsa.PrivateKey,
) (ChainClient, error) {
	return evm.NewClient(ctx, log, network.Endpoint, key)
}

// fujideploy deploy
func NewCmd(injectedApp *application.FujiDeploy) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [plan]",
		Short: "Deploy and wire a bundle of contracts",
		Long: `The deploy command runs a deployment plan, built-in or read from a YAML
file, against the selected network. Steps run in the order the plan declares
them and the run stops at the first failure.

Contracts already recorded in the registry for the bundle, and still holding
code on chain, are reused rather than deployed again, so a failed run is
resumed by running the same plan again. Wiring calls are always re-issued.

The network guard refuses to send anything when the plan declares another
network than the selected one, or when the rpc endpoint reports an unexpected
chain id.`,
		PreRunE: bindFlags,
		RunE:    deploy,
		Args:    cobrautils.MaximumNArgs(1),
	}
	app = injectedApp
	networkGroup := networkoptions.GetNetworkFlagsGroup(cmd, &networkFlags)
	chainGroup := flags.RegisterFlagGroup(cmd, "Chain Flags", "show-chain-flags", true, func(set *pflag.FlagSet) {
		set.String(constants.ConfigNetworkKey, "", "name of the network the plan runs on, custom names require --rpc-url")
		set.String(constants.ConfigRPCURLKey, "", "rpc endpoint of the network")
		set.String(constants.ConfigPrivateKeyKey, "", "deployer private key, hex encoded or a file holding it")
		set.Duration(constants.ConfigConfirmTimeoutKey, 0, "maximum time to wait for each transaction receipt")
	})
	inputGroup := flags.RegisterFlagGroup(cmd, "Input Flags", "show-input-flags", true, func(set *pflag.FlagSet) {
		set.StringVar(&planFile, "plan-file", "", "read the plan from this YAML file instead of a built-in plan")
		set.String(constants.ConfigArtifactsDirKey, "", "directory of the compiled contract artifacts")
		set.String(constants.ConfigLiteralsFileKey, "", "YAML file merged over the default literals")
		set.String(constants.ConfigRegistryBackendKey, "", "registry backend, file or leveldb")
	})
	outputGroup := flags.RegisterFlagGroup(cmd, "Output Flags", "show-output-flags", true, func(set *pflag.FlagSet) {
		set.StringVar(&reportJSONPath, "report-json", "", "also write the run report to this file")
		set.StringVar(&progressMode, "progress", spinnerProgressMode, fmt.Sprintf("step progress display, one of %v", progressModes))
	})
	cmd.SetHelpFunc(flags.WithGroupedHelp([]flags.GroupedFlags{networkGroup, chainGroup, inputGroup, outputGroup}))
	return cmd
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	return flags.BindToConfig(cmd,
		constants.ConfigNetworkKey,
		constants.ConfigRPCURLKey,
		constants.ConfigPrivateKeyKey,
		constants.ConfigConfirmTimeoutKey,
		constants.ConfigArtifactsDirKey,
		constants.ConfigLiteralsFileKey,
		constants.ConfigRegistryBackendKey,
	)
}

func loadPlan(args []string) (*plan.Plan, error) {
	if planFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("a plan name and --plan-file are mutually exclusive")
		}
		return app.LoadPlan(planFile)
	}
	name := defaultPlan
	if len(args) > 0 {
		name = args[0]
	}
	return app.LoadPlan(name)
}

func deploy(cmd *cobra.Command, args []string) error {
	p, err := loadPlan(args)
	if err != nil {
		return err
	}
	settings := app.Conf.Settings()
	network, err := networkoptions.GetNetworkFromCmdLineFlags(networkFlags, settings.Network, settings.RPCURL)
	if err != nil {
		return err
	}
	literals, err := app.LoadLiterals(settings.LiteralsFile, p.Bundle)
	if err != nil {
		return err
	}
	// checked before connecting, the orchestrator checks again with the
	// chain id of the endpoint
	if !network.Matches(p.Network) {
		return &clierrors.NetworkMismatchError{Expected: p.Network, Actual: network.Name}
	}
	if err := p.Validate(literals); err != nil {
		return err
	}
	progress, err := newStepProgress(progressMode, p)
	if err != nil {
		return err
	}
	key, err := evm.LoadPrivateKey(app.Fs, settings.PrivateKey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := dialChain(ctx, app.Log, network, key)
	if err != nil {
		return err
	}
	defer client.Close()
	deployerAddress := crypto.PubkeyToAddress(key.PublicKey)
	ux.Logger.PrintToUser("Deploying %s on %s from %s", p, network, deployerAddress.Hex())
	printBalance(ctx, client)

	reg, err := app.OpenRegistry(network.Name, settings.RegistryBackend)
	if err != nil {
		return err
	}
	defer reg.Close()
	printLastRun(network.Name, p.Bundle)
	ux.Logger.PrintLineSeparator()

	o := orchestrator.New(app.Log, orchestrator.Config{
		Network:        network,
		Submitter:      client,
		Registry:       reg,
		Artifacts:      app.NewArtifactStore(settings.ArtifactsDir),
		Literals:       literals,
		ConfirmTimeout: settings.ConfirmTimeout,
		Progress:       progress,
	})
	start := time.Now()
	report, runErr := o.Run(ctx, p)
	progress.Finish()
	if report == nil {
		return runErr
	}
	ux.Logger.PrintLineSeparator()
	printReport(report, time.Since(start))
	if err := writeReport(report, network.Name, p.Bundle, runErr); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// printBalance shows the deployer balance when the client can read it
func printBalance(ctx context.Context, client ChainClient) {
	balancer, ok := client.(interface {
		Balance(ctx context.Context) (*big.Int, error)
	})
	if !ok {
		return
	}
	balance, err := balancer.Balance(ctx)
	if err != nil {
		app.Log.Warn("failure reading deployer balance", zap.Error(err))
		return
	}
	ux.Logger.PrintToUser("Deployer balance: %s AVAX", utils.FormatAmount(balance, 18))
}

func printLastRun(network string, bundle string) {
	lastRun, err := app.ReadLastRunFile(network, bundle)
	if err != nil || lastRun == nil {
		return
	}
	finished := lastRun.Finished.Local().Format(time.DateTime)
	if lastRun.Succeeded {
		ux.Logger.PrintToUser("Last run of %s completed at %s", lastRun.Plan, finished)
		return
	}
	ux.Logger.YellowDotToUser("Last run of %s failed at %s on %s, resuming from the registry", lastRun.Plan, finished, lastRun.FailedStep)
}

func printReport(report *orchestrator.Report, elapsed time.Duration) {
	t := ux.DefaultTable(
		fmt.Sprintf("%s on %s", report.Bundle, report.Network),
		table.Row{"Step", "Kind", "Name", "State", "Address", "Txs", "Gas"},
	)
	for _, step := range report.Steps {
		address := ""
		if step.Address != nil {
			address = step.Address.Hex()
		}
		if step.Reused {
			address += " (reused)"
		}
		gas := ""
		if step.GasUsed > 0 {
			gas = ux.ConvertToStringWithThousandSeparator(step.GasUsed)
		}
		t.AppendRow(table.Row{step.Index + 1, step.Kind, step.Name, step.State, address, len(step.TxHashes), gas})
	}
	ux.Logger.PrintToUser("%s", t.Render())
	ux.Logger.PrintToUser("Deploy transactions: %d, wire transactions: %d, reused contracts: %d",
		report.DeployTxs, report.WireTxs, report.Reused)
	ux.Logger.PrintToUser("Gas used: %s in %s", ux.ConvertToStringWithThousandSeparator(report.GasUsed), ux.FormatDuration(elapsed))
	if report.Succeeded() {
		ux.Logger.GreenCheckmarkToUser("%s completed", report.Plan)
	} else {
		ux.Logger.RedXToUser("%s stopped: %s", report.Plan, report.Error)
	}
}

// writeReport stores the report next to the registry of [network], and at
// --report-json when given
func writeReport(report *orchestrator.Report, network string, bundle string, runErr error) error {
	reportPath := app.GetReportPath(network, bundle)
	if err := app.Fs.MkdirAll(app.GetRegistryDir(network), constants.DefaultPerms755); err != nil {
		return err
	}
	if err := report.WriteJSON(app.Fs, reportPath); err != nil {
		return fmt.Errorf("failure writing report: %w", err)
	}
	if reportJSONPath != "" {
		if err := report.WriteJSON(app.Fs, utils.ExpandHome(reportJSONPath)); err != nil {
			return fmt.Errorf("failure writing report: %w", err)
		}
		ux.Logger.PrintToUser("Report written to %s", reportJSONPath)
	}
	lastRun := &application.LastRun{
		Plan:       report.Plan,
		Bundle:     bundle,
		Network:    network,
		Finished:   time.Now().UTC(),
		Succeeded:  runErr == nil,
		ReportPath: reportPath,
	}
	var stepErr *clierrors.StepError
	if errors.As(runErr, &stepErr) {
		lastRun.FailedStep = fmt.Sprintf("step %d (%s)", stepErr.Index+1, stepErr.ID)
	}
	app.WriteLastRunFile(lastRun)
	return nil
}
