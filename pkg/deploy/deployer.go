package deploy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultBinary       = "aptos"
	defaultNamedAddress = "Staking"
	defaultPublishGas   = 1_000_000
	defaultPublishPrice = 100
)

type Config struct {
	Runner Runner
	// Binary is the toolchain executable. Defaults to "aptos".
	Binary string
	// PackageDir is the Move package directory commands run in.
	PackageDir   string
	NamedAddress string
	Contract     account.Address
	Logger       *zerolog.Logger
}

// PublishOptions are the publish-only flags.
type PublishOptions struct {
	PrivateKey   string
	NodeURL      string
	MaxGas       uint64
	GasUnitPrice uint64
}

type Deployer struct {
	runner       Runner
	binary       string
	dir          string
	namedAddress string
	contract     account.Address
	log          zerolog.Logger
}

// NewDeployer creates a new Deployer.
func NewDeployer(config Config) (*Deployer, error) {
	if config.Contract.IsZero() {
		return nil, shared.NewConfigurationError("new deployer", "", fmt.Errorf("contract address is required"))
	}
	runner := config.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	binary := strings.TrimSpace(config.Binary)
	if binary == "" {
		binary = defaultBinary
	}
	namedAddress := strings.TrimSpace(config.NamedAddress)
	if namedAddress == "" {
		namedAddress = defaultNamedAddress
	}
	return &Deployer{
		runner:       runner,
		binary:       binary,
		dir:          config.PackageDir,
		namedAddress: namedAddress,
		contract:     config.Contract,
		log:          shared.LoggerOrNop(config.Logger).With().Str("component", "deploy").Logger(),
	}, nil
}

func (d *Deployer) namedAddresses() []string {
	return []string{"--named-addresses", fmt.Sprintf("%s=%s", d.namedAddress, d.contract.String())}
}

func (d *Deployer) command(args ...string) Command {
	return Command{Name: d.binary, Args: args, Dir: d.dir}
}

// CompileCommand returns the command Compile runs.
func (d *Deployer) CompileCommand() Command {
	return d.command(append([]string{"move", "compile"}, d.namedAddresses()...)...)
}

// TestCommand returns the command Test runs.
func (d *Deployer) TestCommand() Command {
	return d.command(append([]string{"move", "test"}, d.namedAddresses()...)...)
}

// PublishCommand returns the command Publish runs.
func (d *Deployer) PublishCommand(options PublishOptions) (Command, error) {
	if strings.TrimSpace(options.PrivateKey) == "" {
		return Command{}, shared.NewConfigurationError("publish", d.contract.String(), fmt.Errorf("private key is required"))
	}
	if strings.TrimSpace(options.NodeURL) == "" {
		return Command{}, shared.NewConfigurationError("publish", d.contract.String(), fmt.Errorf("node URL is required"))
	}
	maxGas := options.MaxGas
	if maxGas == 0 {
		maxGas = defaultPublishGas
	}
	gasUnitPrice := options.GasUnitPrice
	if gasUnitPrice == 0 {
		gasUnitPrice = defaultPublishPrice
	}

	args := append([]string{"move", "publish"}, d.namedAddresses()...)
	args = append(args,
		"--private-key", options.PrivateKey,
		"--url", options.NodeURL,
		"--override-size-check",
		"--max-gas", strconv.FormatUint(maxGas, 10),
		"--included-artifacts", "none",
		"--gas-unit-price", strconv.FormatUint(gasUnitPrice, 10),
		"--assume-yes",
	)
	return d.command(args...), nil
}

func (d *Deployer) Compile(ctx context.Context) ([]byte, error) {
	return d.run(ctx, "compile", d.CompileCommand())
}

func (d *Deployer) Test(ctx context.Context) ([]byte, error) {
	return d.run(ctx, "test", d.TestCommand())
}

func (d *Deployer) Publish(ctx context.Context, options PublishOptions) ([]byte, error) {
	command, err := d.PublishCommand(options)
	if err != nil {
		return nil, err
	}
	return d.run(ctx, "publish", command)
}

// CompileAndPublish compiles then publishes, stopping at the first failure.
func (d *Deployer) CompileAndPublish(ctx context.Context, options PublishOptions) ([]byte, error) {
	compiled, err := d.Compile(ctx)
	if err != nil {
		return compiled, err
	}
	return d.Publish(ctx, options)
}

func (d *Deployer) run(ctx context.Context, step string, command Command) ([]byte, error) {
	// the private key stays out of the log line
	d.log.Info().Str("step", step).Str("dir", command.Dir).Str("named_address", d.namedAddress).Msg("running move toolchain")
	out, err := d.runner.Run(ctx, command)
	if err != nil {
		d.log.Error().Err(err).Str("step", step).Bytes("output", out).Msg("move toolchain failed")
		return out, errors.Wrapf(err, "move %s: %s", step, strings.TrimSpace(string(out)))
	}
	return out, nil
}
