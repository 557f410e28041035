package deploy

import (
	"context"
	"fmt"
	"testing"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	commands []Command
	failOn   string
}

func (r *recordingRunner) Run(_ context.Context, command Command) ([]byte, error) {
	r.commands = append(r.commands, command)
	if r.failOn != "" && len(command.Args) > 1 && command.Args[1] == r.failOn {
		return []byte("error: unbound named address"), fmt.Errorf("exit status 1")
	}
	return []byte("{\"Result\": []}"), nil
}

func newTestDeployer(t *testing.T, runner Runner) (*Deployer, account.Address) {
	t.Helper()
	contract, err := account.ParseAddress("0xa312f04ea0a5f73f9468ae22bf7a61477928b0cfcd2988c7d20f0c1ae22b1534")
	require.NoError(t, err)
	deployer, err := NewDeployer(Config{Runner: runner, PackageDir: "../move", Contract: contract})
	require.NoError(t, err)
	return deployer, contract
}

func TestCompileCommand(t *testing.T) {
	runner := &recordingRunner{}
	deployer, contract := newTestDeployer(t, runner)

	_, err := deployer.Compile(context.Background())
	require.NoError(t, err)
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "aptos move compile --named-addresses Staking="+contract.String(), runner.commands[0].String())
	assert.Equal(t, "../move", runner.commands[0].Dir)
}

func TestTestCommand(t *testing.T) {
	runner := &recordingRunner{}
	deployer, contract := newTestDeployer(t, runner)

	_, err := deployer.Test(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"move", "test", "--named-addresses", "Staking=" + contract.String()}, runner.commands[0].Args)
}

func TestPublishCommandFlags(t *testing.T) {
	deployer, contract := newTestDeployer(t, &recordingRunner{})

	command, err := deployer.PublishCommand(PublishOptions{PrivateKey: "0xabc", NodeURL: "https://fullnode.testnet.aptoslabs.com/v1"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"move", "publish",
		"--named-addresses", "Staking=" + contract.String(),
		"--private-key", "0xabc",
		"--url", "https://fullnode.testnet.aptoslabs.com/v1",
		"--override-size-check",
		"--max-gas", "1000000",
		"--included-artifacts", "none",
		"--gas-unit-price", "100",
		"--assume-yes",
	}, command.Args)

	_, err = deployer.PublishCommand(PublishOptions{NodeURL: "http://127.0.0.1:8080/v1"})
	var configErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestCompileAndPublishStopsOnCompileFailure(t *testing.T) {
	runner := &recordingRunner{failOn: "compile"}
	deployer, _ := newTestDeployer(t, runner)

	out, err := deployer.CompileAndPublish(context.Background(), PublishOptions{PrivateKey: "0xabc", NodeURL: "http://127.0.0.1:8080/v1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound named address")
	assert.Equal(t, "error: unbound named address", string(out))
	assert.Len(t, runner.commands, 1)
}

func TestNewDeployerRequiresContract(t *testing.T) {
	_, err := NewDeployer(Config{})
	var configErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}
