// Package peercli implements the ledger client by shelling out to the Fabric
// peer binary, mirroring how operators drive the test network. The command
// environment is built entirely from injected configuration.
package peercli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"certchain/internal/ledger"
	"certchain/internal/platform/config"
)

// Client runs peer chaincode commands against a single channel and contract.
type Client struct {
	cfg    config.Ledger
	logger *slog.Logger
}

func New(cfg config.Ledger, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// chaincodeCtor is the -c payload of a peer chaincode command.
type chaincodeCtor struct {
	Function string   `json:"function"`
	Args     []string `json:"Args"`
}

func ctorJSON(fn string, args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	b, err := json.Marshal(chaincodeCtor{Function: fn, Args: args})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// queryArgs builds the argument list for an evaluate-only call.
func (c *Client) queryArgs(ctor string) []string {
	return []string{
		"chaincode", "query",
		"-C", c.cfg.Channel,
		"-n", c.cfg.Chaincode,
		"-c", ctor,
	}
}

// invokeArgs builds the argument list for a submitted transaction. Both
// org peers are targeted so the endorsement policy is satisfied.
func (c *Client) invokeArgs(ctor string) []string {
	return []string{
		"chaincode", "invoke",
		"-o", c.cfg.OrdererAddress,
		"--ordererTLSHostnameOverride", c.cfg.OrdererHost,
		"--tls",
		"--cafile", c.cfg.OrdererCACert,
		"-C", c.cfg.Channel,
		"-n", c.cfg.Chaincode,
		"--peerAddresses", c.cfg.PeerAddress,
		"--tlsRootCertFiles", c.cfg.PeerTLSCert,
		"--peerAddresses", c.cfg.SecondPeerAddress,
		"--tlsRootCertFiles", c.cfg.SecondPeerTLSCert,
		"-c", ctor,
		"--waitForEvent",
	}
}

// env is the child process environment for peer commands.
func (c *Client) env() []string {
	return append(os.Environ(),
		"PATH="+c.cfg.BinPath+string(os.PathListSeparator)+os.Getenv("PATH"),
		"FABRIC_CFG_PATH="+c.cfg.CfgPath,
		"CORE_PEER_LOCALMSPID="+c.cfg.MSPID,
		"CORE_PEER_MSPCONFIGPATH="+c.cfg.MSPConfigPath,
		"CORE_PEER_ADDRESS="+c.cfg.PeerAddress,
		"CORE_PEER_TLS_ENABLED=true",
		"CORE_PEER_TLS_ROOTCERT_FILE="+c.cfg.PeerTLSCert,
		"ORDERER_CA="+c.cfg.OrdererCACert,
	)
}

func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.cfg.PeerBinary, args...)
	cmd.Dir = c.cfg.NetworkPath
	cmd.Env = c.env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if strings.Contains(msg, "does not exist") {
			return nil, ledger.ErrNotFound
		}
		c.logger.ErrorContext(ctx, "peer command failed",
			"error", err,
			"stderr", msg,
		)
		return nil, fmt.Errorf("peer %s: %w: %s", args[1], err, strings.TrimSpace(msg))
	}
	return stdout.Bytes(), nil
}

func (c *Client) Query(ctx context.Context, fn string, args ...string) ([]byte, error) {
	ctor, err := ctorJSON(fn, args)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, c.queryArgs(ctor))
}

func (c *Client) Invoke(ctx context.Context, fn string, args ...string) error {
	ctor, err := ctorJSON(fn, args)
	if err != nil {
		return err
	}
	_, err = c.run(ctx, c.invokeArgs(ctor))
	return err
}
