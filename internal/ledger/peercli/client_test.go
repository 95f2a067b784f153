package peercli

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchain/internal/platform/config"
)

func testClient() *Client {
	return New(config.Ledger{
		PeerBinary:        "peer",
		Channel:           "mychannel",
		Chaincode:         "basic",
		PeerAddress:       "localhost:7051",
		PeerTLSCert:       "/tls/org1-ca.crt",
		SecondPeerAddress: "localhost:9051",
		SecondPeerTLSCert: "/tls/org2-ca.crt",
		OrdererAddress:    "localhost:7050",
		OrdererHost:       "orderer.example.com",
		OrdererCACert:     "/tls/orderer-ca.pem",
		CommandTimeout:    time.Second,
	}, slog.Default())
}

func TestCtorJSON(t *testing.T) {
	ctor, err := ctorJSON("ReadAsset", []string{"certificate_C100"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"function":"ReadAsset","Args":["certificate_C100"]}`, ctor)

	ctor, err = ctorJSON("GetAllAssets", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"function":"GetAllAssets","Args":[]}`, ctor)
}

func TestQueryArgs(t *testing.T) {
	c := testClient()
	args := c.queryArgs(`{"function":"GetAllAssets","Args":[]}`)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "chaincode query")
	assert.Contains(t, joined, "-C mychannel")
	assert.Contains(t, joined, "-n basic")
	assert.NotContains(t, joined, "--peerAddresses", "queries go to the local peer only")
}

func TestInvokeArgsTargetsBothPeers(t *testing.T) {
	c := testClient()
	args := c.invokeArgs(`{"function":"CreateAsset","Args":[]}`)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "chaincode invoke")
	assert.Contains(t, joined, "-o localhost:7050")
	assert.Contains(t, joined, "--ordererTLSHostnameOverride orderer.example.com")
	assert.Contains(t, joined, "--cafile /tls/orderer-ca.pem")
	assert.Contains(t, joined, "--peerAddresses localhost:7051 --tlsRootCertFiles /tls/org1-ca.crt")
	assert.Contains(t, joined, "--peerAddresses localhost:9051 --tlsRootCertFiles /tls/org2-ca.crt")
}

func TestEnvCarriesFabricSettings(t *testing.T) {
	c := testClient()
	env := strings.Join(c.env(), "\n")
	assert.Contains(t, env, "CORE_PEER_LOCALMSPID=")
	assert.Contains(t, env, "CORE_PEER_TLS_ENABLED=true")
	assert.Contains(t, env, "CORE_PEER_ADDRESS=localhost:7051")
	assert.Contains(t, env, "ORDERER_CA=/tls/orderer-ca.pem")
}
