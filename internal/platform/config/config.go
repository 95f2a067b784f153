// Package config builds the process-wide configuration once at startup.
// Components receive it by reference and treat it as read-only; nothing else
// in the tree reads environment variables or scans network interfaces.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Ledger holds everything the peer CLI client needs to reach the Fabric
// network. Paths mirror the fabric-samples test-network layout.
type Ledger struct {
	PeerBinary        string
	BinPath           string
	CfgPath           string
	NetworkPath       string
	Channel           string
	Chaincode         string
	MSPID             string
	MSPConfigPath     string
	PeerAddress       string
	PeerTLSCert       string
	SecondPeerAddress string
	SecondPeerTLSCert string
	OrdererAddress    string
	OrdererHost       string
	OrdererCACert     string
	CommandTimeout    time.Duration
}

// Config is the full service configuration.
type Config struct {
	Addr           string
	ServerIP       string
	PublicBaseURL  string
	GatewayBaseURL string
	KeyPrefix      string
	MaxUploadBytes int64
	IPFSAPIAddr    string
	StoreTimeout   time.Duration
	FetchTimeout   time.Duration
	Ledger         Ledger
}

// FromEnv builds a Config from environment variables so main stays lean.
// The server IP is detected once here; the service builds public URLs from it.
func FromEnv() *Config {
	addr := envOr("CERTCHAIN_ADDR", ":3000")
	serverIP := envOr("CERTCHAIN_PUBLIC_IP", detectServerIP())

	networkPath := envOr("FABRIC_NETWORK_PATH", "fabric-samples/test-network")
	gatewayPort := envOr("IPFS_GATEWAY_PORT", "8081")

	port := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		port = addr[i+1:]
	}

	return &Config{
		Addr:           addr,
		ServerIP:       serverIP,
		PublicBaseURL:  fmt.Sprintf("http://%s:%s", serverIP, port),
		GatewayBaseURL: fmt.Sprintf("http://%s:%s", serverIP, gatewayPort),
		KeyPrefix:      "certificate_",
		MaxUploadBytes: 10 << 20,
		IPFSAPIAddr:    envOr("IPFS_API_ADDR", "localhost:5001"),
		StoreTimeout:   30 * time.Second,
		FetchTimeout:   15 * time.Second,
		Ledger: Ledger{
			PeerBinary:        "peer",
			BinPath:           networkPath + "/../bin",
			CfgPath:           networkPath + "/../config/",
			NetworkPath:       networkPath,
			Channel:           envOr("FABRIC_CHANNEL", "mychannel"),
			Chaincode:         envOr("FABRIC_CHAINCODE", "basic"),
			MSPID:             "Org1MSP",
			MSPConfigPath:     networkPath + "/organizations/peerOrganizations/org1.example.com/users/Admin@org1.example.com/msp",
			PeerAddress:       "localhost:7051",
			PeerTLSCert:       networkPath + "/organizations/peerOrganizations/org1.example.com/peers/peer0.org1.example.com/tls/ca.crt",
			SecondPeerAddress: "localhost:9051",
			SecondPeerTLSCert: networkPath + "/organizations/peerOrganizations/org2.example.com/peers/peer0.org2.example.com/tls/ca.crt",
			OrdererAddress:    "localhost:7050",
			OrdererHost:       "orderer.example.com",
			OrdererCACert:     networkPath + "/organizations/ordererOrganizations/example.com/orderers/orderer.example.com/msp/tlscacerts/tlsca.example.com-cert.pem",
			CommandTimeout:    30 * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// detectServerIP picks the last non-internal IPv4 address, skipping Docker
// bridge networks (172.x). Falls back to localhost.
func detectServerIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	serverIP := "localhost"
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil || strings.HasPrefix(ip4.String(), "172.") {
				continue
			}
			serverIP = ip4.String()
		}
	}
	return serverIP
}
