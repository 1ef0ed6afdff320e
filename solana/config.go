package solana

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// CandyMachineProgramID is the address of the candy machine v1 program.
var CandyMachineProgramID = solana.MustPublicKeyFromBase58("cndyAnrLdpjq1Ssp1z8xxDsB8dxe7u4HL5Nxi2K5WXZ")

// TokenMetadataProgramID is the address of the Metaplex token metadata program.
var TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

type Config struct {
	// Cluster config.
	Cluster rpc.Cluster

	// Candy machine program address.
	CandyMachineProgram solana.PublicKey

	// Commitment used for reads, preflight and blockhash queries.
	Commitment rpc.CommitmentType
}

func clusterConfig(cluster rpc.Cluster, heliusHost, heliusApiKey string) Config {
	if heliusApiKey != "" {
		cluster.RPC = "https://" + heliusHost + "/?api-key=" + heliusApiKey
		cluster.WS = "wss://" + heliusHost + "/?api-key=" + heliusApiKey
	}
	return Config{
		Cluster:             cluster,
		CandyMachineProgram: CandyMachineProgramID,
		Commitment:          rpc.CommitmentConfirmed,
	}
}

// NewDevNetConfig returns devnet config. Public RPC endpoint is used
// when heliusApiKey is empty.
func NewDevNetConfig(heliusApiKey string) Config {
	return clusterConfig(rpc.DevNet, "devnet.helius-rpc.com", heliusApiKey)
}

func NewMainNetConfig(heliusApiKey string) Config {
	return clusterConfig(rpc.MainNetBeta, "mainnet.helius-rpc.com", heliusApiKey)
}
