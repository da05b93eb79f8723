package main

import (
	"context"
	"math/big"

	"github.com/evmlabs/evmsdk/client"
	"github.com/evmlabs/evmsdk/internal/handlers/cli"
	"github.com/evmlabs/evmsdk/internal/pkg/logger"
	"github.com/evmlabs/evmsdk/internal/pkg/validator"
	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/signing/localkey"
	"github.com/evmlabs/evmsdk/signing/remote"
	"github.com/evmlabs/evmsdk/transport/jsonrpc"
	"github.com/evmlabs/evmsdk/types"

	"github.com/kelseyhightower/envconfig"
)

// config is loaded from the environment. A private key and a remote signer
// are mutually exclusive ways to authorize transactions; with neither, only
// read-only commands are available.
type config struct {
	NodeURL string `envconfig:"EVM_NODE_URL" required:"true" validate:"required,url"`

	PrivateKey    string `envconfig:"EVM_PRIVATE_KEY" validate:"omitempty,excluded_with=SignerURL"`
	SignerURL     string `envconfig:"EVM_SIGNER_URL" validate:"omitempty,url"`
	SignerAddress string `envconfig:"EVM_SIGNER_ADDRESS" validate:"required_with=SignerURL"`

	ChainID  int64  `envconfig:"EVM_CHAIN_ID"`
	LogLevel string `envconfig:"EVM_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Init()
		logger.Fatal(ctx, "failed to load environment configuration", "error", err)
	}

	if err := validator.Validate(cfg); err != nil {
		logger.Init()
		logger.Fatal(ctx, "invalid environment configuration", "error", err)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		logger.Init()
		logger.Fatal(ctx, "invalid log level", "error", err)
	}
	defer logger.Sync()

	chainClient := client.New(cfg.NodeURL)

	signer, err := buildSigner(ctx, cfg, chainClient)
	if err != nil {
		logger.Fatal(ctx, "failed to configure signer", "error", err)
	}

	services := cli.Services{
		Client: chainClient,
		Signer: signer,
	}

	if err := cli.Run(ctx, services); err != nil {
		logger.Fatal(ctx, "command failed", "error", err)
	}
}

// buildSigner constructs the signer selected by the environment, or nil when
// none is configured. An explicit chain id skips the discovery call.
func buildSigner(ctx context.Context, cfg config, chainClient *client.Client) (signing.Signer, error) {
	var chainID *big.Int
	if cfg.ChainID != 0 {
		chainID = big.NewInt(cfg.ChainID)
	}

	switch {
	case cfg.PrivateKey != "":
		if chainID == nil {
			discovered, err := chainClient.ChainID(ctx)
			if err != nil {
				return nil, err
			}
			chainID = discovered
		}

		return localkey.NewFromHex(cfg.PrivateKey, chainID)

	case cfg.SignerURL != "":
		address, err := types.AddressFromHex(cfg.SignerAddress)
		if err != nil {
			return nil, err
		}

		if chainID == nil {
			return remote.NewWithClient(ctx, jsonrpc.NewClient(cfg.SignerURL), address, chainClient)
		}

		return remote.NewFromURL(ctx, cfg.SignerURL, address, chainID)

	default:
		return nil, nil
	}
}
