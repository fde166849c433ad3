package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ton-sc-viewer/internal/config"
	"ton-sc-viewer/internal/fetcher"
	"ton-sc-viewer/internal/ton"
)

func main() {
	rootCmd := &cobra.Command{
		Use:		"viewer",
		Short:		"TON Storage contract viewer",
		Long:		`Reads TON Storage contracts (bag info, providers, balance) through get methods.`,
		SilenceUsage:	true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(showCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(ctx context.Context, cfg *config.Config) (ton.Client, error) {
	switch cfg.Transport {
	case config.TransportLiteserver:
		return ton.NewLiteClient(ctx, cfg.TonConfigURL, cfg.RPCTimeout)
	default:
		return ton.NewToncenterClient(ton.ToncenterOptions{
			Endpoint:	cfg.ToncenterURL,
			APIKey:		cfg.ToncenterAPIKey,
			Timeout:	cfg.RPCTimeout,
			MinInterval:	cfg.RPCMinInterval,
		}), nil
	}
}

func fetcherOptions(cfg *config.Config, extra ...fetcher.Option) []fetcher.Option {
	opts := []fetcher.Option{
		fetcher.WithParallel(cfg.FetchParallel),
		fetcher.WithCallTimeout(cfg.RPCTimeout),
	}
	return append(opts, extra...)
}
