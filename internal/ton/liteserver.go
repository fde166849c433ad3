package ton

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"

	"ton-sc-viewer/internal/tvm"
)

const DefaultGlobalConfigURL = "https://ton.org/global.config.json"

// LiteClient runs get methods against liteservers from the global network config.
type LiteClient struct {
	api ton.APIClientWrapped
}

var _ Client = (*LiteClient)(nil)

func NewLiteClient(ctx context.Context, configURL string, timeout time.Duration) (*LiteClient, error) {
	if configURL == "" {
		configURL = DefaultGlobalConfigURL
	}

	lsCfg, err := liteclient.GetConfigFromUrl(ctx, configURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get ton config: %w", err)
	}

	lc := liteclient.NewConnectionPool()
	if err := lc.AddConnectionsFromConfig(ctx, lsCfg); err != nil {
		return nil, fmt.Errorf("failed to add connections: %w", err)
	}

	api := ton.NewAPIClient(lc, ton.ProofCheckPolicyFast).WithRetry().WithTimeout(timeout)

	return &LiteClient{api: api}, nil
}

func (c *LiteClient) RunGetMethod(ctx context.Context, addr *address.Address, method string) (*MethodResult, error) {
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("get masterchain info: %w", err)
	}

	res, err := c.api.RunGetMethod(ctx, block, addr, method)
	if err != nil {
		var execErr ton.ContractExecError
		if errors.As(err, &execErr) {
			return nil, exitCodeError(method, int32(execErr.Code))
		}
		return nil, fmt.Errorf("run %s: %w", method, err)
	}

	return &MethodResult{
		Stack: tvm.FromStack(res.AsTuple()),
	}, nil
}
