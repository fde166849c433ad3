package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xssnick/tonutils-go/address"
	"golang.org/x/sync/errgroup"

	"ton-sc-viewer/internal/contract"
	"ton-sc-viewer/internal/metrics"
	"ton-sc-viewer/internal/ton"
)

// Fetcher reads the full state of a storage contract with two get-method calls.
type Fetcher struct {
	client		ton.Client
	registry	Registry
	parallel	bool
	timeout		time.Duration
	log		zerolog.Logger
}

type Option func(*Fetcher)

func WithRegistry(r Registry) Option {
	return func(f *Fetcher) { f.registry = r }
}

// WithParallel issues both calls at once. When both fail the
// get_storage_info error is reported.
func WithParallel(parallel bool) Option {
	return func(f *Fetcher) { f.parallel = parallel }
}

// WithCallTimeout bounds each get-method call.
func WithCallTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = log }
}

func New(client ton.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:		client,
		registry:	NoopRegistry{},
		log:		zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) FetchFullInfo(ctx context.Context, addrStr string) (*contract.StorageContractFull, error) {
	key := strings.TrimSpace(addrStr)

	addr, err := ton.ParseAddress(key)
	if err != nil {
		metrics.IncFetch(string(contract.KindInvalidAddress))
		return nil, contract.InvalidAddress(key, err)
	}

	// cancelling one caller must not break the call for the others
	detached := context.WithoutCancel(ctx)

	res, shared, err := f.registry.Do(ctx, key, func() (*contract.StorageContractFull, error) {
		return f.fetch(detached, addr)
	})
	if shared {
		metrics.IncCoalesced()
		f.log.Debug().Str("address", key).Msg("using pending request")
	}
	if err != nil {
		if !shared {
			metrics.IncFetch(resultLabel(err))
		}
		return nil, err
	}
	if !shared {
		metrics.IncFetch("ok")
	}

	return res, nil
}

func (f *Fetcher) fetch(ctx context.Context, addr *address.Address) (*contract.StorageContractFull, error) {
	if f.parallel {
		return f.fetchParallel(ctx, addr)
	}

	res, err := f.call(ctx, addr, contract.MethodStorageInfo)
	if err != nil {
		return nil, err
	}
	info, err := contract.DecodeStorageInfo(res)
	if err != nil {
		return nil, err
	}

	res, err = f.call(ctx, addr, contract.MethodProviders)
	if err != nil {
		return nil, err
	}
	providers, err := contract.DecodeProviders(res)
	if err != nil {
		return nil, err
	}

	return &contract.StorageContractFull{Info: *info, Providers: *providers}, nil
}

func (f *Fetcher) fetchParallel(ctx context.Context, addr *address.Address) (*contract.StorageContractFull, error) {
	var (
		infoRes, provRes	*ton.MethodResult
		infoErr, provErr	error
		g			errgroup.Group
	)

	g.Go(func() error {
		infoRes, infoErr = f.call(ctx, addr, contract.MethodStorageInfo)
		return nil
	})
	g.Go(func() error {
		provRes, provErr = f.call(ctx, addr, contract.MethodProviders)
		return nil
	})
	_ = g.Wait()

	if infoErr != nil {
		return nil, infoErr
	}
	info, err := contract.DecodeStorageInfo(infoRes)
	if err != nil {
		return nil, err
	}

	if provErr != nil {
		return nil, provErr
	}
	providers, err := contract.DecodeProviders(provRes)
	if err != nil {
		return nil, err
	}

	return &contract.StorageContractFull{Info: *info, Providers: *providers}, nil
}

func (f *Fetcher) call(ctx context.Context, addr *address.Address, method string) (*ton.MethodResult, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := f.client.RunGetMethod(ctx, addr, method)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveRPC(method, "error", elapsed.Seconds())
		f.log.Warn().Err(err).Str("address", addr.String()).Str("method", method).Msg("get method failed")
		return nil, contract.TransportFailure(method, err)
	}

	metrics.ObserveRPC(method, "ok", elapsed.Seconds())
	if res != nil {
		f.log.Debug().
			Str("address", addr.String()).
			Str("method", method).
			Int64("gas_used", res.GasUsed).
			Int("stack", len(res.Stack)).
			Dur("took", elapsed).
			Msg("get method done")
	}

	return res, nil
}

func resultLabel(err error) string {
	if kind := contract.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
