package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ton-sc-viewer/internal/contract"
	"ton-sc-viewer/internal/database"
	"ton-sc-viewer/internal/display"
)

type ContractFetcher interface {
	FetchFullInfo(ctx context.Context, address string) (*contract.StorageContractFull, error)
}

type Server struct {
	app		*fiber.App
	fetcher		ContractFetcher
	journal		database.Journal
	log		zerolog.Logger
	lookupsLimit	int
}

type Options struct {
	Journal		database.Journal
	Logger		zerolog.Logger
	LookupsLimit	int
	AccessLog	bool
}

func NewServer(fetcher ContractFetcher, opts Options) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:	true,
		UnescapePath:		true,
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	if opts.Journal == nil {
		opts.Journal = database.NopJournal{}
	}
	if opts.LookupsLimit <= 0 {
		opts.LookupsLimit = 50
	}

	s := &Server{
		app:		app,
		fetcher:	fetcher,
		journal:	opts.Journal,
		log:		opts.Logger.With().Str("component", "api").Logger(),
		lookupsLimit:	opts.LookupsLimit,
	}

	s.registerRoutes()
	return s
}

func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("🕹️  API running")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.app.Group("/api/v1")

	v1.Get("/contracts", s.getContract)
	v1.Get("/contracts/:address", s.getContract)
	v1.Get("/contracts/:address/view", s.getContractView)

	v1.Get("/lookups", s.listLookups)
}

func (s *Server) getContract(c *fiber.Ctx) error {
	full, err := s.fetch(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(full)
}

func (s *Server) getContractView(c *fiber.Ctx) error {
	full, err := s.fetch(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(display.NewContractView(full))
}

func (s *Server) listLookups(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.lookupsLimit)

	lookups, err := s.journal.ListLookups(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(lookups)
}

func (s *Server) fetch(c *fiber.Ctx) (*contract.StorageContractFull, error) {
	address := c.Params("address")
	if address == "" {
		address = c.Query("address")
	}

	full, err := s.fetcher.FetchFullInfo(c.UserContext(), address)

	if jerr := s.journal.RecordLookup(c.UserContext(), database.NewLookup(address, full, err)); jerr != nil {
		s.log.Warn().Err(jerr).Str("address", address).Msg("failed to record lookup")
	}

	return full, err
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.log.Warn().Err(err).Int("status", status).Msg("contract fetch failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error":	err.Error(),
		"kind":		string(contract.KindOf(err)),
	})
}

// StatusFor maps fetch errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, contract.ErrInvalidAddress):
		return fiber.StatusBadRequest
	case errors.Is(err, contract.ErrDecodeFailure):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, contract.ErrTransportFailure):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
