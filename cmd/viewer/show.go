package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"ton-sc-viewer/internal/config"
	"ton-sc-viewer/internal/display"
	"ton-sc-viewer/internal/fetcher"
	"ton-sc-viewer/internal/logging"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:	"show <address>",
		Short:	"Print a storage contract",
		Args:	cobra.ExactArgs(1),
		RunE:	runShow,
	}
	cmd.Flags().Bool("json", false, "print the decoded contract as JSON")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	log := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)

	client, err := newClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	f := fetcher.New(client, fetcherOptions(cfg, fetcher.WithLogger(log))...)

	full, err := f.FetchFullInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(full)
	}
	return renderView(cmd.OutOrStdout(), display.NewContractView(full))
}

func renderView(w io.Writer, v *display.ContractView) error {
	s := v.Storage

	info := pterm.TableData{
		{"Field", "Value"},
		{"Bag ID", s.BagID},
		{"Gateway", s.GatewayURL},
		{"File size", s.FileSize},
		{"Chunk size", s.ChunkSize},
		{"Merkle hash", s.MerkleHash},
		{"Owner", s.Owner},
		{"Explorer", s.OwnerURL},
		{"Balance", s.Balance},
	}

	table, err := pterm.DefaultTable.WithHasHeader(true).WithData(info).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(w, pterm.DefaultSection.Sprint("Storage contract"))
	fmt.Fprintln(w, table)

	fmt.Fprint(w, pterm.DefaultSection.Sprint(fmt.Sprintf("Providers (%d)", len(v.Providers))))
	if len(v.Providers) == 0 {
		fmt.Fprintln(w, "no providers")
		return nil
	}

	providers := pterm.TableData{{"#", "CID", "Rate/MB", "Max span", "Last proof", "Next proof byte", "Nonce"}}
	for i, p := range v.Providers {
		lastProof := p.LastProof
		if lastProof == "" {
			lastProof = "never"
		}
		providers = append(providers, []string{
			strconv.Itoa(i + 1),
			p.CIDShort,
			strconv.FormatInt(p.RatePerMB, 10),
			strconv.FormatUint(p.MaxSpan, 10),
			lastProof,
			p.NextProofByte,
			p.NonceShort,
		})
	}

	table, err = pterm.DefaultTable.WithHasHeader(true).WithData(providers).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	return nil
}
