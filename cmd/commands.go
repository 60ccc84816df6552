package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wifibear/keybear/internal/batch"
	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/internal/result"
	"github.com/wifibear/keybear/internal/scan"
	"github.com/wifibear/keybear/pkg/wifi"
	"github.com/wifibear/keybear/ui"
)

// deriveCmd derives keys for a single network.
func deriveCmd(c *cli) *cobra.Command {
	var ssid, bssid string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive default keys for one network",
		Example: `  keybear derive --ssid UPC1234567 --bssid 64:7C:34:00:00:01
  keybear derive --ssid EasyBox-123456 --bssid 00:12:BF:12:34:56 --psk -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}

			res, err := c.engine.GenerateString(ssid, bssid)
			if err != nil {
				return err
			}
			report := result.NewReport(res, result.Options{PSK: c.cfg.Output.PSK})

			for _, run := range res.Failures() {
				c.log.Debug("algorithm failed",
					zap.String("algorithm", string(run.Algorithm)),
					zap.Error(run.Err),
				)
			}

			if err := result.EncodeReport(cmd.OutOrStdout(), format, report); err != nil {
				return err
			}
			c.remember(report)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ssid, "ssid", "s", "", "Network name (omit for a hidden network)")
	f.StringVarP(&bssid, "bssid", "b", "", "Access point MAC address")
	_ = cmd.MarkFlagRequired("bssid")

	return cmd
}

// importCmd derives keys for every network in a capture or list.
func importCmd(c *cli) *cobra.Command {
	var (
		sourceType string
		encryption string
		sortOrder  string
		filter     scan.Filter
		browse     bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Derive keys for every network in an airodump CSV, pcap/pcapng capture or ssid,bssid list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}
			st, err := scan.ParseFormat(sourceType)
			if err != nil {
				return err
			}
			order, err := scan.ParseOrder(sortOrder)
			if err != nil {
				return err
			}
			if encryption != "" {
				filter.Encryption, err = parseEncryption(encryption)
				if err != nil {
					return err
				}
			}

			importer := scan.NewImporter(c.log,
				scan.WithFormat(st),
				scan.WithFilter(filter),
				scan.WithOrder(order),
			)
			imp, err := importer.ImportFile(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ids := imp.Identities()
			runner := batch.NewRunner(c.engine,
				batch.WithWorkers(c.cfg.Batch.Workers),
				batch.WithLogger(c.log),
			)
			items, runErr := runner.Run(ctx, ids)

			reports := make([]result.Report, 0, len(items))
			browsed := make([]ui.Item, 0, len(items))
			for i, it := range items {
				if it.Err != nil {
					continue
				}
				n := imp.Networks[i]
				r := result.NewReport(it.Result, result.Options{
					PSK:        c.cfg.Output.PSK,
					Encryption: n.Encryption,
				})
				reports = append(reports, r)
				browsed = append(browsed, ui.Item{Report: r, Channel: n.Channel, Power: n.Power})
			}

			c.log.Info("import finished",
				zap.String("file", args[0]),
				zap.String("source", imp.Format.String()),
				zap.Int("networks", len(imp.Networks)),
				zap.Int("skipped", len(imp.Skipped)),
				zap.Int("derived", len(reports)),
			)

			if browse {
				store, err := c.openStore()
				if err != nil {
					return err
				}
				if err := ui.Run(ui.NewApp(browsed, store)); err != nil {
					return err
				}
			} else {
				if err := result.Encode(cmd.OutOrStdout(), format, reports); err != nil {
					return err
				}
				c.remember(reports...)
			}

			if runErr != nil {
				if errors.Is(runErr, context.Canceled) {
					return fmt.Errorf("import interrupted after %d of %d networks", len(reports), len(ids))
				}
				return runErr
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&sourceType, "type", "t", "auto", "Input type: auto, airodump, pcap, pcapng or list")
	f.StringVar(&filter.SSIDPrefix, "ssid-prefix", "", "Only networks whose SSID starts with this")
	f.StringVar(&encryption, "encryption", "", "Only networks with this encryption: open, wep, wpa, wpa2 or wpa3")
	f.BoolVar(&filter.WPSOnly, "wps-only", false, "Only networks advertising WPS")
	f.IntVar(&filter.MinPower, "min-power", 0, "Only networks at least this strong (dBm, e.g. -70)")
	f.StringVar(&sortOrder, "sort", "seen", "Result order: seen (first seen) or power (strongest first)")
	f.BoolVar(&browse, "browse", false, "Browse the results interactively")

	return cmd
}

func parseEncryption(s string) (wifi.EncryptionType, error) {
	if strings.EqualFold(s, "open") {
		return wifi.EncOpen, nil
	}
	enc := wifi.ParseEncryption(s)
	if enc == wifi.EncUnknown {
		return enc, fmt.Errorf("unknown encryption %q", s)
	}
	return enc, nil
}

// algorithmsCmd lists the compiled-in algorithms and signature table, or
// explains which signatures match one network.
func algorithmsCmd(c *cli) *cobra.Command {
	var ssid, bssid string

	cmd := &cobra.Command{
		Use:   "algorithms",
		Short: "List supported algorithms and the vendor signatures that select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if bssid != "" {
				id, err := wifi.ParseIdentity(ssid, bssid)
				if err != nil {
					return err
				}
				fmt.Fprint(out, explain(c.engine, id))
				return nil
			}
			fmt.Fprint(out, formatAlgorithms(c.engine))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ssid, "ssid", "s", "", "Explain matches for this SSID")
	f.StringVarP(&bssid, "bssid", "b", "", "Explain matches for this BSSID")

	return cmd
}

func formatAlgorithms(e *keygen.Engine) string {
	var sb strings.Builder

	sb.WriteString("Algorithms:\n\n")
	sb.WriteString(fmt.Sprintf("  %-18s %-30s %-13s %-8s %s\n", "ID", "NAME", "FAMILY", "KIND", "NEEDS"))
	sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("-", 82)))
	for _, a := range e.Algorithms() {
		sb.WriteString(fmt.Sprintf("  %-18s %-30s %-13s %-8s %s\n",
			a.ID, a.Name, a.Family, a.Kind, a.Requires))
	}

	sb.WriteString("\nSignatures:\n\n")
	sb.WriteString(fmt.Sprintf("  %-20s %-34s %-6s %s\n", "ID", "SSID", "OUIS", "ALGORITHM"))
	sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("-", 82)))
	for _, s := range e.Matcher().Signatures() {
		ouis := strconv.Itoa(len(s.OUIs))
		if s.RequireOUI {
			ouis += "!"
		}
		sb.WriteString(fmt.Sprintf("  %-20s %-34s %-6s %s\n", s.ID, s.SSID, ouis, s.Algorithm))
	}
	sb.WriteString("\n  ! = SSID rule only counts inside the listed OUIs\n")
	return sb.String()
}

func explain(e *keygen.Engine, id wifi.Identity) string {
	var sb strings.Builder

	sb.WriteString(id.String() + "\n")
	hits := e.Matcher().Explain(id)
	if len(hits) == 0 {
		sb.WriteString("  no signature matches\n")
		return sb.String()
	}
	for _, h := range hits {
		sb.WriteString(fmt.Sprintf("  %-8s %-20s %s\n", h.Tier, h.Signature.ID, h.Signature.Algorithm))
	}
	return sb.String()
}

// pinCmd completes or checks a WPS PIN.
func pinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin DIGITS",
		Short: "Append (7 digits) or verify (8 digits) a WPS PIN checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digits := args[0]
			n, err := strconv.ParseUint(digits, 10, 32)
			if err != nil {
				return fmt.Errorf("pin %q: not a number", digits)
			}

			out := cmd.OutOrStdout()
			switch len(digits) {
			case 7:
				fmt.Fprintln(out, keygen.WPSPIN(uint32(n)))
				return nil
			case 8:
				if keygen.ValidWPSPIN(digits) {
					fmt.Fprintf(out, "%s is a valid WPS PIN\n", digits)
					return nil
				}
				return fmt.Errorf("%s has a bad checksum, expected %s", digits, keygen.WPSPIN(uint32(n/10)))
			default:
				return fmt.Errorf("pin %q: want 7 or 8 digits, got %d", digits, len(digits))
			}
		},
	}
}

// historyCmd shows previously derived networks.
func historyCmd(c *cli) *cobra.Command {
	var bssid string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously derived networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled")
			}

			out := cmd.OutOrStdout()
			if bssid != "" {
				e, ok := store.FindByBSSID(bssid)
				if !ok {
					return fmt.Errorf("%s is not in the history", bssid)
				}
				format, err := c.outputFormat()
				if err != nil {
					return err
				}
				return result.EncodeReport(out, format, e.Report)
			}

			fmt.Fprint(out, store.FormatHistory())
			return nil
		},
	}

	cmd.Flags().StringVarP(&bssid, "bssid", "b", "", "Show the saved keys of one network")
	return cmd
}
