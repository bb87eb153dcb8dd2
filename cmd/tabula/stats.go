package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/performance"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Load a file and report table size, process memory and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Started before loading so CPU usage covers the load.
			rm, monErr := performance.NewResourceMonitor()

			r, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t, err := r.Table()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "source\t%s\n", t.Name())
			fmt.Fprintf(tw, "rows\t%d\n", t.Len())
			fmt.Fprintf(tw, "columns\t%d\n", t.Width())
			fmt.Fprintf(tw, "table_bytes\t%d\n", t.MemoryUsage())

			if usage, err := resourceUsage(rm, monErr); err != nil {
				// Not every platform exposes process memory.
				a.log.Debug("process resources unavailable", zap.Error(err))
			} else {
				fmt.Fprintf(tw, "process_rss_bytes\t%d\n", usage.MemoryRSS)
				fmt.Fprintf(tw, "heap_alloc_bytes\t%d\n", usage.HeapAlloc)
				fmt.Fprintf(tw, "cpu_percent\t%.1f\n", usage.CPUPercent)
				fmt.Fprintf(tw, "threads\t%d\n", usage.ThreadCount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !a.cfg.Observability.EnableMetrics {
				return nil
			}
			fmt.Fprintln(out)
			return writeMetrics(out, prometheus.DefaultGatherer)
		},
	}
}

func resourceUsage(rm *performance.ResourceMonitor, err error) (*performance.ResourceUsage, error) {
	if err != nil {
		return nil, err
	}
	return rm.Usage()
}

// writeMetrics prints the tabula metric families in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "tabula_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
