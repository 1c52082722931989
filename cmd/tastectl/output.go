package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

// formatter renders command results as aligned text or JSON.
type formatter struct {
	format string
	w      io.Writer
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *formatter {
	return &formatter{format: opts.Format, w: cmd.OutOrStdout()}
}

func (f *formatter) json(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *formatter) message(msg string) error {
	if f.format == "json" {
		return f.json(map[string]string{"status": msg})
	}
	_, err := fmt.Fprintln(f.w, msg)
	return err
}

func (f *formatter) record(rec models.TastingRecord) error {
	if f.format == "json" {
		return f.json(rec)
	}
	return f.records([]models.TastingRecord{rec})
}

func (f *formatter) records(recs []models.TastingRecord) error {
	if f.format == "json" {
		if recs == nil {
			recs = []models.TastingRecord{}
		}
		return f.json(recs)
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(f.w, "no tasting notes")
		return err
	}

	tw := tabwriter.NewWriter(f.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRATING\tPRICE\tWINE\tFLAVORS")
	for _, rec := range recs {
		wine := "(hidden)"
		if rec.Wine.Revealed {
			wine = rec.Wine.Label
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%s\n",
			rec.ID, rec.Rating.Int(), rec.PerceivedPrice.Float64(), wine, strings.Join(rec.Flavors, ", "))
	}
	return tw.Flush()
}

func (f *formatter) wines(wines []catalog.Wine) error {
	if f.format == "json" {
		return f.json(wines)
	}

	tw := tabwriter.NewWriter(f.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tWINERY\tTYPE\tREGION")
	for _, w := range wines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.Label, w.Winery, w.Type, w.Region)
	}
	return tw.Flush()
}
