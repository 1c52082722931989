package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

// device is the session every tastectl command runs as.
var device = appsvcs.Session{}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		wineID   string
		rating   int
		price    float64
		flavors  []string
		comments string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a hidden tasting note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			rec, err := svcs.Sync.Record(wineID, rating, price, flavors, comments)
			if err != nil {
				return err
			}
			if err := svcs.Sync.Save(cmd.Context(), device, rec); err != nil {
				return err
			}
			return newFormatter(cmd, rootOpts).record(*rec)
		},
	}

	cmd.Flags().StringVarP(&wineID, "wine", "w", "", "catalog id of the wine poured")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 10")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "perceived price")
	cmd.Flags().StringSliceVarP(&flavors, "flavor", "f", nil, "flavor tag (repeatable)")
	cmd.Flags().StringVarP(&comments, "comments", "c", "", "free-form comments")
	_ = cmd.MarkFlagRequired("wine")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasting notes in the order they were recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			recs, err := svcs.Sync.List(cmd.Context(), device, appsvcs.ListOptions{})
			if err != nil {
				return err
			}
			return newFormatter(cmd, rootOpts).records(recs)
		},
	}
}

// NewRevealCommand creates the reveal command.
func NewRevealCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <id>",
		Short: "Reveal the wine behind a tasting note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid note id %q: %w", args[0], err)
			}

			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			rec, err := svcs.Sync.Reveal(cmd.Context(), device, id)
			if err != nil {
				return err
			}
			return newFormatter(cmd, rootOpts).record(rec)
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every tasting note on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("clear deletes every note on this device; pass --yes to confirm")
			}

			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			if err := svcs.Sync.Clear(cmd.Context(), device); err != nil {
				return err
			}
			return newFormatter(cmd, rootOpts).message("cleared")
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the collection now and after every change, including changes by other processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			ctx := cmd.Context()
			if err := svcs.Start(ctx); err != nil {
				return err
			}

			out := newFormatter(cmd, rootOpts)
			snapshots := make(chan []models.TastingRecord, 16)
			sub, err := svcs.Sync.Subscribe(ctx, device, func(recs []models.TastingRecord) {
				select {
				case snapshots <- recs:
				default:
				}
			})
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()

			for {
				select {
				case <-ctx.Done():
					return nil
				case recs := <-snapshots:
					if err := out.records(recs); err != nil {
						return err
					}
				}
			}
		},
	}
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the wines in tasting order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := openServices(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer svcs.Close() //nolint:errcheck

			return newFormatter(cmd, rootOpts).wines(svcs.Sync.Catalog().All())
		},
	}
}
