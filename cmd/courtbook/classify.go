package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/booking"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const nowLayout = "2006-01-02T15:04"

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var (
		nowFlag   string
		fromFlag  string
		toFlag    string
		overrides []string
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the booking class of each date in a range as seen at a given time",
		Example: `  courtbook classify --now 2025-06-02T09:00 --from 2025-06-01 --to 2025-07-31
  courtbook classify --now 2025-06-02T09:00 --override 2025-06=2025-06-02`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			loc := cfg.Booking.Loc

			clk, err := classifyClock(nowFlag, loc)
			if err != nil {
				return err
			}
			now := clk.Now()

			list, err := parseOverrides(overrides)
			if err != nil {
				return err
			}
			classifier := booking.NewClassifier(cfg.Booking.PremiumOpenDay)
			window := classifier.Window(now, booking.NewPremiumOverrides(list))

			from, to := window.Today, window.PremiumEnd
			if fromFlag != "" {
				if from, err = domain.ParseDate(fromFlag); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			if toFlag != "" {
				if to, err = domain.ParseDate(toFlag); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}
			if to.Before(from) {
				return domain.ErrInvalidDateRange
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "today %s, free %s..%s, premium opens %s\n",
				window.Today.Format(domain.DateLayout),
				window.FreeStart.Format(domain.DateLayout), window.FreeEnd.Format(domain.DateLayout),
				window.PremiumOpensOn.Format(domain.DateLayout))
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				fmt.Fprintf(out, "%s %-3s %s\n", d.Format(domain.DateLayout), d.Weekday().String()[:3], window.Classify(d))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "evaluate as of this local time ("+nowLayout+") or RFC 3339 instant; defaults to the current time")
	cmd.Flags().StringVar(&fromFlag, "from", "", "first date to classify (default today)")
	cmd.Flags().StringVar(&toFlag, "to", "", "last date to classify (default end of next month)")
	cmd.Flags().StringArrayVar(&overrides, "override", nil, "premium opening override as YYYY-MM=YYYY-MM-DD; repeatable")
	return cmd
}

// classifyClock pins the clock to --now when given. A bare local time is read
// in the site location; an RFC 3339 instant is converted to it.
func classifyClock(nowFlag string, loc *time.Location) (clock.Clock, error) {
	if nowFlag == "" {
		return clock.NewSystem(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, nowFlag); err == nil {
		return clock.In(clock.NewFixed(t), loc), nil
	}
	t, err := time.ParseInLocation(nowLayout, nowFlag, loc)
	if err != nil {
		return nil, fmt.Errorf("--now: expected %s or RFC 3339: %w", nowLayout, err)
	}
	return clock.NewFixed(t), nil
}

func parseOverrides(in []string) ([]domain.PremiumWindowOverride, error) {
	out := make([]domain.PremiumWindowOverride, 0, len(in))
	for _, raw := range in {
		month, opens, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("--override %q: expected YYYY-MM=YYYY-MM-DD", raw)
		}
		m, err := time.Parse("2006-01", strings.TrimSpace(month))
		if err != nil {
			return nil, fmt.Errorf("--override %q: %w", raw, err)
		}
		d, err := domain.ParseDate(opens)
		if err != nil {
			return nil, fmt.Errorf("--override %q: %w", raw, err)
		}
		o := domain.PremiumWindowOverride{Year: m.Year(), Month: m.Month(), OpensOn: d}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("--override %q: %w", raw, err)
		}
		out = append(out, o)
	}
	return out, nil
}
