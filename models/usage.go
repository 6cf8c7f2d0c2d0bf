package models

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/clawdeck/clawdeck/errors"
)

// UsageWindow is one rolling usage window as reported by the Claude.ai API.
// Utilization is a percentage in [0,100]; ResetsAt is when the window rolls
// over and the counter returns to zero.
type UsageWindow struct {
	Utilization float64   `json:"utilization"`
	ResetsAt    time.Time `json:"resets_at"`
}

// ExtraUsage describes pay-as-you-go overage credits, when enabled.
// MonthlyLimit and UsedCredits are in cents.
type ExtraUsage struct {
	IsEnabled    bool    `json:"is_enabled"`
	MonthlyLimit float64 `json:"monthly_limit"`
	UsedCredits  float64 `json:"used_credits"`
	Utilization  float64 `json:"utilization"`
}

// UsageSnapshot is an immutable picture of all usage windows from one fetch.
// A successful fetch replaces the previous snapshot wholesale; a failed fetch
// leaves the previous snapshot in place.
type UsageSnapshot struct {
	FiveHour       UsageWindow  `json:"five_hour"`
	SevenDay       UsageWindow  `json:"seven_day"`
	SevenDayOpus   *UsageWindow `json:"seven_day_opus,omitempty"`
	SevenDaySonnet *UsageWindow `json:"seven_day_sonnet,omitempty"`
	Extra          *ExtraUsage  `json:"extra_usage,omitempty"`
	FetchedAt      time.Time    `json:"fetched_at"`
}

// wire types mirror the raw JSON shape; resets_at arrives as an ISO-8601
// string and utilization has to be range-checked before we accept it.
type wireWindow struct {
	Utilization *float64 `json:"utilization"`
	ResetsAt    string   `json:"resets_at"`
}

type wireSnapshot struct {
	FiveHour       *wireWindow `json:"five_hour"`
	SevenDay       *wireWindow `json:"seven_day"`
	SevenDayOpus   *wireWindow `json:"seven_day_opus"`
	SevenDaySonnet *wireWindow `json:"seven_day_sonnet"`
	Extra          *ExtraUsage `json:"extra_usage"`
}

// ParseUsage decodes a usage response body into a validated snapshot.
// Any shape or range violation is reported as a parse error.
func ParseUsage(body []byte, fetchedAt time.Time) (*UsageSnapshot, error) {
	var wire wireSnapshot
	if err := sonic.Unmarshal(body, &wire); err != nil {
		return nil, errors.Wrap(errors.KindParse, "decode usage response", err)
	}

	if wire.FiveHour == nil || wire.SevenDay == nil {
		return nil, errors.New(errors.KindParse, "usage response missing five_hour or seven_day window")
	}

	snap := &UsageSnapshot{FetchedAt: fetchedAt}

	var err error
	if snap.FiveHour, err = wire.FiveHour.toWindow("five_hour"); err != nil {
		return nil, err
	}
	if snap.SevenDay, err = wire.SevenDay.toWindow("seven_day"); err != nil {
		return nil, err
	}
	if wire.SevenDayOpus != nil {
		w, err := wire.SevenDayOpus.toWindow("seven_day_opus")
		if err != nil {
			return nil, err
		}
		snap.SevenDayOpus = &w
	}
	if wire.SevenDaySonnet != nil {
		w, err := wire.SevenDaySonnet.toWindow("seven_day_sonnet")
		if err != nil {
			return nil, err
		}
		snap.SevenDaySonnet = &w
	}
	snap.Extra = wire.Extra

	return snap, nil
}

func (w *wireWindow) toWindow(field string) (UsageWindow, error) {
	if w.Utilization == nil {
		return UsageWindow{}, errors.New(errors.KindParse, field+": missing utilization")
	}
	util := *w.Utilization
	if util < 0 || util > 100 {
		return UsageWindow{}, errors.New(errors.KindParse, field+": utilization out of range [0,100]")
	}

	var resetsAt time.Time
	if w.ResetsAt != "" {
		t, err := time.Parse(time.RFC3339, w.ResetsAt)
		if err != nil {
			t, err = time.Parse(time.RFC3339Nano, w.ResetsAt)
			if err != nil {
				return UsageWindow{}, errors.Wrap(errors.KindParse, field+": bad resets_at", err)
			}
		}
		resetsAt = t
	}

	return UsageWindow{Utilization: util, ResetsAt: resetsAt}, nil
}

// Equal reports whether two snapshots carry identical usage values. FetchedAt
// is ignored: a re-fetch of the same payload must reconcile identically.
func (s *UsageSnapshot) Equal(other *UsageSnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.FiveHour != other.FiveHour || s.SevenDay != other.SevenDay {
		return false
	}
	if !windowPtrEqual(s.SevenDayOpus, other.SevenDayOpus) {
		return false
	}
	if !windowPtrEqual(s.SevenDaySonnet, other.SevenDaySonnet) {
		return false
	}
	if (s.Extra == nil) != (other.Extra == nil) {
		return false
	}
	if s.Extra != nil && *s.Extra != *other.Extra {
		return false
	}
	return true
}

func windowPtrEqual(a, b *UsageWindow) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// Organization is one entry of the /api/organizations response. Only the
// uuid is needed to build the usage URL.
type Organization struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}
