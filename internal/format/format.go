// Package format renders raw metrics for display. Every function is pure; the
// raw values stay available to callers on the merged record.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	trillion = 1e12
	billion  = 1e9
	million  = 1e6
	thousand = 1e3
)

// MarketCap renders a market capitalization with two decimals, e.g. "2.30B".
func MarketCap(v float64) string {
	sign, abs := split(v)
	switch {
	case abs >= trillion:
		return fmt.Sprintf("%s%.2fT", sign, abs/trillion)
	case abs >= billion:
		return fmt.Sprintf("%s%.2fB", sign, abs/billion)
	case abs >= million:
		return fmt.Sprintf("%s%.2fM", sign, abs/million)
	default:
		return fmt.Sprintf("%s%.2f", sign, abs)
	}
}

// Volume renders a share volume with one decimal, e.g. "2.5M". Volumes below a
// thousand are printed as whole shares.
func Volume(v float64) string {
	sign, abs := split(v)
	switch {
	case abs >= billion:
		return fmt.Sprintf("%s%.1fB", sign, abs/billion)
	case abs >= million:
		return fmt.Sprintf("%s%.1fM", sign, abs/million)
	case abs >= thousand:
		return fmt.Sprintf("%s%.1fK", sign, abs/thousand)
	default:
		return sign + strconv.FormatInt(int64(abs), 10)
	}
}

// Revenue renders a currency amount, e.g. "$1.2B". Net profit uses it too, so
// losses keep their sign in front of the currency symbol.
func Revenue(v float64) string {
	sign, abs := split(v)
	switch {
	case abs >= billion:
		return fmt.Sprintf("%s$%.1fB", sign, abs/billion)
	case abs >= million:
		return fmt.Sprintf("%s$%.1fM", sign, abs/million)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// Growth renders a percentage change with an explicit sign, e.g. "+12.50%".
func Growth(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Recommendation summarizes an analyst recommendation entry as the share of
// buy and strong buy ratings, e.g. "69% Buy".
func Recommendation(raw json.RawMessage) string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return "N/A"
	}
	r := gjson.ParseBytes(raw)
	buy := r.Get("buy").Float() + r.Get("strongBuy").Float()
	total := buy + r.Get("hold").Float() + r.Get("sell").Float() + r.Get("strongSell").Float()
	if total <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%% Buy", math.Round(buy/total*100))
}

// TimeAgo renders how long ago something was published: whole days once a
// full day has passed, whole hours before that.
func TimeAgo(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	if days := int64(elapsed / (24 * time.Hour)); days >= 1 {
		return fmt.Sprintf("%d days ago", days)
	}
	return fmt.Sprintf("%d hours ago", int64(elapsed/time.Hour))
}

func split(v float64) (string, float64) {
	if v < 0 {
		return "-", -v
	}
	return "", v
}
