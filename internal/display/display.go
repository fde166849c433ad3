package display

import (
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"time"
)

const (
	ExplorerBaseURL	= "https://tonscan.org/address/"
	GatewayBaseURL	= "https://mytonstorage.org/api/v1/gateway/"
)

var spaceUnits = []string{"B", "KB", "MB", "GB", "TB"}

var nanoPerTON = big.NewRat(1_000_000_000, 1)

func PrintSpace(bytes uint64) string {
	return formatSize(float64(bytes))
}

func formatSize(size float64) string {
	unit := 0
	for size >= 1024 && unit < len(spaceUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, spaceUnits[unit])
}

// PrintSpaceString formats a decimal byte count that may not fit in 64 bits.
func PrintSpaceString(dec string) string {
	if v, err := strconv.ParseUint(dec, 10, 64); err == nil {
		return PrintSpace(v)
	}

	f, ok := new(big.Float).SetString(dec)
	if !ok || f.Sign() < 0 {
		return PrintSpace(0)
	}

	size, _ := f.Float64()
	return formatSize(size)
}

// FormatBalance renders a nanoton amount with four decimals, "1500000000" -> "1.5000 TON".
func FormatBalance(nano string) string {
	n, ok := new(big.Rat).SetString(nano)
	if !ok {
		n = new(big.Rat)
	}
	return new(big.Rat).Quo(n, nanoPerTON).FloatString(4) + " TON"
}

func Shorten(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

func ExplorerURL(owner string) string {
	if owner == "" {
		return ""
	}
	return ExplorerBaseURL + url.PathEscape(owner)
}

func GatewayURL(bagID string) string {
	if bagID == "" {
		return ""
	}
	return GatewayBaseURL + url.PathEscape(bagID)
}

// FormatProofTime renders a unix timestamp as dd.mm.yyyy, HH:MM in UTC, "" for 0.
func FormatProofTime(unix uint64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(int64(unix), 0).UTC().Format("02.01.2006, 15:04")
}
