package cache

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"raingauge-route-service/internal/domain"
)

// quantize rounds a coordinate to 5 decimal places (~1 m on the ground) so
// floating-point jitter in UI-sourced coordinates maps to a single key.
func quantize(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// RouteKey derives the cache fingerprint for a plan request from the stop
// id set and the start point. Stop ids are sorted before hashing, so two
// logically equal requests produce the same key regardless of input
// ordering noise.
func RouteKey(start domain.Point, stopIDs []string) string {
	ids := append([]string(nil), stopIDs...)
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "route|%.5f,%.5f|", quantize(start.Lat), quantize(start.Lon))
	b.WriteString(strings.Join(ids, ","))

	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// NearestKey derives the cache fingerprint for a k-nearest query.
func NearestKey(ref domain.Point, k int) string {
	s := fmt.Sprintf("nearest|%.5f,%.5f|k=%d", quantize(ref.Lat), quantize(ref.Lon), k)
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
