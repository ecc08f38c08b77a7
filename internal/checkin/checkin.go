// Package checkin implements the geofenced table binding: decode a table
// QR payload, match it to a branch anchor, and verify the scanning device
// is physically within the branch's allowed radius before a table number
// may be bound to a customer session.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hnquoc/tableserve/internal/models"
)

const (
	// earthRadiusM is the mean Earth radius used by the Haversine formula.
	earthRadiusM = 6371000.0

	// coordTolerance is the absolute per-axis tolerance for matching a QR
	// coordinate to a branch anchor. This is intentionally not a
	// nearest-branch search: QR codes carry the branch's exact stored
	// coordinates and are expected to match within float noise.
	coordTolerance = 0.00001
)

var (
	ErrNoMatchingBranch = errors.New("no branch matches the scanned coordinates")

	// Geolocator implementations return these to distinguish the failure
	// modes a user can act on differently.
	ErrLocationDenied      = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrLocationTimeout     = errors.New("location request timed out")
)

// ParseError reports a malformed QR payload. Scanning never falls back to
// a default table; the caller surfaces the reason and the user rescans.
type ParseError struct {
	Payload string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid check-in payload %q: %s", e.Payload, e.Reason)
}

// OutOfRangeError carries the measured distance and the branch threshold
// so the caller can present both.
type OutOfRangeError struct {
	DistanceM float64
	AllowedM  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("device is %.0fm from the branch, allowed %.0fm", e.DistanceM, e.AllowedM)
}

// Position is a device geolocation fix.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Geolocator performs a single fresh high-accuracy location read. It must
// respect ctx cancellation and return one of ErrLocationDenied,
// ErrLocationUnavailable or ErrLocationTimeout on failure.
type Geolocator interface {
	Locate(ctx context.Context) (Position, error)
}

// Payload is the decoded "{lat},{lon}-{table}" QR content.
type Payload struct {
	Latitude  float64
	Longitude float64
	Table     int
}

// ParsePayload decodes the QR string. The format splits on "-" into
// exactly a coordinate pair and a table token; the coordinate segment
// splits on "," into exactly two numbers.
func ParsePayload(raw string) (Payload, error) {
	segments := strings.Split(raw, "-")
	if len(segments) != 2 {
		return Payload{}, &ParseError{Payload: raw, Reason: "expected \"{lat},{lon}-{table}\""}
	}

	coords := strings.Split(segments[0], ",")
	if len(coords) != 2 {
		return Payload{}, &ParseError{Payload: raw, Reason: "coordinate pair must have two values"}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
	if err != nil {
		return Payload{}, &ParseError{Payload: raw, Reason: "latitude is not numeric"}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
	if err != nil {
		return Payload{}, &ParseError{Payload: raw, Reason: "longitude is not numeric"}
	}

	table, err := strconv.Atoi(strings.TrimSpace(segments[1]))
	if err != nil || table <= 0 {
		return Payload{}, &ParseError{Payload: raw, Reason: "table token is not a positive number"}
	}

	return Payload{Latitude: lat, Longitude: lon, Table: table}, nil
}

// MatchBranch finds the branch whose anchor equals the payload coordinates
// within coordTolerance on each axis independently.
func MatchBranch(branches []models.Branch, p Payload) (models.Branch, error) {
	for _, b := range branches {
		if math.Abs(b.Latitude-p.Latitude) <= coordTolerance &&
			math.Abs(b.Longitude-p.Longitude) <= coordTolerance {
			return b, nil
		}
	}
	return models.Branch{}, ErrNoMatchingBranch
}

// Distance returns the great-circle distance in meters between two points
// using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dPhi := degreesToRadians(lat2 - lat1)
	dLambda := degreesToRadians(lon2 - lon1)

	a := math.Pow(math.Sin(dPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Result is a successful check-in: the matched branch and the table now
// sanctioned for binding to the session cart.
type Result struct {
	Branch models.Branch
	Table  int
}

// Checker runs the full protocol against the current branch collection.
type Checker struct {
	locator Geolocator
	timeout time.Duration
}

func NewChecker(locator Geolocator, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Checker{locator: locator, timeout: timeout}
}

// CheckIn parses the payload, matches a branch, takes one fresh location
// fix and verifies the device is inside the branch radius. It is read-only
// against the caller's state: on any failure the cart is untouched.
func (c *Checker) CheckIn(ctx context.Context, branches []models.Branch, rawPayload string) (Result, error) {
	payload, err := ParsePayload(rawPayload)
	if err != nil {
		return Result{}, err
	}

	branch, err := MatchBranch(branches, payload)
	if err != nil {
		return Result{}, err
	}

	locCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pos, err := c.locator.Locate(locCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, ErrLocationTimeout
		}
		return Result{}, err
	}

	allowed := branch.AllowedDistance
	if allowed <= 0 {
		allowed = models.DefaultAllowedDistance
	}

	dist := Distance(pos.Latitude, pos.Longitude, branch.Latitude, branch.Longitude)
	if dist > allowed {
		return Result{}, &OutOfRangeError{DistanceM: dist, AllowedM: allowed}
	}

	return Result{Branch: branch, Table: payload.Table}, nil
}

// TablePayload renders the QR payload for one table of a branch. The
// coordinates are printed with enough precision to survive the parse/match
// round trip.
func TablePayload(b models.Branch, table int) string {
	return fmt.Sprintf("%s,%s-%d",
		strconv.FormatFloat(b.Latitude, 'f', -1, 64),
		strconv.FormatFloat(b.Longitude, 'f', -1, 64),
		table)
}

// TableURL renders the pre-fill link a printed table QR points at. The
// serving surface consumes branchId and table once on initial load and
// then strips them from the address.
func TableURL(base string, b models.Branch, table int) string {
	return fmt.Sprintf("%s?branchId=%s&table=%d", base, b.ID, table)
}
