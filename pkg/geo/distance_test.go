package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 52.52, 13.405, 52.52, 13.405, 0, 0.001},
		{"berlin to hamburg", 52.5200, 13.4050, 53.5511, 9.9937, 255, 5},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.5},
		{"across the equator", -0.5, 0, 0.5, 0, 111.19, 0.5},
	}

	for _, tc := range cases {
		got := DistanceKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.want) > tc.tolerance {
			t.Errorf("%s: got %.3f km, want %.3f km (±%.3f)", tc.name, got, tc.want, tc.tolerance)
		}
	}
}

func TestDistanceKmIsSymmetric(t *testing.T) {
	d1 := DistanceKm(52.52, 13.405, 48.8566, 2.3522)
	d2 := DistanceKm(48.8566, 2.3522, 52.52, 13.405)
	if math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0.25, "250m"},
		{0.999, "999m"},
		{1.5, "1.5km"},
		{9.94, "9.9km"},
		{15.4, "15km"},
	}

	for _, tc := range cases {
		if got := FormatDistance(tc.km); got != tc.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tc.km, got, tc.want)
		}
	}
}
