package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestReleaseStatusAt(t *testing.T) {
	release := TestRelease{
		StartTime: mustParse(t, "2025-03-01T09:00:00Z"),
		EndTime:   mustParse(t, "2025-03-01T11:00:00Z"),
	}

	cases := []struct {
		name      string
		now       string
		hasResult bool
		want      ReleaseStatus
	}{
		{"before window", "2025-03-01T08:00:00Z", false, ReleaseStatusScheduled},
		{"inside window", "2025-03-01T10:00:00Z", false, ReleaseStatusActive},
		{"window boundary start", "2025-03-01T09:00:00Z", false, ReleaseStatusActive},
		{"window boundary end", "2025-03-01T11:00:00Z", false, ReleaseStatusActive},
		{"after window", "2025-03-01T12:00:00Z", false, ReleaseStatusClosed},
		{"result inside window", "2025-03-01T10:00:00Z", true, ReleaseStatusCompleted},
		{"result overrides closed window", "2025-03-01T12:00:00Z", true, ReleaseStatusCompleted},
		{"result before window opens", "2025-03-01T08:00:00Z", true, ReleaseStatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, release.StatusAt(mustParse(t, tc.now), tc.hasResult))
		})
	}
}

func TestReleasePolygonRoundTrip(t *testing.T) {
	release := TestRelease{}
	polygon := GeoPolygon{
		{Lat: -23.55, Lng: -46.63},
		{Lat: -23.56, Lng: -46.63},
		{Lat: -23.56, Lng: -46.64},
	}

	release.SetPolygon(polygon)
	require.Equal(t, polygon, release.Polygon())
	require.True(t, release.Polygon().IsGeofence())
}

func TestReleasePolygonEmpty(t *testing.T) {
	release := TestRelease{}
	require.Nil(t, release.Polygon())

	release.SetPolygon(nil)
	require.False(t, release.Polygon().IsGeofence())
}

func TestGeoPolygonIsGeofence(t *testing.T) {
	require.False(t, GeoPolygon{}.IsGeofence())
	require.False(t, GeoPolygon{{Lat: 1, Lng: 1}}.IsGeofence())
	require.False(t, GeoPolygon{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}.IsGeofence())
	require.True(t, GeoPolygon{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 1, Lng: 2}}.IsGeofence())
}

func TestGeoPolygonContainsPoint(t *testing.T) {
	// Unit square, closing edge implicit.
	square := GeoPolygon{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 1},
		{Lat: 1, Lng: 0},
	}

	require.True(t, square.ContainsPoint(GeoPoint{Lat: 0.5, Lng: 0.5}))
	require.False(t, square.ContainsPoint(GeoPoint{Lat: 1.5, Lng: 0.5}))
	require.False(t, square.ContainsPoint(GeoPoint{Lat: -0.1, Lng: 0.5}))

	// Degenerate polygons contain nothing.
	require.False(t, GeoPolygon{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}.ContainsPoint(GeoPoint{Lat: 0.5, Lng: 0.5}))
}
