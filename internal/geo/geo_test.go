package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_SamePointIsZero(t *testing.T) {
	if d := HaversineKm(-33.4372, -70.6342, -33.4372, -70.6342); d != 0 {
		t.Fatalf("distance between identical points = %f, want 0", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{-33.4372, -70.6342, -33.4489, -70.6693},
		{0, 0, 10, 10},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-89.9, 179.9, 89.9, -179.9},
	}
	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestHaversineKm_SantiagoFixture(t *testing.T) {
	// Plaza de Armas area to Estación Central area.
	d := HaversineKm(-33.4372, -70.6342, -33.4489, -70.6693)
	if d < 3.4 || d > 3.6 {
		t.Fatalf("Santiago fixture distance = %f km, want ~3.5", d)
	}
}

func TestHaversineKm_OneDegreeOfLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km regardless of longitude.
	d := HaversineKm(0, -70, 1, -70)
	if d < 111 || d > 111.4 {
		t.Fatalf("one degree of latitude = %f km, want ~111.2", d)
	}
}

func TestCoordinateValidation(t *testing.T) {
	if !ValidLatitude(-33.45) || !ValidLongitude(-70.66) {
		t.Fatal("Santiago coordinates should be valid")
	}
	if ValidLatitude(91) || ValidLatitude(-90.1) {
		t.Fatal("latitudes beyond ±90 should be invalid")
	}
	if ValidLongitude(180.5) || ValidLongitude(-181) {
		t.Fatal("longitudes beyond ±180 should be invalid")
	}
}
