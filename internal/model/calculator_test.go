package model

import "testing"

func TestEstimateTrucksLengthBound(t *testing.T) {
	est := EstimateTrucks(20.0, 5000, StandardTrailer())

	if est.ByLength != 2 {
		t.Errorf("expected 2 trucks by length, got %d", est.ByLength)
	}
	if est.ByWeight != 1 {
		t.Errorf("expected 1 truck by weight, got %d", est.ByWeight)
	}
	if est.Trucks != 2 || est.WeightBound {
		t.Errorf("expected length-bound estimate of 2, got %d (weight bound %v)", est.Trucks, est.WeightBound)
	}
}

func TestEstimateTrucksWeightBound(t *testing.T) {
	est := EstimateTrucks(0.5, 30000, StandardTrailer())

	if est.Trucks != 2 {
		t.Errorf("expected 2 trucks, got %d", est.Trucks)
	}
	if !est.WeightBound {
		t.Error("expected weight-bound estimate")
	}
}

func TestEstimateTrucksExactMultiple(t *testing.T) {
	// 27.2 / 13.6 is not exactly 2 in floating point.
	est := EstimateTrucks(27.2, 0, Container{Width: 245})
	if est.Trucks != 2 {
		t.Errorf("expected 2 trucks for exactly two trailer lengths, got %d", est.Trucks)
	}
}

func TestEstimateTrucksDefaultTrailerLength(t *testing.T) {
	est := EstimateTrucks(14, 0, Container{Width: 245})
	if est.TrailerMeters != StandardTrailerMeter {
		t.Errorf("expected default trailer %.1f m, got %.1f", StandardTrailerMeter, est.TrailerMeters)
	}
	if est.Trucks != 2 {
		t.Errorf("expected 2 trucks, got %d", est.Trucks)
	}
}

func TestEstimateTrucksContainerLength(t *testing.T) {
	c, _ := GetPreset(PresetContainer20)
	est := EstimateTrucks(6.0, 0, c.Container)
	if est.TrailerMeters != 5.9 {
		t.Errorf("expected 5.9 m container, got %.2f", est.TrailerMeters)
	}
	if est.Trucks != 2 {
		t.Errorf("expected 2 containers, got %d", est.Trucks)
	}
}

func TestEstimateTrucksZeroLength(t *testing.T) {
	est := EstimateTrucks(0, 50000, StandardTrailer())
	if est.Trucks != 0 {
		t.Errorf("expected 0 trucks without cargo, got %d", est.Trucks)
	}
}

func TestEstimateTrucksMonotonic(t *testing.T) {
	c := StandardTrailer()
	prev := 0
	for lm := 0.5; lm <= 60; lm += 0.7 {
		est := EstimateTrucks(lm, 10000, c)
		if est.Trucks < prev {
			t.Fatalf("truck count decreased at %.1f m: %d < %d", lm, est.Trucks, prev)
		}
		prev = est.Trucks
	}

	prev = 0
	for kg := 0.0; kg <= 200000; kg += 3333 {
		est := EstimateTrucks(5, kg, c)
		if est.Trucks < prev {
			t.Fatalf("truck count decreased at %.0f kg: %d < %d", kg, est.Trucks, prev)
		}
		prev = est.Trucks
	}
}
