package descriptor

import (
	"math"
	"sort"

	"SIABSEN/helper"
	"SIABSEN/models"
)

// Unknown adalah label hasil match jika tidak ada wajah di bawah threshold.
const Unknown = "unknown"

// DefaultThreshold dipakai jika threshold <= 0.
const DefaultThreshold = 0.6

type Strategy string

const (
	// StrategyNearest: jarak terkecil dari semua sampel semua nama.
	StrategyNearest Strategy = "nearest"
	// StrategyMean: rata-rata jarak per nama, lalu ambil nama dengan rata-rata terkecil.
	StrategyMean Strategy = "mean"
)

type Match struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

func (m Match) IsUnknown() bool {
	return m.Label == Unknown
}

type labeled struct {
	name    string
	samples []models.Descriptor
}

// Matcher adalah proyeksi read-only dari koleksi pada satu titik waktu.
// Tidak pernah diupdate; setiap perubahan koleksi membuat Matcher baru.
type Matcher struct {
	labels    []labeled
	threshold float64
	strategy  Strategy
}

// BuildMatcher mengembalikan nil jika koleksi kosong (belum ada yang enroll).
func BuildMatcher(c models.Collection, threshold float64, strategy Strategy) *Matcher {
	if len(c) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if strategy == "" {
		strategy = StrategyNearest
	}

	// Urutkan nama supaya hasil deterministik saat jarak seri
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Matcher{threshold: threshold, strategy: strategy}
	for _, name := range names {
		samples := c[name]
		if len(samples) == 0 {
			continue
		}
		cp := make([]models.Descriptor, len(samples))
		for i, d := range samples {
			cp[i] = d.Clone()
		}
		m.labels = append(m.labels, labeled{name: name, samples: cp})
	}
	if len(m.labels) == 0 {
		return nil
	}
	return m
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindBestMatch mencari nama terdekat. Jarak >= threshold menghasilkan Unknown.
func (m *Matcher) FindBestMatch(query models.Descriptor) Match {
	best := Match{Label: Unknown, Distance: math.Inf(1)}
	for _, l := range m.labels {
		d := m.labelDistance(l, query)
		if d < best.Distance {
			best = Match{Label: l.name, Distance: d}
		}
	}
	if best.Distance >= m.threshold {
		best.Label = Unknown
	}
	return best
}

func (m *Matcher) labelDistance(l labeled, query models.Descriptor) float64 {
	if m.strategy == StrategyMean {
		sum := 0.0
		for _, s := range l.samples {
			sum += helper.EuclideanDistance(s, query)
		}
		return sum / float64(len(l.samples))
	}

	nearest := math.Inf(1)
	for _, s := range l.samples {
		if d := helper.EuclideanDistance(s, query); d < nearest {
			nearest = d
		}
	}
	return nearest
}
