package models

import (
	"encoding/json"
	"time"
)

// Descriptor adalah vektor embedding satu sampel wajah. Tidak diubah setelah dibuat.
type Descriptor []float64

// Clone mengembalikan salinan descriptor.
func (d Descriptor) Clone() Descriptor {
	out := make(Descriptor, len(d))
	copy(out, d)
	return out
}

// Collection memetakan nama orang ke daftar descriptor sesuai urutan enroll.
// Satu nama boleh punya banyak sampel (multi angle).
type Collection map[string][]Descriptor

// Clone membuat salinan dalam, supaya penulisan baru tidak menyentuh snapshot lama.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for name, samples := range c {
		cp := make([]Descriptor, len(samples))
		for i, d := range samples {
			cp[i] = d.Clone()
		}
		out[name] = cp
	}
	return out
}

// Count menghitung total sampel di semua nama.
func (c Collection) Count() int {
	n := 0
	for _, samples := range c {
		n += len(samples)
	}
	return n
}

// AttendanceEntry adalah satu catatan absen. Log bersifat append-only.
type AttendanceEntry struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}

// DecodeCollection mengurai JSON koleksi. Nama kosong atau tanpa sampel dibuang.
func DecodeCollection(raw []byte) (Collection, error) {
	var c Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	out := make(Collection, len(c))
	for name, samples := range c {
		if name == "" || len(samples) == 0 {
			continue
		}
		out[name] = samples
	}
	return out, nil
}

// DecodeAttendance mengurai JSON log absen.
func DecodeAttendance(raw []byte) ([]AttendanceEntry, error) {
	var entries []AttendanceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []AttendanceEntry{}
	}
	return entries, nil
}
