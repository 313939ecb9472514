// Package respond memetakan error domain ke status HTTP dan pesan pengguna.
package respond

import (
	"errors"
	"net/http"

	"SIABSEN/attendance"
	"SIABSEN/descriptor"
	"SIABSEN/feed"
	"SIABSEN/scan"

	"github.com/gin-gonic/gin"
)

func Status(err error) int {
	switch {
	case errors.Is(err, scan.ErrEmptyName),
		errors.Is(err, descriptor.ErrEmptyName),
		errors.Is(err, descriptor.ErrEmptyDescriptor),
		errors.Is(err, descriptor.ErrDimension),
		errors.Is(err, attendance.ErrEmptyName),
		errors.Is(err, feed.ErrDimension):
		return http.StatusBadRequest
	case errors.Is(err, scan.ErrNoEnrollment),
		errors.Is(err, attendance.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, scan.ErrCameraBusy):
		return http.StatusConflict
	case errors.Is(err, scan.ErrCameraUnavailable),
		errors.Is(err, scan.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Message(err error) string {
	switch {
	case errors.Is(err, scan.ErrEmptyName):
		return "Silakan isi nama terlebih dahulu"
	case errors.Is(err, scan.ErrNoEnrollment):
		return "Silakan daftarkan wajah terlebih dahulu"
	case errors.Is(err, scan.ErrCameraBusy):
		return "Kamera sedang dipakai, tunggu proses lain selesai"
	case errors.Is(err, scan.ErrCameraUnavailable):
		return "Kamera tidak bisa dibuka: pastikan perangkat terhubung dan izin kamera diberikan"
	case errors.Is(err, attendance.ErrNoRecords):
		return "Belum ada catatan yang bisa diexport"
	}
	return err.Error()
}

// Error menulis body {"error": ...} dengan status yang sesuai.
func Error(c *gin.Context, err error) {
	c.JSON(Status(err), gin.H{"error": Message(err)})
}
