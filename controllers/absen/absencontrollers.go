package absen

import (
	"net/http"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/controllers/respond"
	"SIABSEN/models"
	"SIABSEN/scan"

	"github.com/gin-gonic/gin"
)

// RecognizeHandler adalah toggle: panggilan saat sesi aktif membatalkan sesi itu.
func RecognizeHandler(ctrl *scan.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		tog, err := ctrl.ToggleRecognize(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		if tog.Cancelled {
			c.JSON(http.StatusOK, gin.H{"message": "Absen dibatalkan", "session_id": tog.SessionID, "cancelled": true})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Absen dimulai, silakan menghadap kamera", "session_id": tog.SessionID})
	}
}

type CancelPayload struct {
	Mode scan.Mode `json:"mode" binding:"required"`
}

// CancelScanHandler membatalkan sesi enroll atau recognize yang sedang berjalan.
func CancelScanHandler(ctrl *scan.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CancelPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mode wajib diisi"})
			return
		}
		if payload.Mode != scan.ModeEnroll && payload.Mode != scan.ModeRecognize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mode harus enroll atau recognize"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cancelled": ctrl.Cancel(payload.Mode)})
	}
}

func ScanStatusHandler(ctrl *scan.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ctrl.Status())
	}
}

// GetAllAbsen menampilkan log, filter ?name=, urut waktu terbaru dulu.
func GetAllAbsen(log *attendance.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"absen": log.List(c.Query("name"))})
	}
}

func GetNames(log *attendance.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"names": log.Names()})
	}
}

// ExportHandler mengirim file download CSV atau JSON.
func ExportHandler(log *attendance.Log, format attendance.Format, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := attendance.Export(log.Entries(), c.Query("name"), format, loc)
		if err != nil {
			respond.Error(c, err)
			return
		}
		filename := format.Filename(time.Now().In(loc))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, format.ContentType(), body)
	}
}

// SaveAttendanceHandler menimpa seluruh log (kompatibel dengan klien lama).
func SaveAttendanceHandler(log *attendance.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries []models.AttendanceEntry
		if err := c.ShouldBindJSON(&entries); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data absen tidak valid: " + err.Error()})
			return
		}
		if err := log.Replace(c.Request.Context(), entries); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// GetAttendanceJSON mengembalikan log sesuai urutan simpan, [] jika kosong.
func GetAttendanceJSON(log *attendance.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, log.Entries())
	}
}

// ResetHandler menghapus semua wajah dan catatan absen.
func ResetHandler(ctrl *scan.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctrl.Reset(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus data: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Semua wajah dan catatan absen sudah dihapus"})
	}
}
