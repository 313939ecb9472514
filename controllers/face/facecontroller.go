package face

import (
	"net/http"

	"SIABSEN/controllers/respond"
	"SIABSEN/descriptor"
	"SIABSEN/models"
	"SIABSEN/scan"

	"github.com/gin-gonic/gin"
)

// Struct untuk validasi input enroll
type EnrollPayload struct {
	Name string `json:"name"`
}

// EnrollHandler memulai sesi scan enroll. Hasil akhir dibaca lewat /api/scan/status.
func EnrollHandler(ctrl *scan.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Validasi Input JSON
		var payload EnrollPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Input tidak valid: " + err.Error()})
			return
		}

		// 2. Mulai scan (nama kosong ditolak sebelum kamera dibuka)
		id, err := ctrl.StartEnroll(c.Request.Context(), payload.Name)
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"message":    "Pendaftaran dimulai, silakan menghadap kamera",
			"session_id": id,
		})
	}
}

// ListFacesHandler menampilkan nama terdaftar beserta jumlah angle wajah.
func ListFacesHandler(store *descriptor.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := store.Names()
		c.JSON(http.StatusOK, gin.H{
			"is_registered": len(names) > 0,
			"faces":         names,
		})
	}
}

// SaveDescriptorsHandler menimpa seluruh koleksi descriptor (kompatibel dengan klien lama).
func SaveDescriptorsHandler(store *descriptor.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coll models.Collection
		if err := c.ShouldBindJSON(&coll); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data wajah tidak valid: " + err.Error()})
			return
		}
		if err := store.Replace(c.Request.Context(), coll); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// GetDescriptorsHandler mengembalikan koleksi saat ini, {} jika kosong.
func GetDescriptorsHandler(store *descriptor.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Collection())
	}
}
